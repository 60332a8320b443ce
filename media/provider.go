package media

import (
	"context"
	"time"

	"github.com/lorekeep/lorekeep/core"
)

// ProviderKind distinguishes local from remote providers.
type ProviderKind string

const (
	ProviderKindLocal ProviderKind = "local"
	ProviderKindCloud ProviderKind = "cloud"
)

// Metadata describes one stored media blob as seen through a provider.
type Metadata struct {
	ID        string
	URL       string // canonical local-media:// reference
	Provider  string
	Type      core.MediaType
	MIME      string
	Size      int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UploadResult is returned by a successful upload.
type UploadResult struct {
	ID       string
	URL      string // canonical local-media:// reference
	Type     core.MediaType
	Metadata *Metadata
}

// Provider is a pluggable media storage implementation. The local
// provider persists through a storage.Store; remote providers satisfy
// the same contract.
type Provider interface {
	// Name is the unique registry key for this provider.
	Name() string

	// Kind reports where the provider stores bytes.
	Kind() ProviderKind

	// SupportedTypes lists the media categories the provider accepts on
	// upload.
	SupportedTypes() []core.MediaType

	// Available reports whether the provider can currently serve
	// requests. Upload is refused when this returns false.
	Available(ctx context.Context) bool

	// Upload stores a data-URI payload and returns its identifier.
	Upload(ctx context.Context, payload string, mediaType core.MediaType) (*UploadResult, error)

	// Get returns the blob re-encoded as a data URI. Returns
	// ErrMediaNotFound when no bytes are stored under the identifier.
	Get(ctx context.Context, id string) (string, error)

	// Delete removes the blob. Idempotent: returns false without error
	// when nothing was stored.
	Delete(ctx context.Context, id string) (bool, error)

	// Exists reports whether bytes are stored under the identifier.
	Exists(ctx context.Context, id string) (bool, error)

	// Metadata describes a stored blob, or returns (nil, nil) when the
	// identifier is absent.
	Metadata(ctx context.Context, id string) (*Metadata, error)

	// List enumerates every blob the provider holds.
	List(ctx context.Context) ([]Metadata, error)
}
