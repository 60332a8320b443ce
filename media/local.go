package media

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lorekeep/lorekeep/core"
	"github.com/lorekeep/lorekeep/storage"
)

// LocalName is the registry name of the local provider.
const LocalName = "local"

// Uploads routed through a provider carry no knowledge-base context, so
// blobs land under a shared owner marker in the identifier.
const defaultOwnerID = "default"

// LocalProvider persists media through a storage.Store, so its blobs
// live next to the document tree regardless of which backend is active.
type LocalProvider struct {
	store  storage.Store
	logger *slog.Logger
}

var _ Provider = (*LocalProvider)(nil)

// NewLocalProvider creates a provider backed by the given store.
func NewLocalProvider(store storage.Store) *LocalProvider {
	return &LocalProvider{
		store:  store,
		logger: slog.Default(),
	}
}

func (p *LocalProvider) Name() string { return LocalName }

func (p *LocalProvider) Kind() ProviderKind { return ProviderKindLocal }

func (p *LocalProvider) SupportedTypes() []core.MediaType {
	return AllowedUploadTypes
}

// Available pings the store with a cheap read.
func (p *LocalProvider) Available(ctx context.Context) bool {
	_, err := p.store.GetKnowledgeBases(ctx)
	return err == nil
}

func (p *LocalProvider) Upload(ctx context.Context, payload string, mediaType core.MediaType) (*UploadResult, error) {
	parsed, err := ParsePayload(payload)
	if err != nil {
		return nil, err
	}
	if parsed.Type() != mediaType {
		return nil, fmt.Errorf("%w: payload is %s, requested %s", ErrUnsupportedMediaType, parsed.Type(), mediaType)
	}

	id, err := p.store.SaveMedia(ctx, defaultOwnerID, payload)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &UploadResult{
		ID:   id,
		URL:  CanonicalRef(id),
		Type: mediaType,
		Metadata: &Metadata{
			ID:        id,
			URL:       CanonicalRef(id),
			Provider:  LocalName,
			Type:      mediaType,
			MIME:      parsed.MIME,
			Size:      int64(len(parsed.Data)),
			CreatedAt: now,
			UpdatedAt: now,
		},
	}, nil
}

// Get re-wraps stored bytes as a data URI. The MIME type is inferred
// from the identifier's extension, since the upload-time content type is
// not persisted separately.
func (p *LocalProvider) Get(ctx context.Context, id string) (string, error) {
	bareID := StripRef(id)
	data, err := p.store.ReadMedia(ctx, bareID)
	if err != nil {
		return "", err
	}
	if data == nil {
		return "", fmt.Errorf("%w: %s", ErrMediaNotFound, bareID)
	}

	payload := Payload{MIME: MIMEForExtension(ExtensionOf(bareID)), Data: data}
	return payload.Encode(), nil
}

func (p *LocalProvider) Delete(ctx context.Context, id string) (bool, error) {
	return p.store.DeleteMedia(ctx, StripRef(id))
}

func (p *LocalProvider) Exists(ctx context.Context, id string) (bool, error) {
	data, err := p.store.ReadMedia(ctx, StripRef(id))
	if err != nil {
		return false, err
	}
	return data != nil, nil
}

func (p *LocalProvider) Metadata(ctx context.Context, id string) (*Metadata, error) {
	bareID := StripRef(id)
	data, err := p.store.ReadMedia(ctx, bareID)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	mime := MIMEForExtension(ExtensionOf(bareID))
	return &Metadata{
		ID:       bareID,
		URL:      CanonicalRef(bareID),
		Provider: LocalName,
		Type:     TypeOfMIME(mime),
		MIME:     mime,
		Size:     int64(len(data)),
	}, nil
}

func (p *LocalProvider) List(ctx context.Context) ([]Metadata, error) {
	ids, err := p.store.ListMedia(ctx)
	if err != nil {
		return nil, err
	}

	list := make([]Metadata, 0, len(ids))
	for _, id := range ids {
		mime := MIMEForExtension(ExtensionOf(id))
		list = append(list, Metadata{
			ID:       id,
			URL:      CanonicalRef(id),
			Provider: LocalName,
			Type:     TypeOfMIME(mime),
			MIME:     mime,
		})
	}
	return list, nil
}
