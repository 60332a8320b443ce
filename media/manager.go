package media

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lorekeep/lorekeep/core"
)

// Manager is the provider registry. It routes every operation to a
// named provider, or to the designated default when no name is given.
type Manager struct {
	providers   map[string]Provider
	defaultName string
	logger      *slog.Logger
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithManagerLogger sets a custom logger. Default is slog.Default().
func WithManagerLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates an empty registry with LocalName as the default
// provider name.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		providers:   make(map[string]Provider),
		defaultName: LocalName,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register adds a provider under its own name, replacing any previous
// registration with that name.
func (m *Manager) Register(p Provider) {
	m.providers[p.Name()] = p
}

// SetDefault designates the default provider. Referencing an
// unregistered name is a hard error, never silently defaulted.
func (m *Manager) SetDefault(name string) error {
	if _, ok := m.providers[name]; !ok {
		return fmt.Errorf("%w: %q", ErrProviderNotFound, name)
	}
	m.defaultName = name
	return nil
}

// Provider resolves a provider by name; the empty name resolves to the
// default provider.
func (m *Manager) Provider(name string) (Provider, error) {
	if name == "" {
		name = m.defaultName
	}
	p, ok := m.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrProviderNotFound, name)
	}
	return p, nil
}

// Providers returns every registered provider.
func (m *Manager) Providers() []Provider {
	list := make([]Provider, 0, len(m.providers))
	for _, p := range m.providers {
		list = append(list, p)
	}
	return list
}

// Upload routes an upload to the named or default provider. It fails if
// the provider is unregistered, reports itself unavailable, or does not
// support the requested media category.
func (m *Manager) Upload(ctx context.Context, payload string, mediaType core.MediaType, providerName string) (*UploadResult, error) {
	p, err := m.Provider(providerName)
	if err != nil {
		return nil, err
	}

	if !p.Available(ctx) {
		return nil, fmt.Errorf("%w: %q", ErrProviderUnavailable, p.Name())
	}

	if !supportsType(p, mediaType) {
		return nil, fmt.Errorf("%w: provider %q does not support %s", ErrUnsupportedMediaType, p.Name(), mediaType)
	}

	return p.Upload(ctx, payload, mediaType)
}

// Get fetches a blob as a data URI from the named or default provider.
func (m *Manager) Get(ctx context.Context, id, providerName string) (string, error) {
	p, err := m.Provider(providerName)
	if err != nil {
		return "", err
	}
	return p.Get(ctx, id)
}

// Delete removes a blob from the named or default provider.
func (m *Manager) Delete(ctx context.Context, id, providerName string) (bool, error) {
	p, err := m.Provider(providerName)
	if err != nil {
		return false, err
	}
	return p.Delete(ctx, id)
}

// Exists checks a blob on the named or default provider.
func (m *Manager) Exists(ctx context.Context, id, providerName string) (bool, error) {
	p, err := m.Provider(providerName)
	if err != nil {
		return false, err
	}
	return p.Exists(ctx, id)
}

// Metadata describes a blob held by the named or default provider.
func (m *Manager) Metadata(ctx context.Context, id, providerName string) (*Metadata, error) {
	p, err := m.Provider(providerName)
	if err != nil {
		return nil, err
	}
	return p.Metadata(ctx, id)
}

// List enumerates blobs. With a provider name it lists that provider
// only; with the empty name it aggregates every registered provider,
// logging and skipping providers that fail to enumerate.
func (m *Manager) List(ctx context.Context, providerName string) ([]Metadata, error) {
	if providerName != "" {
		p, err := m.Provider(providerName)
		if err != nil {
			return nil, err
		}
		return p.List(ctx)
	}

	var all []Metadata
	for _, p := range m.providers {
		list, err := p.List(ctx)
		if err != nil {
			m.logger.Warn("provider failed to list media", "provider", p.Name(), "err", err)
			continue
		}
		all = append(all, list...)
	}
	return all, nil
}

// Migrate copies a blob from one provider to another, preserving its
// media category. The source copy is deleted best-effort: a source
// delete failure is logged, not propagated, since the migration is
// complete once the destination write succeeds.
func (m *Manager) Migrate(ctx context.Context, id, fromProvider, toProvider string) (*UploadResult, error) {
	src, err := m.Provider(fromProvider)
	if err != nil {
		return nil, fmt.Errorf("source provider: %w", err)
	}
	dst, err := m.Provider(toProvider)
	if err != nil {
		return nil, fmt.Errorf("target provider: %w", err)
	}

	payload, err := src.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	meta, err := src.Metadata(ctx, id)
	if err != nil {
		return nil, err
	}
	if meta == nil {
		return nil, fmt.Errorf("%w: %s", ErrMediaNotFound, id)
	}

	result, err := dst.Upload(ctx, payload, meta.Type)
	if err != nil {
		return nil, err
	}

	if _, err := src.Delete(ctx, id); err != nil {
		m.logger.Warn("failed to delete migrated media from source provider",
			"provider", src.Name(), "id", id, "err", err)
	}

	return result, nil
}

func supportsType(p Provider, mediaType core.MediaType) bool {
	for _, t := range p.SupportedTypes() {
		if t == mediaType {
			return true
		}
	}
	return false
}
