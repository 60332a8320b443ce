package scan

import (
	"context"
	"log/slog"

	"github.com/lorekeep/lorekeep/media"
	"github.com/lorekeep/lorekeep/storage"
)

// Collector wires the scanner to a storage backend to find and reclaim
// unreferenced media.
type Collector struct {
	store   storage.Store
	scanner *Scanner
	logger  *slog.Logger
}

// NewCollector creates a Collector over the given store. Scanner options
// are passed through.
func NewCollector(store storage.Store, opts ...ScannerOption) *Collector {
	return &Collector{
		store:   store,
		scanner: NewScanner(opts...),
		logger:  slog.Default(),
	}
}

// Unused reads the full document set and the full media enumeration and
// returns every stored identifier no document references, in canonical
// prefixed form.
func (c *Collector) Unused(ctx context.Context) ([]string, error) {
	docs, err := c.store.GetAllDocuments(ctx)
	if err != nil {
		return nil, err
	}

	all, err := c.store.ListMedia(ctx)
	if err != nil {
		return nil, err
	}

	used, err := c.scanner.UsedIdentifiers(docs)
	if err != nil {
		return nil, err
	}

	return ComputeUnused(all, used), nil
}

// Cleanup deletes each referenced blob, accepting identifiers under
// either protocol prefix or bare. It returns the number of deletions
// that actually removed stored bytes; deleting an already-absent
// identifier is a no-op and does not count. Individual delete failures
// are logged and skipped so one bad entry cannot abort the batch.
func (c *Collector) Cleanup(ctx context.Context, refs []string) (int, error) {
	deleted := 0
	for _, ref := range refs {
		id := media.StripRef(ref)
		removed, err := c.store.DeleteMedia(ctx, id)
		if err != nil {
			c.logger.Error("failed to delete media", "id", id, "err", err)
			continue
		}
		if removed {
			deleted++
		}
	}
	c.logger.Info("media cleanup finished", "requested", len(refs), "deleted", deleted)
	return deleted, nil
}
