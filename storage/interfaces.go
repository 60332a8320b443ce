package storage

import (
	"context"

	"github.com/lorekeep/lorekeep/core"
)

// Store is the backend boundary shared by the flat-file and embedded
// database implementations. All mutations are whole-record replaces
// executed as read-modify-write cycles over the current snapshot.
//
// Read paths that tolerate partial data loss (loading the full tree,
// listing media) degrade to empty collections when the snapshot is
// missing; write failures always propagate, since silently dropping a
// write would corrupt tree invariants.
type Store interface {
	// GetKnowledgeBases returns every knowledge base record.
	GetKnowledgeBases(ctx context.Context) ([]core.KnowledgeBase, error)

	// CreateKnowledgeBase appends a knowledge base record.
	CreateKnowledgeBase(ctx context.Context, kb *core.KnowledgeBase) error

	// UpdateKnowledgeBase replaces the record with a matching ID.
	// Returns ErrNotFound if no such record exists.
	UpdateKnowledgeBase(ctx context.Context, kb *core.KnowledgeBase) error

	// DeleteKnowledgeBase removes the knowledge base and cascades
	// deletion of every document owned by it.
	DeleteKnowledgeBase(ctx context.Context, id string) error

	// GetDocuments returns the documents of one knowledge base.
	GetDocuments(ctx context.Context, kbID string) ([]core.DocumentNode, error)

	// GetAllDocuments returns every document across all knowledge bases.
	// Used by the garbage collector's reference scan.
	GetAllDocuments(ctx context.Context) ([]core.DocumentNode, error)

	// CreateDocument appends a document record.
	CreateDocument(ctx context.Context, doc *core.DocumentNode) error

	// UpdateDocument replaces the record with a matching ID.
	// Returns ErrNotFound if no such record exists.
	UpdateDocument(ctx context.Context, doc *core.DocumentNode) error

	// DeleteDocuments removes all listed documents in one logical
	// operation. IDs without a matching record are skipped.
	DeleteDocuments(ctx context.Context, ids ...string) error

	// SaveMedia decodes a data-URI payload and stores its bytes under a
	// generated identifier owned by kbID. Returns the identifier.
	SaveMedia(ctx context.Context, kbID, payload string) (string, error)

	// ReadMedia returns the raw bytes stored under the identifier, or
	// (nil, nil) when no such blob exists. Absence is not an error;
	// callers distinguish not-found from transport failure.
	ReadMedia(ctx context.Context, id string) ([]byte, error)

	// DeleteMedia removes the blob stored under the identifier.
	// Idempotent: returns false (and no error) when nothing was removed.
	DeleteMedia(ctx context.Context, id string) (bool, error)

	// ListMedia enumerates every stored identifier carrying a known
	// media extension. Stray non-media entries are excluded.
	ListMedia(ctx context.Context) ([]string, error)

	// Close closes the storage backend and releases resources.
	Close() error
}
