package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/lorekeep/lorekeep/core"
	"github.com/lorekeep/lorekeep/media"
	"github.com/lorekeep/lorekeep/storage"
)

// Store implements storage.Store on an embedded BadgerDB database.
// The full tree snapshot sits under one singleton key; media blobs are
// individual keyed values.
type Store struct {
	backend *Backend
	logger  *slog.Logger
}

var _ storage.Store = (*Store)(nil)

// NewStore creates a Store over an open backend.
func NewStore(backend *Backend) *Store {
	return &Store{
		backend: backend,
		logger:  slog.Default(),
	}
}

// Open opens the database at path and returns a Store over it.
func Open(path string, inMemory bool) (*Store, error) {
	backend, err := OpenBackend(path, inMemory)
	if err != nil {
		return nil, err
	}
	return NewStore(backend), nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.backend.Close()
}

// readSnapshot loads the tree snapshot inside a transaction. A missing
// key yields an empty snapshot; a corrupt value is logged and likewise
// degraded to empty rather than failing the read.
func (s *Store) readSnapshot(tx *badger.Txn) (*storage.Snapshot, error) {
	item, err := tx.Get([]byte(treeSnapshotKey))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return storage.NewSnapshot(), nil
	}
	if err != nil {
		return nil, err
	}

	var snap *storage.Snapshot
	err = item.Value(func(val []byte) error {
		parsed, perr := storage.UnmarshalSnapshot(val)
		if perr != nil {
			s.logger.Error("corrupt tree snapshot, starting from empty", "err", perr)
			snap = storage.NewSnapshot()
			return nil
		}
		snap = parsed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// view runs fn over the current snapshot read-only.
func (s *Store) view(fn func(snap *storage.Snapshot) error) error {
	return s.backend.WithTx(func(tx *badger.Txn) error {
		snap, err := s.readSnapshot(tx)
		if err != nil {
			return err
		}
		return fn(snap)
	}, false)
}

// mutate runs fn over the current snapshot and writes the result back
// under the singleton key in the same transaction.
func (s *Store) mutate(fn func(snap *storage.Snapshot) error) error {
	return s.backend.WithTx(func(tx *badger.Txn) error {
		snap, err := s.readSnapshot(tx)
		if err != nil {
			return err
		}
		if err := fn(snap); err != nil {
			return err
		}
		data, err := storage.MarshalSnapshot(snap)
		if err != nil {
			return err
		}
		if err := tx.Set([]byte(treeSnapshotKey), data); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

func (s *Store) GetKnowledgeBases(ctx context.Context) ([]core.KnowledgeBase, error) {
	var kbs []core.KnowledgeBase
	err := s.view(func(snap *storage.Snapshot) error {
		kbs = snap.KnowledgeBases
		return nil
	})
	return kbs, err
}

func (s *Store) CreateKnowledgeBase(ctx context.Context, kb *core.KnowledgeBase) error {
	return s.mutate(func(snap *storage.Snapshot) error {
		snap.KnowledgeBases = append(snap.KnowledgeBases, *kb)
		return nil
	})
}

func (s *Store) UpdateKnowledgeBase(ctx context.Context, kb *core.KnowledgeBase) error {
	return s.mutate(func(snap *storage.Snapshot) error {
		if !snap.ReplaceKnowledgeBase(kb) {
			return fmt.Errorf("%w: knowledge base %s", storage.ErrNotFound, kb.ID)
		}
		return nil
	})
}

func (s *Store) DeleteKnowledgeBase(ctx context.Context, id string) error {
	return s.mutate(func(snap *storage.Snapshot) error {
		snap.RemoveKnowledgeBase(id)
		return nil
	})
}

func (s *Store) GetDocuments(ctx context.Context, kbID string) ([]core.DocumentNode, error) {
	var docs []core.DocumentNode
	err := s.view(func(snap *storage.Snapshot) error {
		docs = snap.DocumentsFor(kbID)
		return nil
	})
	return docs, err
}

func (s *Store) GetAllDocuments(ctx context.Context) ([]core.DocumentNode, error) {
	var docs []core.DocumentNode
	err := s.view(func(snap *storage.Snapshot) error {
		docs = snap.Documents
		return nil
	})
	return docs, err
}

func (s *Store) CreateDocument(ctx context.Context, doc *core.DocumentNode) error {
	return s.mutate(func(snap *storage.Snapshot) error {
		snap.Documents = append(snap.Documents, *doc)
		return nil
	})
}

func (s *Store) UpdateDocument(ctx context.Context, doc *core.DocumentNode) error {
	return s.mutate(func(snap *storage.Snapshot) error {
		if !snap.ReplaceDocument(doc) {
			return fmt.Errorf("%w: document %s", storage.ErrNotFound, doc.ID)
		}
		return nil
	})
}

func (s *Store) DeleteDocuments(ctx context.Context, ids ...string) error {
	return s.mutate(func(snap *storage.Snapshot) error {
		snap.RemoveDocuments(ids...)
		return nil
	})
}

func (s *Store) SaveMedia(ctx context.Context, kbID, payload string) (string, error) {
	id, data, err := media.PrepareUpload(kbID, payload)
	if err != nil {
		return "", err
	}

	err = s.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeMediaKey(id), data); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) ReadMedia(ctx context.Context, id string) ([]byte, error) {
	var data []byte
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeMediaKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *Store) DeleteMedia(ctx context.Context, id string) (bool, error) {
	deleted := false
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		key := makeMediaKey(id)
		if _, err := tx.Get(key); errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		} else if err != nil {
			return err
		}
		if err := tx.Delete(key); err != nil {
			return err
		}
		deleted = true
		return tx.Commit()
	}, true)
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (s *Store) ListMedia(ctx context.Context) ([]string, error) {
	ids := []string{}
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(mediaKeyPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			id := mediaIDFromKey(iter.Item().Key())
			if media.KnownExtension(id) {
				ids = append(ids, id)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return ids, nil
}
