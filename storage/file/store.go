// Copyright 2025 The Lorekeep Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package file implements storage.Store on a flat data directory: the
// full tree snapshot in one JSON file, media blobs as individual files.
//
// Every tree mutation rewrites the whole snapshot file (atomically, via
// rename), so write cost is linear in total stored data size. That is
// acceptable at the intended scale of a single user's personal notes,
// but it is a scaling ceiling, not an accident.
package file

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/renameio"

	"github.com/lorekeep/lorekeep/core"
	"github.com/lorekeep/lorekeep/media"
	"github.com/lorekeep/lorekeep/storage"
)

const (
	dataFileName  = "data.json"
	mediaDirName  = "media"
	dataFileMode  = 0644
	mediaFileMode = 0644
)

// Store implements storage.Store on a data directory.
type Store struct {
	dataPath string
	mediaDir string
	logger   *slog.Logger
}

var _ storage.Store = (*Store)(nil)

// Open prepares the data directory (creating it and the media
// subdirectory as needed) and returns a Store over it.
func Open(dir string) (*Store, error) {
	mediaDir := filepath.Join(dir, mediaDirName)
	if err := os.MkdirAll(mediaDir, 0755); err != nil {
		return nil, err
	}
	return &Store{
		dataPath: filepath.Join(dir, dataFileName),
		mediaDir: mediaDir,
		logger:   slog.Default(),
	}, nil
}

// Close is a no-op; the store holds no open handles between operations.
func (s *Store) Close() error {
	return nil
}

// load reads the snapshot file. A missing file yields an empty
// snapshot; a corrupt one is logged and degraded to empty rather than
// failing the read.
func (s *Store) load() (*storage.Snapshot, error) {
	data, err := os.ReadFile(s.dataPath)
	if os.IsNotExist(err) {
		return storage.NewSnapshot(), nil
	}
	if err != nil {
		return nil, err
	}

	snap, err := storage.UnmarshalSnapshot(data)
	if err != nil {
		s.logger.Error("corrupt data file, starting from empty", "path", s.dataPath, "err", err)
		return storage.NewSnapshot(), nil
	}
	return snap, nil
}

// save rewrites the whole snapshot file atomically.
func (s *Store) save(snap *storage.Snapshot) error {
	data, err := storage.MarshalSnapshot(snap)
	if err != nil {
		return err
	}
	return renameio.WriteFile(s.dataPath, data, dataFileMode)
}

// mutate runs fn over the current snapshot and persists the result.
func (s *Store) mutate(fn func(snap *storage.Snapshot) error) error {
	snap, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(snap); err != nil {
		return err
	}
	return s.save(snap)
}

func (s *Store) GetKnowledgeBases(ctx context.Context) ([]core.KnowledgeBase, error) {
	snap, err := s.load()
	if err != nil {
		return nil, err
	}
	return snap.KnowledgeBases, nil
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
	snap, err := s.load()
	if err != nil {
		return nil, err
	}
	return snap.DocumentsFor(kbID), nil
}

func (s *Store) GetAllDocuments(ctx context.Context) ([]core.DocumentNode, error) {
	snap, err := s.load()
	if err != nil {
		return nil, err
	}
	return snap.Documents, nil
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

// mediaPath maps an identifier to its file, discarding any path
// components smuggled into the identifier.
func (s *Store) mediaPath(id string) string {
	return filepath.Join(s.mediaDir, filepath.Base(id))
}

func (s *Store) SaveMedia(ctx context.Context, kbID, payload string) (string, error) {
	id, data, err := media.PrepareUpload(kbID, payload)
	if err != nil {
		return "", err
	}
	if err := renameio.WriteFile(s.mediaPath(id), data, mediaFileMode); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) ReadMedia(ctx context.Context, id string) ([]byte, error) {
	data, err := os.ReadFile(s.mediaPath(id))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *Store) DeleteMedia(ctx context.Context, id string) (bool, error) {
	err := os.Remove(s.mediaPath(id))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) ListMedia(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.mediaDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	ids := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if media.KnownExtension(entry.Name()) {
			ids = append(ids, entry.Name())
		}
	}
	return ids, nil
}
