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


package lorekeep

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lorekeep/lorekeep/media"
	"github.com/lorekeep/lorekeep/scan"
	"github.com/lorekeep/lorekeep/storage"
	"github.com/lorekeep/lorekeep/storage/badger"
	"github.com/lorekeep/lorekeep/storage/file"
	"github.com/lorekeep/lorekeep/tree"
)

// Backend selects the persistence backend a Database opens.
type Backend string

const (
	// BackendBadger stores everything in an embedded BadgerDB database.
	BackendBadger Backend = "badger"

	// BackendFile stores the tree as a JSON file and media as plain
	// files in a data directory.
	BackendFile Backend = "file"
)

// Database wires a storage backend to the tree manager, the media
// provider registry and the reference collector. It is the single
// entry point an embedding application needs.
type Database struct {
	store     storage.Store
	tree      *tree.Manager
	media     *media.Manager
	collector *scan.Collector
	logger    *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	backend      Backend
	inMemory     bool
	scanPoolSize int
	logger       *slog.Logger
}

// WithBackend selects the persistence backend. Default is BackendBadger.
func WithBackend(backend Backend) DatabaseOption {
	return func(o *databaseOptions) {
		o.backend = backend
	}
}

// WithInMemory opens the badger backend without touching disk. Ignored
// by the file backend.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// WithScanPoolSize sets the worker pool size used when scanning
// documents for media references.
func WithScanPoolSize(size int) DatabaseOption {
	return func(o *databaseOptions) {
		o.scanPoolSize = size
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) DatabaseOption {
	return func(o *databaseOptions) {
		o.logger = logger
	}
}

func NewDatabase(path string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		backend: BackendBadger,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	var store storage.Store
	var err error
	switch options.backend {
	case BackendBadger:
		store, err = badger.Open(path, options.inMemory)
	case BackendFile:
		store, err = file.Open(path)
	default:
		return nil, fmt.Errorf("unknown backend %q", options.backend)
	}
	if err != nil {
		return nil, err
	}

	mediaMgr := media.NewManager(media.WithManagerLogger(options.logger))
	mediaMgr.Register(media.NewLocalProvider(store))

	scanOpts := []scan.ScannerOption{scan.WithLogger(options.logger)}
	if options.scanPoolSize > 0 {
		scanOpts = append(scanOpts, scan.WithPoolSize(options.scanPoolSize))
	}
	collector := scan.NewCollector(store, scanOpts...)

	return &Database{
		store:     store,
		tree:      tree.NewManager(store, tree.WithLogger(options.logger)),
		media:     mediaMgr,
		collector: collector,
		logger:    options.logger,
	}, nil
}

func (db *Database) Close() error {
	if err := db.store.Close(); err != nil {
		db.logger.Error("error closing storage backend", "err", err)
		return err
	}
	return nil
}

// Tree returns the document tree manager.
func (db *Database) Tree() *tree.Manager {
	return db.tree
}

// Media returns the media provider registry.
func (db *Database) Media() *media.Manager {
	return db.media
}

// Store returns the underlying storage backend.
func (db *Database) Store() storage.Store {
	return db.store
}

// UnusedMedia returns references to stored media no document mentions.
func (db *Database) UnusedMedia(ctx context.Context) ([]string, error) {
	return db.collector.Unused(ctx)
}

// CleanupMedia deletes the given media references, returning how many
// were actually removed.
func (db *Database) CleanupMedia(ctx context.Context, refs []string) (int, error) {
	return db.collector.Cleanup(ctx, refs)
}
