package scan

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorekeep/lorekeep/core"
)

// stubStore provides just enough of storage.Store for collector tests.
type stubStore struct {
	docs  []core.DocumentNode
	blobs map[string][]byte
}

func newStubStore() *stubStore {
	return &stubStore{blobs: make(map[string][]byte)}
}

func (s *stubStore) GetKnowledgeBases(ctx context.Context) ([]core.KnowledgeBase, error) {
	return nil, nil
}

func (s *stubStore) CreateKnowledgeBase(ctx context.Context, kb *core.KnowledgeBase) error {
	return nil
}

func (s *stubStore) UpdateKnowledgeBase(ctx context.Context, kb *core.KnowledgeBase) error {
	return nil
}

func (s *stubStore) DeleteKnowledgeBase(ctx context.Context, id string) error { return nil }

func (s *stubStore) GetDocuments(ctx context.Context, kbID string) ([]core.DocumentNode, error) {
	return nil, nil
}

func (s *stubStore) GetAllDocuments(ctx context.Context) ([]core.DocumentNode, error) {
	return s.docs, nil
}

func (s *stubStore) CreateDocument(ctx context.Context, doc *core.DocumentNode) error { return nil }

func (s *stubStore) UpdateDocument(ctx context.Context, doc *core.DocumentNode) error { return nil }

func (s *stubStore) DeleteDocuments(ctx context.Context, ids ...string) error { return nil }

func (s *stubStore) SaveMedia(ctx context.Context, kbID, payload string) (string, error) {
	return "", nil
}

func (s *stubStore) ReadMedia(ctx context.Context, id string) ([]byte, error) {
	return s.blobs[id], nil
}

func (s *stubStore) DeleteMedia(ctx context.Context, id string) (bool, error) {
	if _, ok := s.blobs[id]; !ok {
		return false, nil
	}
	delete(s.blobs, id)
	return true, nil
}

func (s *stubStore) ListMedia(ctx context.Context) ([]string, error) {
	ids := []string{}
	for id := range s.blobs {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *stubStore) Close() error { return nil }

func TestCollectorUnused(t *testing.T) {
	ctx := context.Background()
	store := newStubStore()
	store.blobs["used.png"] = []byte("a")
	store.blobs["orphan.png"] = []byte("b")
	store.blobs["orphan.mp3"] = []byte("c")
	store.docs = []core.DocumentNode{
		{ID: "d1", Type: core.NodeTypeFile, Content: `![a](local-media://used.png)`},
	}

	collector := NewCollector(store, WithPoolSize(2))
	unused, err := collector.Unused(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"local-media://orphan.mp3",
		"local-media://orphan.png",
	}, unused)
}

func TestCollectorUnusedLegacyAndCurrentCountOnce(t *testing.T) {
	// The same identifier referenced under both prefixes is used, not a
	// GC candidate.
	ctx := context.Background()
	store := newStubStore()
	store.blobs["img1.png"] = []byte("a")
	store.docs = []core.DocumentNode{
		{ID: "d1", Type: core.NodeTypeFile, Content: `![alt](local-image://img1.png) ![alt](local-media://img1.png)`},
	}

	collector := NewCollector(store)
	unused, err := collector.Unused(ctx)
	require.NoError(t, err)
	assert.Empty(t, unused)
}

func TestCollectorCleanupIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newStubStore()
	store.blobs["orphan.png"] = []byte("a")
	store.blobs["orphan.mp3"] = []byte("b")

	collector := NewCollector(store)
	refs := []string{"local-media://orphan.png", "local-image://orphan.mp3"}

	count, err := collector.Cleanup(ctx, refs)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// Second pass removes nothing.
	count, err = collector.Cleanup(ctx, refs)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
