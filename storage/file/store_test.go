package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorekeep/lorekeep/core"
)

const pngPayload = "data:image/png;base64,aGVsbG8="

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := Open(dir)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, dir
}

func TestOpenCreatesMediaDir(t *testing.T) {
	_, dir := newTestStore(t)

	info, err := os.Stat(filepath.Join(dir, mediaDirName))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestKnowledgeBaseLifecycle(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	kbs, err := store.GetKnowledgeBases(ctx)
	require.NoError(t, err)
	assert.Empty(t, kbs)

	now := time.Now().UTC()
	kb := &core.KnowledgeBase{ID: "kb1", Name: "Field Notes", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, store.CreateKnowledgeBase(ctx, kb))

	kb.Name = "Field Notes v2"
	require.NoError(t, store.UpdateKnowledgeBase(ctx, kb))

	kbs, err = store.GetKnowledgeBases(ctx)
	require.NoError(t, err)
	require.Len(t, kbs, 1)
	assert.Equal(t, "Field Notes v2", kbs[0].Name)

	require.NoError(t, store.DeleteKnowledgeBase(ctx, "kb1"))
	kbs, err = store.GetKnowledgeBases(ctx)
	require.NoError(t, err)
	assert.Empty(t, kbs)
}

func TestUpdateMissingDocument(t *testing.T) {
	store, _ := newTestStore(t)

	doc := &core.DocumentNode{ID: "ghost", Name: "g", Type: core.NodeTypeFile, KnowledgeBaseID: "kb1", Order: 1}
	err := store.UpdateDocument(context.Background(), doc)
	assert.Error(t, err)
}

func TestDocumentsPersistAcrossReopen(t *testing.T) {
	store, dir := newTestStore(t)
	ctx := context.Background()

	doc := &core.DocumentNode{
		ID:              "doc1",
		Name:            "intro",
		Type:            core.NodeTypeFile,
		Content:         "hello",
		KnowledgeBaseID: "kb1",
		Order:           1,
	}
	require.NoError(t, store.CreateDocument(ctx, doc))
	require.NoError(t, store.Close())

	reopened, err := Open(dir)
	require.NoError(t, err)
	defer reopened.Close()

	docs, err := reopened.GetDocuments(ctx, "kb1")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "hello", docs[0].Content)
}

func TestCorruptDataFileDegradesToEmpty(t *testing.T) {
	store, dir := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(filepath.Join(dir, dataFileName), []byte("{broken"), 0644))

	kbs, err := store.GetKnowledgeBases(ctx)
	require.NoError(t, err)
	assert.Empty(t, kbs)

	// A write after the degraded read starts a fresh snapshot.
	kb := &core.KnowledgeBase{ID: "kb1", Name: "fresh"}
	require.NoError(t, store.CreateKnowledgeBase(ctx, kb))
	kbs, err = store.GetKnowledgeBases(ctx)
	require.NoError(t, err)
	require.Len(t, kbs, 1)
}

func TestDeleteKnowledgeBaseCascades(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateKnowledgeBase(ctx, &core.KnowledgeBase{ID: "kb1", Name: "kb"}))
	require.NoError(t, store.CreateDocument(ctx, &core.DocumentNode{
		ID: "doc1", Name: "n", Type: core.NodeTypeFile, KnowledgeBaseID: "kb1", Order: 1,
	}))

	require.NoError(t, store.DeleteKnowledgeBase(ctx, "kb1"))

	all, err := store.GetAllDocuments(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestMediaRoundTrip(t *testing.T) {
	store, dir := newTestStore(t)
	ctx := context.Background()

	id, err := store.SaveMedia(ctx, "kb1", pngPayload)
	require.NoError(t, err)
	assert.True(t, len(id) > 0)

	// The blob lands as a real file in the media directory.
	_, err = os.Stat(filepath.Join(dir, mediaDirName, id))
	require.NoError(t, err)

	data, err := store.ReadMedia(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	ids, err := store.ListMedia(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{id}, ids)

	removed, err := store.DeleteMedia(ctx, id)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = store.DeleteMedia(ctx, id)
	require.NoError(t, err)
	assert.False(t, removed)

	data, err = store.ReadMedia(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestListMediaSkipsUnknownExtensions(t *testing.T) {
	store, dir := newTestStore(t)
	ctx := context.Background()

	id, err := store.SaveMedia(ctx, "kb1", pngPayload)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, mediaDirName, "notes.txt"), []byte("x"), 0644))

	ids, err := store.ListMedia(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{id}, ids)
}

func TestMediaPathRejectsTraversal(t *testing.T) {
	store, dir := newTestStore(t)
	ctx := context.Background()

	outside := filepath.Join(dir, "escape.png")
	require.NoError(t, os.WriteFile(outside, []byte("secret"), 0644))

	data, err := store.ReadMedia(ctx, "../escape.png")
	require.NoError(t, err)
	// The traversal component is stripped, so the lookup misses.
	assert.Nil(t, data)
}
