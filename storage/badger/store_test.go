package badger

import (
	"context"
	"testing"
	"time"

	"github.com/lorekeep/lorekeep/core"
)

const pngPayload = "data:image/png;base64,aGVsbG8="

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewMemoryStore()
	if err != nil {
		t.Fatalf("Failed to open in-memory store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestKnowledgeBaseLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	kbs, err := store.GetKnowledgeBases(ctx)
	if err != nil {
		t.Fatalf("Failed to list knowledge bases: %v", err)
	}
	if len(kbs) != 0 {
		t.Fatalf("Expected empty store, got %d knowledge bases", len(kbs))
	}

	now := time.Now().UTC()
	kb := &core.KnowledgeBase{
		ID:        "kb1",
		Name:      "Field Notes",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := store.CreateKnowledgeBase(ctx, kb); err != nil {
		t.Fatalf("Failed to create knowledge base: %v", err)
	}

	kb.Name = "Field Notes v2"
	if err := store.UpdateKnowledgeBase(ctx, kb); err != nil {
		t.Fatalf("Failed to update knowledge base: %v", err)
	}

	kbs, err = store.GetKnowledgeBases(ctx)
	if err != nil {
		t.Fatalf("Failed to list knowledge bases: %v", err)
	}
	if len(kbs) != 1 || kbs[0].Name != "Field Notes v2" {
		t.Fatalf("Unexpected knowledge bases after update: %+v", kbs)
	}

	if err := store.DeleteKnowledgeBase(ctx, "kb1"); err != nil {
		t.Fatalf("Failed to delete knowledge base: %v", err)
	}
	kbs, err = store.GetKnowledgeBases(ctx)
	if err != nil {
		t.Fatalf("Failed to list knowledge bases: %v", err)
	}
	if len(kbs) != 0 {
		t.Fatalf("Expected empty store after delete, got %d", len(kbs))
	}
}

func TestUpdateMissingKnowledgeBase(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	kb := &core.KnowledgeBase{ID: "ghost", Name: "Ghost"}
	err := store.UpdateKnowledgeBase(ctx, kb)
	if err == nil {
		t.Fatal("Expected error updating missing knowledge base")
	}
}

func TestDocumentLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc := &core.DocumentNode{
		ID:              "doc1",
		Name:            "intro",
		Type:            core.NodeTypeFile,
		Content:         "hello",
		KnowledgeBaseID: "kb1",
		Order:           1,
	}
	if err := store.CreateDocument(ctx, doc); err != nil {
		t.Fatalf("Failed to create document: %v", err)
	}

	other := &core.DocumentNode{
		ID:              "doc2",
		Name:            "other",
		Type:            core.NodeTypeFile,
		KnowledgeBaseID: "kb2",
		Order:           1,
	}
	if err := store.CreateDocument(ctx, other); err != nil {
		t.Fatalf("Failed to create document: %v", err)
	}

	docs, err := store.GetDocuments(ctx, "kb1")
	if err != nil {
		t.Fatalf("Failed to get documents: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != "doc1" {
		t.Fatalf("Expected only kb1 documents, got %+v", docs)
	}

	all, err := store.GetAllDocuments(ctx)
	if err != nil {
		t.Fatalf("Failed to get all documents: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("Expected 2 documents total, got %d", len(all))
	}

	doc.Content = "updated"
	if err := store.UpdateDocument(ctx, doc); err != nil {
		t.Fatalf("Failed to update document: %v", err)
	}
	docs, _ = store.GetDocuments(ctx, "kb1")
	if docs[0].Content != "updated" {
		t.Fatalf("Update not persisted: %+v", docs[0])
	}

	if err := store.DeleteDocuments(ctx, "doc1", "doc2"); err != nil {
		t.Fatalf("Failed to delete documents: %v", err)
	}
	all, _ = store.GetAllDocuments(ctx)
	if len(all) != 0 {
		t.Fatalf("Expected no documents after delete, got %d", len(all))
	}
}

func TestDeleteKnowledgeBaseCascades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	kb := &core.KnowledgeBase{ID: "kb1", Name: "kb"}
	if err := store.CreateKnowledgeBase(ctx, kb); err != nil {
		t.Fatalf("Failed to create knowledge base: %v", err)
	}
	doc := &core.DocumentNode{
		ID: "doc1", Name: "n", Type: core.NodeTypeFile,
		KnowledgeBaseID: "kb1", Order: 1,
	}
	if err := store.CreateDocument(ctx, doc); err != nil {
		t.Fatalf("Failed to create document: %v", err)
	}

	if err := store.DeleteKnowledgeBase(ctx, "kb1"); err != nil {
		t.Fatalf("Failed to delete knowledge base: %v", err)
	}
	all, err := store.GetAllDocuments(ctx)
	if err != nil {
		t.Fatalf("Failed to get all documents: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("Expected cascade to remove documents, got %d", len(all))
	}
}

func TestMediaRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.SaveMedia(ctx, "kb1", pngPayload)
	if err != nil {
		t.Fatalf("Failed to save media: %v", err)
	}

	data, err := store.ReadMedia(ctx, id)
	if err != nil {
		t.Fatalf("Failed to read media: %v", err)
	}
	if string(data) != "hello" {
		t.Fatalf("Unexpected media contents: %q", data)
	}

	ids, err := store.ListMedia(ctx)
	if err != nil {
		t.Fatalf("Failed to list media: %v", err)
	}
	if len(ids) != 1 || ids[0] != id {
		t.Fatalf("Unexpected media listing: %v", ids)
	}

	removed, err := store.DeleteMedia(ctx, id)
	if err != nil {
		t.Fatalf("Failed to delete media: %v", err)
	}
	if !removed {
		t.Fatal("Expected delete to report removal")
	}

	removed, err = store.DeleteMedia(ctx, id)
	if err != nil {
		t.Fatalf("Second delete failed: %v", err)
	}
	if removed {
		t.Fatal("Expected second delete to be a no-op")
	}

	data, err = store.ReadMedia(ctx, id)
	if err != nil {
		t.Fatalf("Read after delete failed: %v", err)
	}
	if data != nil {
		t.Fatalf("Expected nil data for absent media, got %q", data)
	}
}

func TestSaveMediaRejectsMalformedPayload(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.SaveMedia(ctx, "kb1", "not a data uri"); err == nil {
		t.Fatal("Expected error for malformed payload")
	}
}

func TestClosedStoreRejectsOperations(t *testing.T) {
	store, err := NewMemoryStore()
	if err != nil {
		t.Fatalf("Failed to open in-memory store: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Failed to close store: %v", err)
	}

	_, err = store.GetKnowledgeBases(context.Background())
	if err == nil {
		t.Fatal("Expected error from closed store")
	}
}
