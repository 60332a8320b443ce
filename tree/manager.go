package tree

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/lorekeep/lorekeep/core"
	"github.com/lorekeep/lorekeep/storage"
)

// Manager executes structural operations against a storage backend.
type Manager struct {
	store  storage.Store
	logger *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a Manager over the given store.
func NewManager(store storage.Store, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// KnowledgeBases returns every knowledge base.
func (m *Manager) KnowledgeBases(ctx context.Context) ([]core.KnowledgeBase, error) {
	return m.store.GetKnowledgeBases(ctx)
}

// CreateKnowledgeBase creates a knowledge base with a fresh ID.
func (m *Manager) CreateKnowledgeBase(ctx context.Context, name, avatar, description string) (*core.KnowledgeBase, error) {
	now := time.Now().UTC()
	kb := &core.KnowledgeBase{
		ID:          uuid.NewString(),
		Name:        name,
		Avatar:      avatar,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := core.ValidateKnowledgeBase(kb); err != nil {
		return nil, err
	}
	if err := m.store.CreateKnowledgeBase(ctx, kb); err != nil {
		return nil, err
	}
	return kb, nil
}

// UpdateKnowledgeBase replaces a knowledge base record whole, refreshing
// its UpdatedAt stamp.
func (m *Manager) UpdateKnowledgeBase(ctx context.Context, kb *core.KnowledgeBase) error {
	if err := core.ValidateKnowledgeBase(kb); err != nil {
		return err
	}
	kb.UpdatedAt = time.Now().UTC()
	return m.store.UpdateKnowledgeBase(ctx, kb)
}

// DeleteKnowledgeBase removes a knowledge base; the backend cascades
// deletion of every document it owns.
func (m *Manager) DeleteKnowledgeBase(ctx context.Context, id string) error {
	return m.store.DeleteKnowledgeBase(ctx, id)
}

// LoadDocuments returns a knowledge base's documents, first assigning
// Order values to any nodes that lack one. Only unassigned nodes are
// touched: already-ordered siblings keep their positions, so a load
// never reshuffles a stable tree. Repaired nodes are persisted.
func (m *Manager) LoadDocuments(ctx context.Context, kbID string) ([]core.DocumentNode, error) {
	docs, err := m.store.GetDocuments(ctx, kbID)
	if err != nil {
		return nil, err
	}

	groups := make(map[string][]int)
	for i := range docs {
		groups[docs[i].ParentID] = append(groups[docs[i].ParentID], i)
	}

	for _, group := range groups {
		needsInit := false
		for _, i := range group {
			if docs[i].Order == 0 {
				needsInit = true
				break
			}
		}
		if !needsInit {
			continue
		}

		// Assigned nodes first by order, then folders before files,
		// then by name.
		sort.SliceStable(group, func(x, y int) bool {
			a, b := &docs[group[x]], &docs[group[y]]
			if a.Order != 0 && b.Order != 0 {
				return a.Order < b.Order
			}
			if a.Order != 0 {
				return true
			}
			if b.Order != 0 {
				return false
			}
			if a.Type != b.Type {
				return a.Type == core.NodeTypeFolder
			}
			return a.Name < b.Name
		})

		next := 1
		for _, i := range group {
			if docs[i].Order >= next {
				next = docs[i].Order + 1
			}
		}
		for _, i := range group {
			if docs[i].Order != 0 {
				continue
			}
			docs[i].Order = next
			next++
			if err := m.store.UpdateDocument(ctx, &docs[i]); err != nil {
				return nil, fmt.Errorf("initializing order for node %s: %w", docs[i].ID, err)
			}
			m.logger.Debug("initialized node order", "node", docs[i].ID, "order", docs[i].Order)
		}
	}

	return docs, nil
}

// CreateNode creates a node at the end of its sibling group: its Order
// is one past the highest existing sibling order, or 1 in an empty
// group. Files start with empty content.
func (m *Manager) CreateNode(ctx context.Context, name string, nodeType core.NodeType, parentID, kbID string) (*core.DocumentNode, error) {
	docs, err := m.store.GetDocuments(ctx, kbID)
	if err != nil {
		return nil, err
	}

	maxOrder := 0
	for i := range docs {
		if docs[i].ParentID == parentID && docs[i].Order > maxOrder {
			maxOrder = docs[i].Order
		}
	}

	now := time.Now().UTC()
	node := &core.DocumentNode{
		ID:              uuid.NewString(),
		Name:            name,
		Type:            nodeType,
		ParentID:        parentID,
		KnowledgeBaseID: kbID,
		Order:           maxOrder + 1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := core.ValidateDocumentNode(node); err != nil {
		return nil, err
	}
	if err := m.store.CreateDocument(ctx, node); err != nil {
		return nil, err
	}
	return node, nil
}

// UpdateNode replaces a node record whole, refreshing its UpdatedAt
// stamp. Structural changes go through Move and Reorder.
func (m *Manager) UpdateNode(ctx context.Context, node *core.DocumentNode) error {
	if err := core.ValidateDocumentNode(node); err != nil {
		return err
	}
	node.UpdatedAt = time.Now().UTC()
	return m.store.UpdateDocument(ctx, node)
}

// DeleteNode removes a node and its entire subtree in one bulk
// operation. Surviving siblings keep their Order values: the gap left
// behind is tolerated until the next move or reorder touches the group.
func (m *Manager) DeleteNode(ctx context.Context, kbID, id string) error {
	docs, err := m.store.GetDocuments(ctx, kbID)
	if err != nil {
		return err
	}

	if findNode(docs, id) < 0 {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}

	doomed := collectSubtree(docs, id)
	ids := make([]string, 0, len(doomed))
	for docID := range doomed {
		ids = append(ids, docID)
	}

	if err := m.store.DeleteDocuments(ctx, ids...); err != nil {
		return err
	}
	m.logger.Debug("deleted subtree", "root", id, "nodes", len(ids))
	return nil
}

// Move reparents a node and positions it at newOrder within the new
// sibling group, then restores dense ordering in both affected groups.
// The moved node wins ties at its target slot. Moving a node under
// itself or any of its own descendants is rejected with ErrCycle.
func (m *Manager) Move(ctx context.Context, kbID, nodeID, newParentID string, newOrder int) error {
	docs, err := m.store.GetDocuments(ctx, kbID)
	if err != nil {
		return err
	}

	moved := findNode(docs, nodeID)
	if moved < 0 {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, nodeID)
	}

	if newParentID != "" {
		if _, inSubtree := collectSubtree(docs, nodeID)[newParentID]; inSubtree {
			return fmt.Errorf("%w: %s under %s", ErrCycle, nodeID, newParentID)
		}
	}

	now := time.Now().UTC()
	oldParentID := docs[moved].ParentID

	docs[moved].ParentID = newParentID
	docs[moved].Order = newOrder
	docs[moved].UpdatedAt = now
	if err := m.store.UpdateDocument(ctx, &docs[moved]); err != nil {
		return err
	}

	// The old group lost a member; close the ranks.
	if oldParentID != newParentID {
		old := siblingIndices(docs, oldParentID)
		sort.SliceStable(old, func(x, y int) bool {
			return docs[old[x]].Order < docs[old[y]].Order
		})
		if err := m.renumber(ctx, docs, old, now); err != nil {
			return err
		}
	}

	// The new group absorbs the moved node at its target slot.
	group := siblingIndices(docs, newParentID)
	sort.SliceStable(group, func(x, y int) bool {
		a, b := &docs[group[x]], &docs[group[y]]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.ID == nodeID && b.ID != nodeID
	})
	return m.renumber(ctx, docs, group, now)
}

// Reorder assigns dense orders to a sibling group following the given
// ID sequence. Siblings omitted from the list are appended after the
// listed ones in their prior relative order; unknown IDs are skipped.
func (m *Manager) Reorder(ctx context.Context, kbID, parentID string, orderedIDs []string) error {
	docs, err := m.store.GetDocuments(ctx, kbID)
	if err != nil {
		return err
	}

	group := siblingIndices(docs, parentID)
	sort.SliceStable(group, func(x, y int) bool {
		return docs[group[x]].Order < docs[group[y]].Order
	})

	byID := make(map[string]int, len(group))
	for _, i := range group {
		byID[docs[i].ID] = i
	}

	sequence := make([]int, 0, len(group))
	listed := make(map[string]struct{}, len(orderedIDs))
	for _, id := range orderedIDs {
		i, ok := byID[id]
		if !ok {
			m.logger.Warn("reorder references unknown node", "node", id, "parent", parentID)
			continue
		}
		if _, dup := listed[id]; dup {
			continue
		}
		listed[id] = struct{}{}
		sequence = append(sequence, i)
	}
	for _, i := range group {
		if _, ok := listed[docs[i].ID]; !ok {
			sequence = append(sequence, i)
		}
	}

	return m.renumber(ctx, docs, sequence, time.Now().UTC())
}

// renumber assigns 1..N to the given nodes in sequence order,
// persisting only the ones whose Order actually changed.
func (m *Manager) renumber(ctx context.Context, docs []core.DocumentNode, sequence []int, now time.Time) error {
	for pos, i := range sequence {
		want := pos + 1
		if docs[i].Order == want {
			continue
		}
		docs[i].Order = want
		docs[i].UpdatedAt = now
		if err := m.store.UpdateDocument(ctx, &docs[i]); err != nil {
			return err
		}
	}
	return nil
}

func findNode(docs []core.DocumentNode, id string) int {
	for i := range docs {
		if docs[i].ID == id {
			return i
		}
	}
	return -1
}

func siblingIndices(docs []core.DocumentNode, parentID string) []int {
	var group []int
	for i := range docs {
		if docs[i].ParentID == parentID {
			group = append(group, i)
		}
	}
	return group
}

// collectSubtree returns the IDs of a node and all its transitive
// children: one pass builds the parent index, a second walks it.
func collectSubtree(docs []core.DocumentNode, rootID string) map[string]struct{} {
	children := make(map[string][]string, len(docs))
	for i := range docs {
		if docs[i].ParentID != "" {
			children[docs[i].ParentID] = append(children[docs[i].ParentID], docs[i].ID)
		}
	}

	collected := map[string]struct{}{rootID: {}}
	queue := []string{rootID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, child := range children[id] {
			if _, ok := collected[child]; ok {
				continue
			}
			collected[child] = struct{}{}
			queue = append(queue, child)
		}
	}
	return collected
}
