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


package storage

import (
	"encoding/json"
	"fmt"

	"github.com/lorekeep/lorekeep/core"
)

// Snapshot is the full logical state persisted by a backend: every
// knowledge base plus every document across all of them. Both backends
// store exactly this shape, so the record-level mutation semantics live
// here rather than being reimplemented per backend.
type Snapshot struct {
	KnowledgeBases []core.KnowledgeBase `json:"knowledgeBases"`
	Documents      []core.DocumentNode  `json:"documents"`
}

// NewSnapshot returns an empty snapshot with non-nil collections.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		KnowledgeBases: []core.KnowledgeBase{},
		Documents:      []core.DocumentNode{},
	}
}

// MarshalSnapshot serializes a snapshot to indented JSON.
func MarshalSnapshot(s *Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalSnapshot deserializes a snapshot from JSON bytes.
func UnmarshalSnapshot(data []byte) (*Snapshot, error) {
	s := NewSnapshot()
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	if s.KnowledgeBases == nil {
		s.KnowledgeBases = []core.KnowledgeBase{}
	}
	if s.Documents == nil {
		s.Documents = []core.DocumentNode{}
	}
	return s, nil
}

// ReplaceKnowledgeBase swaps in the record with a matching ID.
// Returns false when no record matched.
func (s *Snapshot) ReplaceKnowledgeBase(kb *core.KnowledgeBase) bool {
	for i := range s.KnowledgeBases {
		if s.KnowledgeBases[i].ID == kb.ID {
			s.KnowledgeBases[i] = *kb
			return true
		}
	}
	return false
}

// RemoveKnowledgeBase deletes the knowledge base record and cascades
// deletion of every document it owns. Returns false when no record
// matched.
func (s *Snapshot) RemoveKnowledgeBase(id string) bool {
	found := false
	kbs := s.KnowledgeBases[:0]
	for _, kb := range s.KnowledgeBases {
		if kb.ID == id {
			found = true
			continue
		}
		kbs = append(kbs, kb)
	}
	s.KnowledgeBases = kbs

	if found {
		docs := s.Documents[:0]
		for _, doc := range s.Documents {
			if doc.KnowledgeBaseID == id {
				continue
			}
			docs = append(docs, doc)
		}
		s.Documents = docs
	}
	return found
}

// DocumentsFor returns copies of the documents owned by one knowledge base.
func (s *Snapshot) DocumentsFor(kbID string) []core.DocumentNode {
	docs := []core.DocumentNode{}
	for _, doc := range s.Documents {
		if doc.KnowledgeBaseID == kbID {
			docs = append(docs, doc)
		}
	}
	return docs
}

// ReplaceDocument swaps in the record with a matching ID.
// Returns false when no record matched.
func (s *Snapshot) ReplaceDocument(doc *core.DocumentNode) bool {
	for i := range s.Documents {
		if s.Documents[i].ID == doc.ID {
			s.Documents[i] = *doc
			return true
		}
	}
	return false
}

// RemoveDocuments deletes every document whose ID appears in ids.
// IDs without a matching record are skipped.
func (s *Snapshot) RemoveDocuments(ids ...string) {
	if len(ids) == 0 {
		return
	}
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	docs := s.Documents[:0]
	for _, doc := range s.Documents {
		if _, ok := drop[doc.ID]; ok {
			continue
		}
		docs = append(docs, doc)
	}
	s.Documents = docs
}
