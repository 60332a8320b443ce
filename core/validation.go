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


package core

import "fmt"

// ValidateKnowledgeBase validates a KnowledgeBase according to domain rules.
//
// Validation rules:
//   - ID must not be empty
//   - Name must not be empty
//
// NOT validated:
//   - Avatar and Description (free-form, may be empty)
//   - Timestamps (stamped by the tree manager)
func ValidateKnowledgeBase(kb *KnowledgeBase) error {
	if kb == nil {
		return fmt.Errorf("%w: knowledge base is nil", ErrInvalidKnowledgeBase)
	}

	if kb.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidKnowledgeBase, ErrEmptyID)
	}

	if kb.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidKnowledgeBase, ErrEmptyName)
	}

	return nil
}

// ValidateDocumentNode validates a DocumentNode according to domain rules.
//
// Validation rules:
//   - ID, Name and KnowledgeBaseID must not be empty
//   - Type must be file or folder
//   - Folder nodes must not carry content
//   - Order must not be negative (0 means unassigned)
//
// NOT validated (enforced by the tree manager against the full tree):
//   - ParentID referring to an existing node in the same knowledge base
//   - Order density within the sibling group
func ValidateDocumentNode(node *DocumentNode) error {
	if node == nil {
		return fmt.Errorf("%w: node is nil", ErrInvalidNode)
	}

	if node.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidNode, ErrEmptyID)
	}

	if node.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidNode, ErrEmptyName)
	}

	if node.KnowledgeBaseID == "" {
		return fmt.Errorf("%w: %w: knowledge base id", ErrInvalidNode, ErrEmptyID)
	}

	if err := ValidateNodeType(node.Type); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidNode, err)
	}

	if node.Type == NodeTypeFolder && node.Content != "" {
		return fmt.Errorf("%w: %w", ErrInvalidNode, ErrFolderContent)
	}

	if node.Order < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidNode, ErrInvalidOrder)
	}

	return nil
}

// ValidateNodeType validates that a NodeType has a recognized value.
func ValidateNodeType(t NodeType) error {
	switch t {
	case NodeTypeFile, NodeTypeFolder:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidNodeType, string(t))
	}
}
