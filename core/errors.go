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

import "errors"

// Domain validation errors
var (
	// ErrInvalidKnowledgeBase indicates a KnowledgeBase failed validation.
	ErrInvalidKnowledgeBase = errors.New("invalid knowledge base")

	// ErrInvalidNode indicates a DocumentNode failed validation.
	ErrInvalidNode = errors.New("invalid document node")

	// ErrEmptyID indicates a required ID field is empty.
	ErrEmptyID = errors.New("id cannot be empty")

	// ErrEmptyName indicates the Name field is empty.
	ErrEmptyName = errors.New("name cannot be empty")

	// ErrInvalidNodeType indicates an unrecognized NodeType value.
	ErrInvalidNodeType = errors.New("invalid node type")

	// ErrFolderContent indicates a folder node carries content.
	ErrFolderContent = errors.New("folder nodes cannot carry content")

	// ErrInvalidOrder indicates a negative Order value.
	ErrInvalidOrder = errors.New("order cannot be negative")
)
