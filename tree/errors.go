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


package tree

import "errors"

var (
	// ErrNodeNotFound indicates an operation on a node ID with no record
	// in the knowledge base.
	ErrNodeNotFound = errors.New("document node not found")

	// ErrCycle indicates an attempt to move a node under itself or one
	// of its own descendants.
	ErrCycle = errors.New("cannot move a node into its own subtree")
)
