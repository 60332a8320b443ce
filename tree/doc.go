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


// Package tree owns the hierarchical document structure of a knowledge
// base: node creation, update, recursive deletion, move and reorder.
//
// Within each sibling group (nodes sharing a parent) the Order field
// forms a dense 1-based sequence. Every structural mutation actively
// restores that invariant for the groups it touches, with one deliberate
// exception: deletion leaves gaps in the surviving siblings' sequence,
// tolerated until the next move or reorder touches the group.
//
// Mutations are read-modify-write cycles over the backend snapshot and
// the renumbering passes issue one write per changed node; see the
// storage package for the consistency model.
package tree
