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


// Package storage provides the storage abstraction layer for lorekeep.
//
// This package defines the Store interface that decouples persistence from
// business logic. Two interchangeable backends implement it: a flat-file
// backend that rewrites a single JSON document on every mutation
// (storage/file) and an embedded BadgerDB backend that keeps the same
// logical shape under a constant singleton key (storage/badger). The
// contract is identical either way; callers must not be able to tell the
// backends apart.
//
// # Consistency model
//
// Every structural mutation is a full read-modify-write cycle against the
// backend's current snapshot. There is no optimistic-concurrency token and
// no locking: concurrent mutations issued without external serialization
// can race and overwrite each other. This is an accepted limitation for a
// single-user, single-process client and is deliberately not papered over
// with locks that would change observable behavior.
//
// Multi-write operations such as the tree manager's renumbering passes are
// not atomic; a crash mid-pass can leave a sibling group with a
// temporarily non-dense order sequence, which self-heals on the next
// operation touching that group.
package storage
