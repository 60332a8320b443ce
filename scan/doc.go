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


// Package scan finds media references embedded in document content and
// computes which stored blobs are no longer referenced anywhere.
//
// Reference extraction is a pure function over a single document's text:
// the pattern set is compiled once and matched with stateless calls, so
// no match-position state can leak between documents. The Scanner fans
// per-document extraction out over a worker pool; the Collector combines
// a full document scan with a full media enumeration to produce
// garbage-collection candidates and to delete them.
package scan
