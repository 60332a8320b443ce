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


// Package media handles binary media blobs embedded in documents.
//
// It provides three layers:
//
//   - The payload codec: strict parsing and encoding of the
//     data:{mime};base64,{payload} wire form, a single bidirectional
//     MIME/extension table used both on upload (MIME to extension) and
//     on read (extension back to MIME), and identifier generation.
//   - The Provider interface plus the local provider, which persists
//     blobs through a storage.Store.
//   - The Manager, a registry routing operations to a named or default
//     provider and supporting cross-provider migration.
//
// Document content refers to stored blobs through two URI-like protocol
// prefixes: the current local-media:// form and the legacy
// local-image:// form. Both resolve to the same identifier namespace;
// new content is always written with the current form. Every call site
// that parses a reference goes through StripRef/CanonicalRef so the two
// generations cannot diverge.
package media
