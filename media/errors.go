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


package media

import "errors"

var (
	// ErrMalformedPayload indicates input that is not a well-formed
	// data:{mime};base64,{payload} string.
	ErrMalformedPayload = errors.New("malformed media payload")

	// ErrUnsupportedMediaType indicates a content-type outside the
	// allowed upload categories.
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	// ErrMediaNotFound indicates a read of an identifier with no stored
	// bytes behind it.
	ErrMediaNotFound = errors.New("media not found")

	// ErrProviderNotFound indicates a reference to an unregistered
	// provider name.
	ErrProviderNotFound = errors.New("media provider not found")

	// ErrProviderUnavailable indicates a provider that failed its
	// readiness check.
	ErrProviderUnavailable = errors.New("media provider unavailable")
)
