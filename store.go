// Copyright 2025 Agentic World, LLC (Sherin Thomas)
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

package sitemirror

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// ContentStore answers "give me the bytes for this URL" with a local
// artifact when one exists and a network fetch otherwise. Newly fetched
// bytes are persisted so the next run finds them on disk; an existing
// artifact is authoritative and never overwritten. Every failure is
// reported to the Recorder rather than returned: a URL that cannot be
// served simply yields nil.
type ContentStore struct {
	backend  *httpBackend
	recorder Recorder

	// UserAgent is sent on every request.
	UserAgent string

	// MaxBodySize caps how many response bytes are read. Zero means
	// unlimited.
	MaxBodySize int

	// TraceHTTP enables per-request connection timing collection.
	TraceHTTP bool
}

// NewContentStore returns a store whose fetches time out after the
// given duration.
func NewContentStore(timeout time.Duration, recorder Recorder) *ContentStore {
	backend := &httpBackend{}
	backend.Init(timeout)
	return &ContentStore{
		backend:  backend,
		recorder: recorder,
	}
}

// WithTransport replaces the underlying RoundTripper. Tests use it to
// serve canned responses without a network.
func (s *ContentStore) WithTransport(transport http.RoundTripper) {
	s.backend.Client.Transport = transport
}

// Get returns the bytes for pageURL, reading the artifact at filePath
// when it exists and fetching otherwise. cached reports whether the
// bytes came from disk.
//
// A nil body means a recorded failure: the fetch failed or the new
// artifact could not be written. An empty non-nil body means the server
// returned no content, which is not an error. Callers skip extraction
// in both cases.
func (s *ContentStore) Get(ctx context.Context, pageURL, filePath string) (body []byte, cached bool, trace *HTTPTrace) {
	body, err := os.ReadFile(filePath)
	if err == nil {
		return body, true, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		// The artifact exists but cannot be read. Record it and fall
		// through to a fresh fetch.
		s.recorder.RecordError(ErrorStorage, filePath, err)
	}

	if s.TraceHTTP {
		trace = &HTTPTrace{}
	}
	body, err = s.backend.Get(ctx, pageURL, s.UserAgent, s.MaxBodySize, trace)
	if err != nil {
		s.recorder.RecordError(ErrorFetch, pageURL, err)
		return nil, false, trace
	}
	if len(body) == 0 {
		return []byte{}, false, trace
	}
	if !s.persist(filePath, body) {
		return nil, false, trace
	}
	return body, false, trace
}

// persist writes a freshly fetched artifact unless one appeared at the
// path already. The bytes land under a temporary name first so a crash
// mid-write never leaves a truncated artifact that a later run would
// trust as cached content.
func (s *ContentStore) persist(filePath string, body []byte) bool {
	if _, err := os.Stat(filePath); err == nil {
		return true
	}
	ensureDir(filepath.Dir(filePath))
	tmp := filePath + "~"
	if err := os.WriteFile(tmp, body, 0644); err != nil {
		s.recorder.RecordError(ErrorStorage, filePath, err)
		return false
	}
	if err := os.Rename(tmp, filePath); err != nil {
		s.recorder.RecordError(ErrorStorage, filePath, err)
		return false
	}
	return true
}
