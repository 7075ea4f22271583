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

package storage

import (
	"fmt"
	"sync"
	"testing"
)

func newTestStorage(t *testing.T) *InMemoryStorage {
	t.Helper()
	s := &InMemoryStorage{}
	if err := s.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return s
}

func TestInMemoryStorageContentHash(t *testing.T) {
	s := newTestStorage(t)

	// Unknown URL yields an empty hash, not an error.
	hash, err := s.GetContentHash("http://example.com/missing")
	if err != nil {
		t.Fatalf("GetContentHash failed: %v", err)
	}
	if hash != "" {
		t.Errorf("Expected empty hash for unknown URL, got %q", hash)
	}

	if err := s.SetContentHash("http://example.com/a", "deadbeef"); err != nil {
		t.Fatalf("SetContentHash failed: %v", err)
	}

	hash, err = s.GetContentHash("http://example.com/a")
	if err != nil {
		t.Fatalf("GetContentHash failed: %v", err)
	}
	if got, want := hash, "deadbeef"; got != want {
		t.Errorf("GetContentHash = %q, want %q", got, want)
	}

	// A second write for the same URL overwrites the hash.
	if err := s.SetContentHash("http://example.com/a", "cafebabe"); err != nil {
		t.Fatalf("SetContentHash failed: %v", err)
	}
	hash, _ = s.GetContentHash("http://example.com/a")
	if got, want := hash, "cafebabe"; got != want {
		t.Errorf("GetContentHash after overwrite = %q, want %q", got, want)
	}
}

func TestInMemoryStorageVisitedContent(t *testing.T) {
	s := newTestStorage(t)

	visited, err := s.IsContentVisited("deadbeef")
	if err != nil {
		t.Fatalf("IsContentVisited failed: %v", err)
	}
	if visited {
		t.Error("Expected unseen hash to not be visited")
	}

	if err := s.VisitedContent("deadbeef"); err != nil {
		t.Fatalf("VisitedContent failed: %v", err)
	}

	visited, err = s.IsContentVisited("deadbeef")
	if err != nil {
		t.Fatalf("IsContentVisited failed: %v", err)
	}
	if !visited {
		t.Error("Expected marked hash to be visited")
	}

	// Other hashes stay unseen.
	visited, _ = s.IsContentVisited("cafebabe")
	if visited {
		t.Error("Expected unrelated hash to not be visited")
	}
}

func TestInMemoryStorageClear(t *testing.T) {
	s := newTestStorage(t)

	if err := s.SetContentHash("http://example.com/a", "deadbeef"); err != nil {
		t.Fatalf("SetContentHash failed: %v", err)
	}
	if err := s.VisitedContent("deadbeef"); err != nil {
		t.Fatalf("VisitedContent failed: %v", err)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	hash, _ := s.GetContentHash("http://example.com/a")
	if hash != "" {
		t.Errorf("Expected empty hash after Clear, got %q", hash)
	}
	visited, _ := s.IsContentVisited("deadbeef")
	if visited {
		t.Error("Expected hash to not be visited after Clear")
	}
}

func TestInMemoryStorageInitIdempotent(t *testing.T) {
	s := newTestStorage(t)

	if err := s.SetContentHash("http://example.com/a", "deadbeef"); err != nil {
		t.Fatalf("SetContentHash failed: %v", err)
	}

	// A second Init must not wipe existing state.
	if err := s.Init(); err != nil {
		t.Fatalf("second Init failed: %v", err)
	}

	hash, _ := s.GetContentHash("http://example.com/a")
	if got, want := hash, "deadbeef"; got != want {
		t.Errorf("GetContentHash after second Init = %q, want %q", got, want)
	}
}

func TestInMemoryStorageConcurrentAccess(t *testing.T) {
	s := newTestStorage(t)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			url := fmt.Sprintf("http://example.com/page-%d", n)
			hash := fmt.Sprintf("hash-%d", n)
			if err := s.SetContentHash(url, hash); err != nil {
				t.Errorf("SetContentHash failed: %v", err)
			}
			if err := s.VisitedContent(hash); err != nil {
				t.Errorf("VisitedContent failed: %v", err)
			}
			if _, err := s.GetContentHash(url); err != nil {
				t.Errorf("GetContentHash failed: %v", err)
			}
			if _, err := s.IsContentVisited(hash); err != nil {
				t.Errorf("IsContentVisited failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < 16; i++ {
		hash, _ := s.GetContentHash(fmt.Sprintf("http://example.com/page-%d", i))
		if got, want := hash, fmt.Sprintf("hash-%d", i); got != want {
			t.Errorf("GetContentHash(page-%d) = %q, want %q", i, got, want)
		}
		visited, _ := s.IsContentVisited(fmt.Sprintf("hash-%d", i))
		if !visited {
			t.Errorf("Expected hash-%d to be visited", i)
		}
	}
}
