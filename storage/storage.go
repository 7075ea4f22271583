// Copyright 2025 Agentic World, LLC (Sherin Thomas)
//
// This file includes modifications to code originally developed by Adam Tauber,
// licensed under the Apache License, Version 2.0.
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

// Package storage holds a mirror run's duplicate-content session state.
package storage

import "sync"

// Storage is an interface which handles a mirror run's content-hash
// data for duplicate detection. The default Storage of the Mirror is
// the InMemoryStorage; a persistent backend can be swapped in for runs
// that should recognize duplicates across processes.
//
// NOTE: URL visit tracking lives in the Frontier, not here. Storage
// handles only content identity:
//   - Content hashes per page URL
//   - The set of content hashes already seen in this run
type Storage interface {
	// Init initializes the storage
	Init() error

	// SetContentHash stores a content hash for a given URL
	SetContentHash(url string, contentHash string) error
	// GetContentHash retrieves the stored content hash for a given URL
	GetContentHash(url string) (string, error)
	// IsContentVisited returns true if content with the given hash has been seen
	IsContentVisited(contentHash string) (bool, error)
	// VisitedContent marks content with the given hash as seen
	VisitedContent(contentHash string) error
}

// InMemoryStorage is the default storage backend of sitemirror.
// InMemoryStorage keeps content hashes in memory without persisting
// data on the disk.
type InMemoryStorage struct {
	contentHashes  map[string]string // url -> content hash
	visitedContent map[string]bool   // content hash -> seen
	lock           *sync.RWMutex
}

// Init initializes InMemoryStorage
func (s *InMemoryStorage) Init() error {
	if s.contentHashes == nil {
		s.contentHashes = make(map[string]string)
	}
	if s.visitedContent == nil {
		s.visitedContent = make(map[string]bool)
	}
	if s.lock == nil {
		s.lock = &sync.RWMutex{}
	}
	return nil
}

// SetContentHash implements Storage.SetContentHash()
func (s *InMemoryStorage) SetContentHash(url string, contentHash string) error {
	s.lock.Lock()
	s.contentHashes[url] = contentHash
	s.lock.Unlock()
	return nil
}

// GetContentHash implements Storage.GetContentHash()
func (s *InMemoryStorage) GetContentHash(url string) (string, error) {
	s.lock.RLock()
	hash := s.contentHashes[url]
	s.lock.RUnlock()
	return hash, nil
}

// IsContentVisited implements Storage.IsContentVisited()
func (s *InMemoryStorage) IsContentVisited(contentHash string) (bool, error) {
	s.lock.RLock()
	visited := s.visitedContent[contentHash]
	s.lock.RUnlock()
	return visited, nil
}

// VisitedContent implements Storage.VisitedContent()
func (s *InMemoryStorage) VisitedContent(contentHash string) error {
	s.lock.Lock()
	s.visitedContent[contentHash] = true
	s.lock.Unlock()
	return nil
}

// Clear wipes the session state so the same instance can back a fresh
// run.
func (s *InMemoryStorage) Clear() error {
	s.lock.Lock()
	s.contentHashes = make(map[string]string)
	s.visitedContent = make(map[string]bool)
	s.lock.Unlock()
	return nil
}
