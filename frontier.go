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

import "slices"

// Frontier is the ordered, deduplicated queue of URLs to visit. Entries
// are kept after being dequeued so the full discovery order survives for
// the final report; Next advances a cursor instead of removing elements.
//
// A Frontier is owned by a single Mirror and driven from its sequential
// run loop, so it does no locking.
type Frontier struct {
	seen    map[string]struct{}
	entries []string
	cursor  int
}

// NewFrontier returns an empty frontier.
func NewFrontier() *Frontier {
	return &Frontier{seen: map[string]struct{}{}}
}

// Enqueue appends a normalized URL unless it has been enqueued before.
// It returns true when the URL was new.
func (f *Frontier) Enqueue(url string) bool {
	if _, ok := f.seen[url]; ok {
		return false
	}
	f.seen[url] = struct{}{}
	f.entries = append(f.entries, url)
	return true
}

// Next returns the next URL in first-seen order. ok is false once every
// entry has been handed out; the frontier can still grow afterwards, in
// which case Next resumes from the new entries.
func (f *Frontier) Next() (url string, ok bool) {
	if f.cursor >= len(f.entries) {
		return "", false
	}
	url = f.entries[f.cursor]
	f.cursor++
	return url, true
}

// URLs returns every URL ever enqueued, in discovery order.
func (f *Frontier) URLs() []string {
	return slices.Clone(f.entries)
}

// Len reports how many distinct URLs have been enqueued.
func (f *Frontier) Len() int {
	return len(f.entries)
}

// Pending reports how many enqueued URLs Next has not yet returned.
func (f *Frontier) Pending() int {
	return len(f.entries) - f.cursor
}
