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

// Package sitemirror mirrors a single website onto the local filesystem.
//
// A Mirror starts from one seed URL, visits every in-scope page reachable
// from it in breadth-first order, stores each page's bytes under
// <storageRoot>/local-copies/<host>/..., and finishes by writing a JSON
// scan report next to the mirrored tree. Files stored by an earlier run
// act as a cache: mirroring the same seed again serves those pages from
// disk and performs no network fetches for them, leaving the tree
// byte-identical.
//
// The crawl is strictly sequential. One URL is fetched (or loaded),
// stored, and parsed at a time; the Frontier, the scan record, and the
// content store are owned by a single Mirror and mutated only from its
// Run loop.
package sitemirror

import "errors"

var (
	// ErrInvalidSeed is returned by New when the seed URL is empty,
	// unparsable, has no host, or uses a scheme other than http or
	// https. A bad seed is the only fatal condition: the run aborts
	// before any fetch and before any report is written.
	ErrInvalidSeed = errors.New("invalid seed URL")
	// ErrAlreadyStarted is returned by Run when the Mirror has already
	// left the NotStarted state. A Mirror drives exactly one run.
	ErrAlreadyStarted = errors.New("mirror already started")
)
