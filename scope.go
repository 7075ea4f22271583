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
	"net/url"
	"strings"
)

// Scope decides which discovered URLs belong to the mirrored site.
// A URL is in scope when its scheme and host equal the seed's and its
// path sits at or below the seed's base path. The base path is the seed
// path truncated after the last "/": a seed of https://a.com/x/ keeps
// everything under /x/, while https://a.com/x scopes the whole host.
type Scope struct {
	scheme   string
	host     string
	basePath string
}

// NewScope derives the crawl boundary from a normalized seed URL.
func NewScope(seed *url.URL) *Scope {
	basePath := seed.Path
	if i := strings.LastIndex(basePath, "/"); i >= 0 {
		basePath = basePath[:i+1]
	} else {
		basePath = "/"
	}
	return &Scope{
		scheme:   seed.Scheme,
		host:     seed.Host,
		basePath: basePath,
	}
}

// Contains reports whether u falls inside the boundary. Subdomains of
// the seed host are out of scope; host comparison is exact.
func (s *Scope) Contains(u *url.URL) bool {
	if u.Scheme != s.scheme || u.Host != s.host {
		return false
	}
	path := u.Path
	if path == "" {
		path = "/"
	}
	return strings.HasPrefix(path, s.basePath)
}
