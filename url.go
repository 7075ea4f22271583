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
	"fmt"
	"net/url"

	whatwgUrl "github.com/nlnwa/whatwg-url/url"
)

var urlParser = whatwgUrl.NewParser(whatwgUrl.WithPercentEncodeSinglePercentSign())

// ParseURL parses rawURL the way a browser address bar would and returns
// the normalized form. Fragments are dropped: two URLs that differ only
// in fragment name the same page and must dedupe to one frontier entry.
func ParseURL(rawURL string) (*url.URL, error) {
	parsed, err := urlParser.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	return url.Parse(parsed.Href(true))
}

// ResolveRef resolves an href attribute against the page it appeared on,
// applying the same normalization as ParseURL. href may be absolute,
// protocol-relative, host-relative, or document-relative.
func ResolveRef(base *url.URL, href string) (*url.URL, error) {
	resolved, err := urlParser.ParseRef(base.String(), href)
	if err != nil {
		return nil, err
	}
	return url.Parse(resolved.Href(true))
}

// ParseSeed validates and normalizes the seed URL a mirror starts from.
// Anything that is not an absolute http or https URL with a host wraps
// ErrInvalidSeed.
func ParseSeed(rawURL string) (*url.URL, error) {
	if rawURL == "" {
		return nil, fmt.Errorf("%w: URL is empty", ErrInvalidSeed)
	}
	u, err := ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSeed, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidSeed, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: missing host", ErrInvalidSeed)
	}
	return u, nil
}
