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
	"bytes"
	"fmt"
	"regexp"

	"github.com/PuerkitoBio/goquery"
	"github.com/cespare/xxhash/v2"
)

// ContentHashConfig controls how page bytes are normalized before
// hashing for duplicate detection.
type ContentHashConfig struct {
	// ExcludeTags lists elements removed before hashing. Defaults to
	// script, style and noscript, whose contents churn between fetches
	// without changing what the page shows.
	ExcludeTags []string

	// StripComments removes HTML comments before hashing.
	StripComments bool

	// CollapseWhitespace folds whitespace runs into single spaces.
	CollapseWhitespace bool
}

// NewDefaultContentHashConfig returns the normalization applied when a
// Mirror runs with duplicate detection enabled.
func NewDefaultContentHashConfig() *ContentHashConfig {
	return &ContentHashConfig{
		ExcludeTags:        []string{"script", "style", "noscript"},
		StripComments:      true,
		CollapseWhitespace: true,
	}
}

var (
	commentPattern    = regexp.MustCompile(`<!--[\s\S]*?-->`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// NormalizeContent normalizes HTML content based on the provided
// configuration to make content hashing reliable across fetches. A nil
// config applies the defaults.
func NormalizeContent(html []byte, config *ContentHashConfig) ([]byte, error) {
	if config == nil {
		config = NewDefaultContentHashConfig()
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	for _, tag := range config.ExcludeTags {
		doc.Find(tag).Remove()
	}
	content, err := doc.Html()
	if err != nil {
		return nil, fmt.Errorf("failed to render HTML: %w", err)
	}

	contentBytes := []byte(content)
	if config.StripComments {
		contentBytes = commentPattern.ReplaceAll(contentBytes, []byte(""))
	}
	if config.CollapseWhitespace {
		contentBytes = whitespacePattern.ReplaceAll(bytes.TrimSpace(contentBytes), []byte(" "))
	}
	return contentBytes, nil
}

// ComputeContentHash computes an xxHash digest of normalized content.
func ComputeContentHash(content []byte) (string, error) {
	if len(content) == 0 {
		return "", fmt.Errorf("content is empty")
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(content)), nil
}

// ContentHash is a convenience function that normalizes content and
// computes its hash.
func ContentHash(html []byte, config *ContentHashConfig) (string, error) {
	normalized, err := NormalizeContent(html, config)
	if err != nil {
		return "", fmt.Errorf("failed to normalize content: %w", err)
	}
	hash, err := ComputeContentHash(normalized)
	if err != nil {
		return "", fmt.Errorf("failed to compute hash: %w", err)
	}
	return hash, nil
}
