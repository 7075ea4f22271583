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
	"errors"
	"io"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
)

// Page holds what link extraction found on one mirrored page. Links are
// the in-scope targets in document order; duplicates are kept here and
// collapsed by the Frontier.
type Page struct {
	Title string
	Links []string
}

// LinkExtractor parses stored page bytes and resolves every anchor href
// into an absolute URL, keeping the ones inside the crawl scope.
type LinkExtractor struct {
	scope    *Scope
	recorder Recorder

	// DetectCharset enables charset sniffing for bodies that are not
	// valid UTF-8. When disabled such bodies count as parse errors.
	DetectCharset bool
}

// NewLinkExtractor returns an extractor bound to one crawl scope.
func NewLinkExtractor(scope *Scope, recorder Recorder) *LinkExtractor {
	return &LinkExtractor{
		scope:    scope,
		recorder: recorder,
	}
}

// Extract parses one page and returns its title and in-scope links. A
// nil result means the bytes were not usable HTML; the failure has been
// recorded and the page contributes nothing further to the crawl.
//
// Hrefs are resolved against the page URL, or against the document's
// <base href> when one is present. An href that fails to resolve is
// recorded under its raw attribute value and skipped.
func (e *LinkExtractor) Extract(pageURL *url.URL, body []byte) *Page {
	text, err := e.decode(body)
	if err != nil {
		e.recorder.RecordError(ErrorParse, pageURL.String(), err)
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(text))
	if err != nil {
		e.recorder.RecordError(ErrorParse, pageURL.String(), err)
		return nil
	}

	base := pageURL
	if href, ok := doc.Find("base[href]").Attr("href"); ok {
		if baseURL, err := ResolveRef(pageURL, href); err == nil {
			base = baseURL
		}
	}

	page := &Page{
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
	}
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		resolved, err := ResolveRef(base, href)
		if err != nil {
			e.recorder.RecordError(ErrorResolve, href, err)
			return
		}
		if !e.scope.Contains(resolved) {
			return
		}
		page.Links = append(page.Links, resolved.String())
	})
	return page
}

// decode returns body as UTF-8 text.
func (e *LinkExtractor) decode(body []byte) ([]byte, error) {
	if utf8.Valid(body) {
		return body, nil
	}
	if !e.DetectCharset {
		return nil, errors.New("body is not valid UTF-8")
	}
	result, err := chardet.NewTextDetector().DetectBest(body)
	if err != nil {
		return nil, err
	}
	reader, err := charset.NewReaderLabel(strings.ToLower(result.Charset), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	return io.ReadAll(reader)
}
