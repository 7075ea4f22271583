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
	"reflect"
	"strings"
	"testing"
)

func newTestExtractor(t *testing.T, seedURL string) (*LinkExtractor, *testRecorder) {
	t.Helper()
	seed, err := ParseSeed(seedURL)
	if err != nil {
		t.Fatalf("parse seed: %v", err)
	}
	rec := &testRecorder{}
	return NewLinkExtractor(NewScope(seed), rec), rec
}

func mustParse(t *testing.T, rawURL string) *url.URL {
	t.Helper()
	u, err := ParseURL(rawURL)
	if err != nil {
		t.Fatalf("parse %q: %v", rawURL, err)
	}
	return u
}

func TestExtractLinks(t *testing.T) {
	extractor, rec := newTestExtractor(t, "http://example.com/")

	body := `<!DOCTYPE html>
<html>
<head><title>Documentation</title></head>
<body>
<a href="guide">Guide</a>
<a href="/about">About</a>
<a href="http://example.com/docs/api">API</a>
<a href="#top">Top</a>
<a href="https://other.com/x">Other</a>
<a href="mailto:dev@example.com">Mail</a>
</body>
</html>`

	page := extractor.Extract(mustParse(t, "http://example.com/docs/"), []byte(body))
	if page == nil {
		t.Fatal("Extract returned nil for valid HTML")
	}
	if got, want := page.Title, "Documentation"; got != want {
		t.Errorf("title = %q, want %q", got, want)
	}
	// In-scope targets in document order. The fragment link points back
	// at the page itself; the frontier collapses it later.
	want := []string{
		"http://example.com/docs/guide",
		"http://example.com/about",
		"http://example.com/docs/api",
		"http://example.com/docs/",
	}
	if !reflect.DeepEqual(page.Links, want) {
		t.Errorf("links = %v, want %v", page.Links, want)
	}
	if len(rec.recorded) != 0 {
		t.Errorf("recorded errors = %v, want none", rec.recorded)
	}
}

func TestExtractTitle(t *testing.T) {
	extractor, _ := newTestExtractor(t, "http://example.com/")
	pageURL := mustParse(t, "http://example.com/")

	page := extractor.Extract(pageURL, []byte("<html><head><title>  Hello  World </title></head></html>"))
	if got, want := page.Title, "Hello  World"; got != want {
		t.Errorf("title = %q, want %q", got, want)
	}

	page = extractor.Extract(pageURL, []byte("<html><head><title>First</title><title>Second</title></head></html>"))
	if got, want := page.Title, "First"; got != want {
		t.Errorf("title = %q, want the first one, got %q", "First", got)
	}

	page = extractor.Extract(pageURL, []byte("<html><body><p>untitled</p></body></html>"))
	if got, want := page.Title, ""; got != want {
		t.Errorf("title = %q, want empty", got)
	}
}

func TestExtractBaseHref(t *testing.T) {
	extractor, rec := newTestExtractor(t, "http://example.com/")

	// An external <base href> pushes every relative link out of scope.
	body := `<html>
<head><base href="http://other.com/dir/"></head>
<body><a href="x">x</a></body>
</html>`

	page := extractor.Extract(mustParse(t, "http://example.com/page"), []byte(body))
	if page == nil {
		t.Fatal("Extract returned nil for valid HTML")
	}
	if len(page.Links) != 0 {
		t.Errorf("links = %v, want none", page.Links)
	}
	if len(rec.recorded) != 0 {
		t.Errorf("recorded errors = %v, want none", rec.recorded)
	}
}

func TestExtractBaseHrefRelative(t *testing.T) {
	extractor, _ := newTestExtractor(t, "http://example.com/")

	body := `<html>
<head><base href="/docs/"></head>
<body><a href="guide">guide</a></body>
</html>`

	page := extractor.Extract(mustParse(t, "http://example.com/a/page"), []byte(body))
	want := []string{"http://example.com/docs/guide"}
	if !reflect.DeepEqual(page.Links, want) {
		t.Errorf("links = %v, want %v", page.Links, want)
	}
}

func TestExtractBadHref(t *testing.T) {
	extractor, rec := newTestExtractor(t, "http://example.com/")

	body := `<html><body>
<a href="http://[::1">bad</a>
<a href="/ok">ok</a>
</body></html>`

	page := extractor.Extract(mustParse(t, "http://example.com/"), []byte(body))
	want := []string{"http://example.com/ok"}
	if !reflect.DeepEqual(page.Links, want) {
		t.Errorf("links = %v, want %v", page.Links, want)
	}
	if len(rec.recorded) != 1 {
		t.Fatalf("recorded errors = %v, want exactly one", rec.recorded)
	}
	if got, want := rec.recorded[0].kind, ErrorResolve; got != want {
		t.Errorf("error kind = %q, want %q", got, want)
	}
	// The unresolvable href is recorded under its raw attribute value.
	if got, want := rec.recorded[0].subject, "http://[::1"; got != want {
		t.Errorf("error subject = %q, want %q", got, want)
	}
}

func TestExtractInvalidUTF8(t *testing.T) {
	extractor, rec := newTestExtractor(t, "http://example.com/")
	pageURL := mustParse(t, "http://example.com/")

	page := extractor.Extract(pageURL, []byte("<html><body>\xff\xfe</body></html>"))
	if page != nil {
		t.Errorf("page = %v, want nil for undecodable bytes", page)
	}
	if len(rec.recorded) != 1 {
		t.Fatalf("recorded errors = %v, want exactly one", rec.recorded)
	}
	if got, want := rec.recorded[0].kind, ErrorParse; got != want {
		t.Errorf("error kind = %q, want %q", got, want)
	}
	if got, want := rec.recorded[0].subject, "http://example.com/"; got != want {
		t.Errorf("error subject = %q, want %q", got, want)
	}
	if !strings.Contains(rec.recorded[0].err.Error(), "not valid UTF-8") {
		t.Errorf("error = %v, want a UTF-8 validity failure", rec.recorded[0].err)
	}
}

var latin1PageHTML = "<html><head><title>Caf\xe9</title></head><body>" +
	"<p>Le caf\xe9 est pr\xeat depuis une heure d\xe9j\xe0. " +
	"Nous irons \xe0 la biblioth\xe8que apr\xe8s le d\xeejeuner, " +
	"puis au mus\xe9e pour voir l'exposition d'\xe9t\xe9. " +
	"La journ\xe9e s'annonce tr\xe8s agr\xe9able malgr\xe9 la chaleur.</p>" +
	"</body></html>"

func TestExtractCharsetDetection(t *testing.T) {
	pageURL := mustParse(t, "http://example.com/latin1")

	// Without detection the ISO-8859-1 bytes are a parse error.
	extractor, rec := newTestExtractor(t, "http://example.com/")
	if page := extractor.Extract(pageURL, []byte(latin1PageHTML)); page != nil {
		t.Errorf("page = %v, want nil without charset detection", page)
	}
	if len(rec.recorded) != 1 {
		t.Fatalf("recorded errors = %v, want exactly one", rec.recorded)
	}

	// With detection the body decodes and the title survives.
	extractor, rec = newTestExtractor(t, "http://example.com/")
	extractor.DetectCharset = true
	page := extractor.Extract(pageURL, []byte(latin1PageHTML))
	if page == nil {
		t.Fatal("Extract returned nil with charset detection enabled")
	}
	if got, want := page.Title, "Café"; got != want {
		t.Errorf("title = %q, want %q", got, want)
	}
	if len(rec.recorded) != 0 {
		t.Errorf("recorded errors = %v, want none", rec.recorded)
	}
}
