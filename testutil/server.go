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

// Package testutil provides shared test utilities for sitemirror tests.
// This includes HTTP test servers and common test data.
package testutil

import (
	"compress/gzip"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"
)

// Test data shared across tests
var (
	IndexHTML = []byte(`<!DOCTYPE html>
<html>
<head>
<title>Mirror Test Site</title>
</head>
<body>
<a href="/about">About</a>
<a href="/docs/">Docs</a>
<a href="/about">About again</a>
<a href="/duplicate">Mirror of about</a>
<a href="#section">Section</a>
</body>
</html>
`)
	AboutHTML = []byte(`<!DOCTYPE html>
<html>
<head>
<title>About</title>
</head>
<body>
<p>About this site.</p>
</body>
</html>
`)
	DocsIndexHTML = []byte(`<!DOCTYPE html>
<html>
<head>
<title>Docs</title>
</head>
<body>
<a href="guide">Guide</a>
</body>
</html>
`)
	GuideHTML = []byte(`<!DOCTYPE html>
<html>
<head>
<title>Guide</title>
</head>
<body>
<p>The guide.</p>
</body>
</html>
`)
	// Latin1HTML is encoded in ISO-8859-1, not UTF-8.
	Latin1HTML = []byte("<html><head><title>Caf\xe9</title></head><body>" +
		"<p>Le caf\xe9 est pr\xeat. Venez d\xe9guster une tasse tr\xe8s chaude " +
		"accompagn\xe9e d'une p\xe2tisserie l\xe9g\xe8re et d\xe9licieuse. " +
		"L'\xe9t\xe9 dernier, nous avons visit\xe9 un mus\xe9e c\xe9l\xe8bre " +
		"pr\xe8s de la rivi\xe8re, o\xf9 la lumi\xe8re \xe9tait tr\xe8s belle.</p>" +
		"</body></html>")
)

// HitCounter records how many times each path was requested.
type HitCounter struct {
	mu   sync.Mutex
	hits map[string]int
}

func (h *HitCounter) record(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.hits == nil {
		h.hits = make(map[string]int)
	}
	h.hits[path]++
}

// Hits returns the number of requests recorded for the given path.
func (h *HitCounter) Hits(path string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hits[path]
}

// Total returns the number of requests recorded across all paths.
func (h *HitCounter) Total() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	total := 0
	for _, n := range h.hits {
		total += n
	}
	return total
}

// NewSiteServer starts an HTTP test server hosting a small mirrorable site
// and returns it together with a counter of per-path request counts.
func NewSiteServer() (*httptest.Server, *HitCounter) {
	counter := &HitCounter{}
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(200)
		w.Write(IndexHTML)
	})

	mux.HandleFunc("/about", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(200)
		w.Write(AboutHTML)
	})

	mux.HandleFunc("/docs/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/docs/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(200)
		w.Write(DocsIndexHTML)
	})

	mux.HandleFunc("/docs/guide", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(200)
		w.Write(GuideHTML)
	})

	// Same content as /about, for duplicate detection tests.
	mux.HandleFunc("/duplicate", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(200)
		w.Write(AboutHTML)
	})

	mux.HandleFunc("/empty", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
	})

	mux.HandleFunc("/500", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(500)
		w.Write([]byte("<p>error</p>"))
	})

	mux.HandleFunc("/base", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head>
<title>Test Page</title>
<base href="http://xy.com/" />
</head>
<body>
<a href="z">link</a>
</body>
</html>
		`))
	})

	mux.HandleFunc("/base_relative", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head>
<title>Test Page</title>
<base href="/docs/" />
</head>
<body>
<a href="guide">link</a>
</body>
</html>
		`))
	})

	mux.HandleFunc("/gzip", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			w.Write(GuideHTML)
			return
		}
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		defer gz.Close()
		gz.Write(GuideHTML)
	})

	mux.HandleFunc("/latin1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		w.WriteHeader(200)
		w.Write(Latin1HTML)
	})

	mux.HandleFunc("/user_agent", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
		w.Write([]byte(r.Header.Get("User-Agent")))
	})

	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)

		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		i := 0

		for {
			select {
			case <-r.Context().Done():
				return
			case t := <-ticker.C:
				fmt.Fprintf(w, "%s\n", t)
				if flusher, ok := w.(http.Flusher); ok {
					flusher.Flush()
				}
				i++
				if i == 10 {
					return
				}
			}
		}
	})

	counted := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		counter.record(r.URL.Path)
		mux.ServeHTTP(w, r)
	})

	return httptest.NewServer(counted), counter
}
