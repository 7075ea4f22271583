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
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/gobwas/glob"

	"github.com/agentberlin/sitemirror/storage"
)

// State reports where a Mirror is in its lifecycle.
type State int32

const (
	StateNotStarted State = iota
	StateRunning
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "Running"
	case StateFinished:
		return "Finished"
	}
	return "NotStarted"
}

// PageEvent describes one page the run handled. It is passed to the
// OnPageMirrored and OnPageCached callbacks.
type PageEvent struct {
	// URL is the frontier entry that was processed.
	URL string
	// Path is the local artifact the page's bytes live at.
	Path string
	// Title is the page's <title> text, empty when the page was not
	// parseable HTML.
	Title string
	// Bytes is the stored body length.
	Bytes int
	// Cached is true when the bytes were served from an existing local
	// artifact instead of the network.
	Cached bool
	// Duplicate is true when duplicate detection was enabled and
	// another URL already produced the same normalized content.
	Duplicate bool
	// Links counts the URLs this page newly added to the frontier.
	Links int
	// ConnectDuration and FirstByteDuration are filled in for network
	// fetches when Config.TraceHTTP is set.
	ConnectDuration   time.Duration
	FirstByteDuration time.Duration
}

// Mirror crawls one site from a seed URL and stores every in-scope page
// under the storage root. Construct it with New, then call Run exactly
// once.
//
// All callbacks fire synchronously from the run loop and must not block
// for long; a nil callback is skipped.
type Mirror struct {
	// OnPageMirrored is called after a page was fetched over the
	// network and its artifact written.
	OnPageMirrored func(event PageEvent)
	// OnPageCached is called after a page was served from an existing
	// local artifact.
	OnPageCached func(event PageEvent)
	// OnSkipped is called when a URL or its content was dropped without
	// an error: empty bodies, exclude-pattern matches, over-long URLs.
	OnSkipped func(url string, reason string)
	// OnError is called for every recorded, non-fatal error.
	OnError func(kind ErrorKind, subject string, err error)
	// OnComplete is called once with the final report, after it has
	// been written to the storage root.
	OnComplete func(report *Report)

	config     *Config
	seed       *url.URL
	scope      *Scope
	frontier   *Frontier
	record     *ScanRecord
	store      *ContentStore
	extractor  *LinkExtractor
	session    storage.Storage
	excludes   []glob.Glob
	state      atomic.Int32
	reportPath string
}

// New builds a Mirror for the given seed. The seed is the only input
// that can fail construction: an empty, unparsable or non-http(s) value
// wraps ErrInvalidSeed. If config is nil, defaults from
// NewDefaultConfig() are used; SITEMIRROR_* environment variables are
// applied on top.
func New(seedURL string, config *Config) (*Mirror, error) {
	config = mergeConfig(config)
	config.parseSettingsFromEnv()

	seed, err := ParseSeed(seedURL)
	if err != nil {
		return nil, err
	}
	excludes := make([]glob.Glob, 0, len(config.ExcludePatterns))
	for _, pattern := range config.ExcludePatterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad exclude pattern %q: %w", pattern, err)
		}
		excludes = append(excludes, g)
	}

	m := &Mirror{
		config:   config,
		seed:     seed,
		scope:    NewScope(seed),
		frontier: NewFrontier(),
		record:   &ScanRecord{},
		excludes: excludes,
	}
	m.record.notify = func(kind ErrorKind, subject string, err error) {
		if m.OnError != nil {
			m.OnError(kind, subject, err)
		}
	}
	m.store = NewContentStore(config.Timeout, m.record)
	m.store.UserAgent = config.UserAgent
	m.store.MaxBodySize = config.MaxBodySize
	m.store.TraceHTTP = config.TraceHTTP
	m.extractor = NewLinkExtractor(m.scope, m.record)
	m.extractor.DetectCharset = config.DetectCharset

	if config.EnableContentHash {
		m.session = &storage.InMemoryStorage{}
		if err := m.session.Init(); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// SetStorage replaces the duplicate-detection session storage. Must be
// called before Run.
func (m *Mirror) SetStorage(s storage.Storage) error {
	if err := s.Init(); err != nil {
		return err
	}
	m.session = s
	return nil
}

// WithTransport replaces the HTTP transport used for fetching. Tests
// use it to serve canned responses without a network.
func (m *Mirror) WithTransport(transport http.RoundTripper) {
	m.store.WithTransport(transport)
}

// State returns the Mirror's lifecycle state.
func (m *Mirror) State() State {
	return State(m.state.Load())
}

// ReportPath returns where the scan report was written. It is empty
// until Run finishes, and stays empty if the report write failed.
func (m *Mirror) ReportPath() string {
	return m.reportPath
}

// Run executes the crawl: the seed is processed first, then every URL
// it transitively discovers, one at a time, until the frontier is
// exhausted. Run always finishes the report (and returns it) even when
// pages failed; per-page failures are recorded, not returned.
//
// Cancelling ctx stops the run at the next loop iteration. The
// interruption is recorded as a crawl error and the report still
// covers everything processed up to that point. The returned error is
// non-nil only for ErrAlreadyStarted or a failed report write.
func (m *Mirror) Run(ctx context.Context) (*Report, error) {
	if !m.state.CompareAndSwap(int32(StateNotStarted), int32(StateRunning)) {
		return nil, ErrAlreadyStarted
	}
	m.record.Begin()
	m.frontier.Enqueue(m.seed.String())
	for {
		if err := ctx.Err(); err != nil {
			m.record.RecordError(ErrorCrawl, m.seed.String(), err)
			break
		}
		entry, ok := m.frontier.Next()
		if !ok {
			break
		}
		m.process(ctx, entry)
	}
	m.record.Finish()

	report := m.record.Report(m.frontier.URLs())
	path, err := WriteReport(report, m.config.StorageRoot)
	m.reportPath = path
	m.state.Store(int32(StateFinished))
	if m.OnComplete != nil {
		m.OnComplete(report)
	}
	return report, err
}

// process handles one frontier entry end to end: load or fetch, store,
// parse, enqueue discoveries.
func (m *Mirror) process(ctx context.Context, entry string) {
	pageURL, err := ParseURL(entry)
	if err != nil {
		m.record.RecordError(ErrorResolve, entry, err)
		return
	}
	path := MapPath(pageURL, m.config.StorageRoot)
	body, cached, trace := m.store.Get(ctx, entry, path)
	if body == nil {
		// The store already recorded what went wrong.
		return
	}
	if len(body) == 0 {
		if m.OnSkipped != nil {
			m.OnSkipped(entry, "no content")
		}
		return
	}

	event := PageEvent{
		URL:    entry,
		Path:   path,
		Bytes:  len(body),
		Cached: cached,
	}
	if trace != nil {
		event.ConnectDuration = trace.ConnectDuration
		event.FirstByteDuration = trace.FirstByteDuration
	}
	if m.session != nil {
		event.Duplicate = m.checkDuplicate(entry, body)
	}

	if page := m.extractor.Extract(pageURL, body); page != nil {
		event.Title = page.Title
		for _, link := range page.Links {
			if m.enqueue(link) {
				event.Links++
			}
		}
	}

	if cached {
		if m.OnPageCached != nil {
			m.OnPageCached(event)
		}
	} else if m.OnPageMirrored != nil {
		m.OnPageMirrored(event)
	}
}

// enqueue offers one discovered link to the frontier, applying the
// length and exclude-pattern filters first. It reports whether the link
// was newly added.
func (m *Mirror) enqueue(link string) bool {
	if m.config.MaxURLLength > 0 && len(link) > m.config.MaxURLLength {
		if m.OnSkipped != nil {
			m.OnSkipped(link, "URL too long")
		}
		return false
	}
	for _, g := range m.excludes {
		if g.Match(link) {
			if m.OnSkipped != nil {
				m.OnSkipped(link, "matched exclude pattern")
			}
			return false
		}
	}
	return m.frontier.Enqueue(link)
}

// checkDuplicate hashes the page's normalized content and reports
// whether another URL already produced it this run. Hashing problems
// never fail the page; they just leave it unflagged.
func (m *Mirror) checkDuplicate(pageURL string, body []byte) bool {
	hash, err := ContentHash(body, m.config.ContentHashConfig)
	if err != nil {
		return false
	}
	if err := m.session.SetContentHash(pageURL, hash); err != nil {
		return false
	}
	seen, err := m.session.IsContentVisited(hash)
	if err != nil {
		return false
	}
	if !seen {
		_ = m.session.VisitedContent(hash)
	}
	return seen
}
