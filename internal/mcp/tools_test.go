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

package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/agentberlin/sitemirror"
	"github.com/agentberlin/sitemirror/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestStore creates a store backed by a temporary database
func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := store.NewStoreForTesting(dbPath)
	require.NoError(t, err)
	return st
}

// createTestSiteServer creates a simple test HTTP server with 3 pages
func createTestSiteServer() *httptest.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		html := `<!DOCTYPE html>
<html>
<head><title>Test Home Page</title></head>
<body>
    <h1>Home Page</h1>
    <a href="/page1">Page 1</a>
    <a href="/page2">Page 2</a>
</body>
</html>`
		w.Write([]byte(html))
	})

	mux.HandleFunc("/page1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<html><head><title>Page 1</title></head><body><h1>Page 1 Content</h1></body></html>`))
	})

	mux.HandleFunc("/page2", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<html><head><title>Page 2</title></head><body><h1>Page 2 Content</h1></body></html>`))
	})

	return httptest.NewServer(mux)
}

// =============================================================================
// Test: Server Construction
// =============================================================================

func TestNewMCPServerWithStore(t *testing.T) {
	st := setupTestStore(t)

	server := NewMCPServerWithStore(context.Background(), st)
	require.NotNil(t, server)
	assert.NotNil(t, server.GetServer())
	assert.NoError(t, server.Close())
}

// =============================================================================
// Test: Mirror Run Recording
// =============================================================================

// TestMirrorRunRecording exercises the data path behind the mirror_site
// and get_scan_report tools: run a mirror, record the run summary and
// read the scan report back through the stored paths.
func TestMirrorRunRecording(t *testing.T) {
	st := setupTestStore(t)

	siteServer := createTestSiteServer()
	defer siteServer.Close()

	storageRoot := t.TempDir()

	mirror, err := sitemirror.New(siteServer.URL, &sitemirror.Config{
		StorageRoot: storageRoot,
	})
	require.NoError(t, err)

	cached := 0
	mirror.OnPageCached = func(event sitemirror.PageEvent) { cached++ }

	report, err := mirror.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, report)

	seed, err := sitemirror.ParseSeed(siteServer.URL)
	require.NoError(t, err)

	run, err := st.CreateRun(&store.Run{
		Seed:        seed.String(),
		Host:        seed.Host,
		StorageRoot: storageRoot,
		ReportPath:  mirror.ReportPath(),
		StartedAt:   report.Meta.Start.Unix(),
		DurationMs:  report.Meta.End.Sub(report.Meta.Start).Milliseconds(),
		Pages:       len(report.Queue),
		PagesCached: cached,
		ErrorCount:  len(report.Errors),
	})
	require.NoError(t, err)

	t.Run("RecordsRunSummary", func(t *testing.T) {
		assert.NotZero(t, run.ID)
		assert.NotEmpty(t, run.Slug)
		assert.Equal(t, 3, run.Pages, "home, page1 and page2 should be enqueued")
		assert.Equal(t, 0, run.PagesCached)
		assert.Equal(t, 0, run.ErrorCount)
		assert.NotEmpty(t, run.ReportPath)
	})

	t.Run("LatestRunIsRetrievable", func(t *testing.T) {
		latest, err := st.GetLatestRun("")
		require.NoError(t, err)
		require.NotNil(t, latest)
		assert.Equal(t, run.ID, latest.ID)

		byHost, err := st.GetLatestRun(seed.Host)
		require.NoError(t, err)
		require.NotNil(t, byHost)
		assert.Equal(t, run.ID, byHost.ID)
	})

	t.Run("ScanReportIsReadable", func(t *testing.T) {
		reportBytes, err := os.ReadFile(run.ReportPath)
		require.NoError(t, err)

		var parsed map[string]interface{}
		require.NoError(t, json.Unmarshal(reportBytes, &parsed))

		assert.Contains(t, parsed, "meta")
		assert.Contains(t, parsed, "errors")
		assert.Contains(t, parsed, "queue")

		queue, ok := parsed["queue"].([]interface{})
		require.True(t, ok, "queue should be an array")
		assert.Len(t, queue, 3)
	})
}

// =============================================================================
// Test: HTTP Transport
// =============================================================================

func TestRunHTTP(t *testing.T) {
	st := setupTestStore(t)

	server := NewMCPServerWithStore(context.Background(), st)

	httpServer, err := server.RunHTTP("127.0.0.1:0")
	require.NoError(t, err)
	require.NotNil(t, httpServer)

	// Give the listener a moment to come up before shutting down
	time.Sleep(100 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.NoError(t, httpServer.Shutdown(ctx))
}
