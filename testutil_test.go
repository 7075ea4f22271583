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

package sitemirror

import (
	"errors"
	"net/http"
)

var indexPageHTML = `<!DOCTYPE html>
<html>
<head>
<title>Test Site Index</title>
</head>
<body>
<a href="/about">About</a>
<a href="/docs/">Docs</a>
<a href="/about">About again</a>
<a href="#section">Same page</a>
<a href="http://other.test/x">Elsewhere</a>
<a href="/empty">Empty</a>
<a href="/broken">Broken</a>
<a href="/duplicate">Duplicate</a>
</body>
</html>`

var aboutPageHTML = `<!DOCTYPE html>
<html>
<head>
<title>About</title>
</head>
<body>
<p>About this site</p>
</body>
</html>`

var docsPageHTML = `<!DOCTYPE html>
<html>
<head>
<title>Docs</title>
</head>
<body>
<a href="guide">Guide</a>
</body>
</html>`

var guidePageHTML = `<!DOCTYPE html>
<html>
<head>
<title>Guide</title>
</head>
<body>
<p>The guide</p>
</body>
</html>`

const testBaseURL = "http://test.local"

// setupMockTransport creates a new MockTransport with all test endpoints registered
func setupMockTransport() *MockTransport {
	mock := NewMockTransport()

	// Index page linking the rest of the site
	mock.RegisterHTML(testBaseURL+"/", indexPageHTML)

	// Leaf pages
	mock.RegisterHTML(testBaseURL+"/about", aboutPageHTML)
	mock.RegisterHTML(testBaseURL+"/docs/", docsPageHTML)
	mock.RegisterHTML(testBaseURL+"/docs/guide", guidePageHTML)

	// Same content as /about, for duplicate detection
	mock.RegisterHTML(testBaseURL+"/duplicate", aboutPageHTML)

	// 200 with no body
	mock.RegisterResponse(testBaseURL+"/empty", &MockResponse{
		StatusCode: 200,
		Body:       "",
	})

	// Network failure
	mock.RegisterError(testBaseURL+"/broken", errors.New("connection reset"))

	// 500 error page
	mock.RegisterResponse(testBaseURL+"/500", &MockResponse{
		StatusCode: 500,
		Body:       "<p>error</p>",
	})

	// User agent echo endpoint
	mock.RegisterResponse(testBaseURL+"/user_agent", &MockResponse{
		StatusCode: 200,
		BodyFunc: func(req *http.Request) string {
			return req.Header.Get("User-Agent")
		},
	})

	return mock
}

type recordedError struct {
	kind    ErrorKind
	subject string
	err     error
}

// testRecorder captures recorded errors so tests can assert on the
// kind and subject of each one.
type testRecorder struct {
	recorded []recordedError
}

func (r *testRecorder) RecordError(kind ErrorKind, subject string, err error) {
	r.recorded = append(r.recorded, recordedError{kind, subject, err})
}
