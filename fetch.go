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
	"compress/gzip"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptrace"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
)

// httpBackend performs the network half of the content store. One
// backend serves one mirror run; requests go out strictly one at a time.
type httpBackend struct {
	Client *http.Client
}

func (h *httpBackend) Init(timeout time.Duration) {
	h.Client = &http.Client{
		Timeout: timeout,
	}
}

// HTTPTrace stores connection timings for a single fetch.
type HTTPTrace struct {
	start, connect    time.Time
	ConnectDuration   time.Duration
	FirstByteDuration time.Duration
}

// trace returns a httptrace.ClientTrace object that fills in the
// HTTPTrace as the request progresses.
func (ht *HTTPTrace) trace() *httptrace.ClientTrace {
	return &httptrace.ClientTrace{
		ConnectStart: func(network, addr string) { ht.connect = time.Now() },
		ConnectDone: func(network, addr string, err error) {
			ht.ConnectDuration = time.Since(ht.connect)
		},

		GetConn: func(hostPort string) { ht.start = time.Now() },
		GotFirstResponseByte: func() {
			ht.FirstByteDuration = time.Since(ht.start)
		},
	}
}

// Get issues a single GET request and returns the decompressed body.
// Any transport failure or non-2xx status is returned as an error with
// no body. Redirects are followed by the client up to the standard ten
// hop limit; the body returned is the final destination's.
func (h *httpBackend) Get(ctx context.Context, pageURL, userAgent string, bodySize int, ht *HTTPTrace) ([]byte, error) {
	if ht != nil {
		ctx = httptrace.WithClientTrace(ctx, ht.trace())
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Encoding", "gzip, br")

	res, err := h.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, errors.New(http.StatusText(res.StatusCode))
	}

	var bodyReader io.Reader = res.Body
	if bodySize > 0 {
		bodyReader = io.LimitReader(bodyReader, int64(bodySize))
	}
	// Setting Accept-Encoding by hand disables the transport's automatic
	// decompression, so Uncompressed is false and the header survives.
	contentEncoding := strings.ToLower(res.Header.Get("Content-Encoding"))
	if !res.Uncompressed {
		switch {
		case strings.Contains(contentEncoding, "gzip"):
			gzipReader, err := gzip.NewReader(bodyReader)
			if err != nil {
				return nil, err
			}
			defer gzipReader.Close()
			bodyReader = gzipReader
		case strings.Contains(contentEncoding, "br"):
			bodyReader = brotli.NewReader(bodyReader)
		}
	}
	return io.ReadAll(bodyReader)
}
