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
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the settings for one mirror run.
type Config struct {
	// StorageRoot is the directory the mirrored tree and the scan
	// report are written under. The mirror treats it as given; callers
	// that need the directory to pre-exist validate it before starting
	// a run. Defaults to ".".
	StorageRoot string
	// Timeout is the per-request HTTP timeout. A timed-out fetch is a
	// recorded error, never a fatal one. Defaults to 5000 milliseconds.
	Timeout time.Duration
	// UserAgent is the User-Agent string used by the mirror's requests.
	UserAgent string
	// MaxBodySize is the limit of the retrieved response body in bytes.
	// 0 means unlimited. The default value is 10MB (10 * 1024 * 1024 bytes).
	MaxBodySize int
	// DetectCharset can enable character encoding detection for non-utf8 page bodies
	// without explicit charset declaration. This feature uses https://github.com/saintfish/chardet
	DetectCharset bool
	// EnableContentHash enables content-based duplicate detection.
	// Duplicate pages are still mirrored; they are flagged on the
	// PageEvent and in the session storage.
	EnableContentHash bool
	// ContentHashConfig contains detailed configuration for content hashing.
	// Only applies when EnableContentHash is true; nil applies the defaults.
	ContentHashConfig *ContentHashConfig
	// TraceHTTP enables capturing request performance for mirror tuning.
	// When set to true, PageEvent timing fields will be filled in for
	// pages that went over the network.
	TraceHTTP bool
	// ExcludePatterns lists glob patterns matched against discovered
	// URLs. Matching URLs are never enqueued. Patterns use
	// https://github.com/gobwas/glob syntax.
	ExcludePatterns []string
	// MaxURLLength drops discovered URLs longer than this many bytes.
	// Set it to 0 for no limit (default).
	MaxURLLength int
}

var envMap = map[string]func(*Config, string){
	"DETECT_CHARSET": func(c *Config, val string) {
		c.DetectCharset = isYesString(val)
	},
	"ENABLE_CONTENT_HASH": func(c *Config, val string) {
		c.EnableContentHash = isYesString(val)
	},
	"MAX_BODY_SIZE": func(c *Config, val string) {
		size, err := strconv.Atoi(val)
		if err == nil {
			c.MaxBodySize = size
		}
	},
	"MAX_URL_LENGTH": func(c *Config, val string) {
		length, err := strconv.Atoi(val)
		if err == nil {
			c.MaxURLLength = length
		}
	},
	"STORAGE_ROOT": func(c *Config, val string) {
		c.StorageRoot = val
	},
	"TIMEOUT_MS": func(c *Config, val string) {
		ms, err := strconv.Atoi(val)
		if err == nil {
			c.Timeout = time.Duration(ms) * time.Millisecond
		}
	},
	"TRACE_HTTP": func(c *Config, val string) {
		c.TraceHTTP = isYesString(val)
	},
	"USER_AGENT": func(c *Config, val string) {
		c.UserAgent = val
	},
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		StorageRoot: ".",
		Timeout:     5000 * time.Millisecond,
		UserAgent:   "sitemirror/1.0 (+https://snake.blue)",
		MaxBodySize: 10 * 1024 * 1024, // 10MB
	}
}

// mergeConfig merges a caller's config with the defaults. The caller's
// values take precedence for non-zero fields.
func mergeConfig(config *Config) *Config {
	merged := NewDefaultConfig()
	if config == nil {
		return merged
	}
	if config.StorageRoot != "" {
		merged.StorageRoot = config.StorageRoot
	}
	if config.Timeout != 0 {
		merged.Timeout = config.Timeout
	}
	if config.UserAgent != "" {
		merged.UserAgent = config.UserAgent
	}
	// MaxBodySize: Always use the caller's value, even if it's 0 (which means unlimited)
	merged.MaxBodySize = config.MaxBodySize
	if config.DetectCharset {
		merged.DetectCharset = true
	}
	if config.EnableContentHash {
		merged.EnableContentHash = true
	}
	if config.ContentHashConfig != nil {
		merged.ContentHashConfig = config.ContentHashConfig
	}
	if config.TraceHTTP {
		merged.TraceHTTP = true
	}
	if config.ExcludePatterns != nil {
		merged.ExcludePatterns = config.ExcludePatterns
	}
	if config.MaxURLLength != 0 {
		merged.MaxURLLength = config.MaxURLLength
	}
	return merged
}

// parseSettingsFromEnv applies SITEMIRROR_* environment variables on
// top of the merged config.
func (c *Config) parseSettingsFromEnv() {
	for _, e := range os.Environ() {
		if !strings.HasPrefix(e, "SITEMIRROR_") {
			continue
		}
		pair := strings.SplitN(e[11:], "=", 2)
		if f, ok := envMap[pair[0]]; ok {
			f(c, pair[1])
		} else {
			log.Println("Unknown environment variable:", pair[0])
		}
	}
}

func isYesString(s string) bool {
	switch strings.ToLower(s) {
	case "1", "yes", "true", "y":
		return true
	}
	return false
}
