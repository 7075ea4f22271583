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
	"os"
	"path/filepath"
	"strings"
)

const (
	localCopiesDirName = "local-copies"
	indexFileName      = "index.html"
)

// segmentSanitizer maps characters that are unsafe or ambiguous in file
// names to "-". Sanitization favors valid paths over uniqueness: distinct
// segments such as "a/b" and "a%2Fb" can collapse to the same cleaned
// segment, and the first URL stored at a path wins (see Local Artifact
// semantics in ContentStore).
var segmentSanitizer = strings.NewReplacer(
	":", "-",
	"/", "-",
	"\\", "-",
	"%", "-",
	"@", "-",
	"\t", "-",
	"\n", "-",
	"\r", "-",
)

func sanitizeSegment(segment string) string {
	return strings.TrimSpace(segmentSanitizer.Replace(segment))
}

// MapPath translates a page URL into the local file path its bytes are
// stored at. The mapping is pure and deterministic: the same URL always
// yields the same path.
//
// The path starts at <storageRoot>/local-copies/<host>. Each URL path
// segment is sanitized and segments left empty after cleaning are
// dropped. A directory-style URL (trailing "/") or a URL with no
// surviving segments stores as index.html under the cleaned segments;
// otherwise the last segment is the file name.
func MapPath(u *url.URL, storageRoot string) string {
	parts := []string{storageRoot, localCopiesDirName, u.Host}
	for _, segment := range strings.Split(u.Path, "/") {
		clean := sanitizeSegment(segment)
		if clean == "" {
			continue
		}
		parts = append(parts, clean)
	}
	if strings.HasSuffix(u.Path, "/") || len(parts) < 4 {
		parts = append(parts, indexFileName)
	}
	return filepath.Join(parts...)
}

// ensureDir creates the directory chain for a mapped path. Failures are
// ignored: the file write that follows reports the real error, and a
// missing-directory failure would only duplicate it.
func ensureDir(dir string) {
	_ = os.MkdirAll(dir, 0750)
}
