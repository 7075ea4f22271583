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

package store

import (
	"fmt"
	"time"

	"github.com/kennygrant/sanitize"
)

// Run represents one completed mirror run
type Run struct {
	ID          uint   `gorm:"primaryKey"`
	Seed        string `gorm:"not null;index"` // Normalized seed URL the run started from
	Host        string `gorm:"not null;index"` // Seed host, for grouping runs per site
	Slug        string `gorm:"not null"`       // Filesystem-safe run identifier
	StorageRoot string `gorm:"not null"`       // Directory the mirror tree was written under
	ReportPath  string `gorm:"type:text"`      // Scan report location, empty if the write failed
	StartedAt   int64  `gorm:"not null"`       // Unix seconds
	DurationMs  int64  `gorm:"not null"`
	Pages       int    `gorm:"not null"`           // URLs ever enqueued
	PagesCached int    `gorm:"not null;default:0"` // Pages served from existing artifacts
	ErrorCount  int    `gorm:"not null;default:0"`
	CreatedAt   int64  `gorm:"autoCreateTime"`
}

// NewRunSlug builds the filesystem-safe identifier runs are labeled
// with in listings and exports.
func NewRunSlug(host string, startedAt time.Time) string {
	return sanitize.BaseName(fmt.Sprintf("%s-%s", host, startedAt.UTC().Format("2006-01-02-15-04-05")))
}
