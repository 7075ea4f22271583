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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrorKind classifies a recorded, non-fatal error.
type ErrorKind string

const (
	// ErrorFetch covers transport failures: timeouts, connection
	// errors, and non-2xx HTTP status codes.
	ErrorFetch ErrorKind = "fetch"
	// ErrorStorage covers failures reading or writing a local artifact.
	ErrorStorage ErrorKind = "storage"
	// ErrorParse covers undecodable bytes and malformed HTML.
	ErrorParse ErrorKind = "parse"
	// ErrorResolve covers hrefs that cannot be resolved against their
	// page URL.
	ErrorResolve ErrorKind = "resolve"
	// ErrorCrawl covers run-level interruptions, currently only context
	// cancellation.
	ErrorCrawl ErrorKind = "crawl"
)

// Recorder receives non-fatal errors as they occur. Recording never
// stops the run; the URL that caused the error simply yields no content
// and no links.
type Recorder interface {
	RecordError(kind ErrorKind, subject string, err error)
}

// ScanRecord accumulates the observable state of one run: when it ran
// and every error it hit. It is owned by a single Mirror and mutated
// only from its run loop.
type ScanRecord struct {
	start  time.Time
	end    time.Time
	errors []string

	// notify, when set, is called after each recorded error. The Mirror
	// uses it to forward errors to the OnError callback.
	notify func(kind ErrorKind, subject string, err error)
}

// Begin stamps the start of the run.
func (r *ScanRecord) Begin() {
	r.start = time.Now()
}

// Finish stamps the end of the run.
func (r *ScanRecord) Finish() {
	r.end = time.Now()
}

// RecordError appends one error line. Each failure is recorded exactly
// once, at first occurrence; there is no retry that could repeat it.
func (r *ScanRecord) RecordError(kind ErrorKind, subject string, err error) {
	r.errors = append(r.errors, fmt.Sprintf("%s %s: %v", kind, subject, err))
	if r.notify != nil {
		r.notify(kind, subject, err)
	}
}

// Errors returns the recorded error lines in occurrence order.
func (r *ScanRecord) Errors() []string {
	return append([]string{}, r.errors...)
}

// Report assembles the serializable run report from the record and the
// full frontier queue. Errors and Queue are never nil so the JSON form
// always carries arrays.
func (r *ScanRecord) Report(queue []string) *Report {
	return &Report{
		Meta: ReportMeta{
			Start:    r.start,
			End:      r.end,
			Duration: r.end.Sub(r.start).String(),
		},
		Errors: append([]string{}, r.errors...),
		Queue:  append([]string{}, queue...),
	}
}

// Report is the JSON document written at the end of a run.
type Report struct {
	Meta   ReportMeta `json:"meta"`
	Errors []string   `json:"errors"`
	Queue  []string   `json:"queue"`
}

// ReportMeta carries the run timing.
type ReportMeta struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Duration string    `json:"duration"`
}

const reportTimeLayout = "2006-01-02-15-04-05"

// ReportFilename returns the file name a report started at the given
// time is written under.
func ReportFilename(start time.Time) string {
	return fmt.Sprintf("scan-report-%s.json", start.Format(reportTimeLayout))
}

// WriteReport serializes the report into the storage root and returns
// the path it was written to. The file is written to a temporary name
// and renamed so a crash never leaves a truncated report behind.
func WriteReport(report *Report, storageRoot string) (string, error) {
	path := filepath.Join(storageRoot, ReportFilename(report.Meta.Start))
	tmp := path + "~"
	file, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}
	encoder := json.NewEncoder(file)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		file.Close()
		return "", fmt.Errorf("failed to encode report: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("failed to finalize report file: %w", err)
	}
	return path, nil
}
