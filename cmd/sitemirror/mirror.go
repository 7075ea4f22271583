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

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/agentberlin/sitemirror"
	"github.com/agentberlin/sitemirror/internal/store"
)

// mirrorFlags holds all the flags for the mirror command
type mirrorFlags struct {
	// Core options
	output      string
	timeoutMs   int
	userAgent   string
	maxBodySize int

	// Content handling
	detectCharset    bool
	detectDuplicates bool

	// Scope filtering
	excludes     stringSliceFlag
	maxURLLength int

	// Output
	trace bool
	quiet bool
	noDB  bool
}

// stringSliceFlag collects repeated occurrences of a flag
type stringSliceFlag []string

func (s *stringSliceFlag) String() string {
	return strings.Join(*s, ",")
}

func (s *stringSliceFlag) Set(value string) error {
	*s = append(*s, value)
	return nil
}

func runMirror(args []string) error {
	fs := flag.NewFlagSet("mirror", flag.ExitOnError)

	var flags mirrorFlags

	// Core options
	fs.StringVar(&flags.output, "output", ".", "Storage root for mirrored files")
	fs.StringVar(&flags.output, "o", ".", "Storage root (shorthand)")
	fs.IntVar(&flags.timeoutMs, "timeout-ms", 5000, "Request timeout in milliseconds")
	fs.StringVar(&flags.userAgent, "user-agent", "sitemirror/1.0 (+https://snake.blue)", "Custom User-Agent string")
	fs.StringVar(&flags.userAgent, "A", "sitemirror/1.0 (+https://snake.blue)", "Custom User-Agent string (shorthand)")
	fs.IntVar(&flags.maxBodySize, "max-body-size", 10*1024*1024, "Maximum bytes read per response body (0 = unlimited)")

	// Content handling
	fs.BoolVar(&flags.detectCharset, "detect-charset", false, "Detect and decode non-UTF-8 pages")
	fs.BoolVar(&flags.detectDuplicates, "detect-duplicates", false, "Flag pages whose normalized content was already seen")

	// Scope filtering
	fs.Var(&flags.excludes, "exclude", "Glob pattern for URLs to skip (repeatable)")
	fs.IntVar(&flags.maxURLLength, "max-url-length", 0, "Skip discovered URLs longer than this (0 = unlimited)")

	// Output
	fs.BoolVar(&flags.trace, "trace", false, "Print per-page connection timings")
	fs.BoolVar(&flags.quiet, "quiet", false, "Suppress progress output")
	fs.BoolVar(&flags.quiet, "q", false, "Suppress progress output (shorthand)")
	fs.BoolVar(&flags.noDB, "no-db", false, "Do not record the run in the local database")

	fs.Usage = func() {
		fmt.Println(`Usage: sitemirror mirror <url> [flags]

Mirror the website at the given URL into a local directory.

Flags:`)
		fs.PrintDefaults()
		fmt.Println(`
Examples:
  # Basic mirror into the current directory
  sitemirror mirror https://example.com

  # Mirror into a specific directory
  sitemirror mirror https://example.com -o ./mirrors

  # Mirror with duplicate detection and exclude patterns
  sitemirror mirror https://example.com \
    --detect-duplicates \
    --exclude "*/admin/*" \
    --exclude "*.pdf" \
    --output ./mirrors`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Check for URL argument
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("URL argument is required")
	}

	urlStr := fs.Arg(0)

	// Validate URL
	if !strings.HasPrefix(urlStr, "http://") && !strings.HasPrefix(urlStr, "https://") {
		urlStr = "https://" + urlStr
	}

	// Validate storage root; the engine assumes it exists
	info, err := os.Stat(flags.output)
	if err != nil {
		return fmt.Errorf("storage root does not exist: %s", flags.output)
	}
	if !info.IsDir() {
		return fmt.Errorf("storage root is not a directory: %s", flags.output)
	}

	// Initialize store unless disabled
	var st *store.Store
	if !flags.noDB {
		st, err = store.NewStore()
		if err != nil {
			return fmt.Errorf("failed to initialize database: %v", err)
		}
	}

	config := &sitemirror.Config{
		StorageRoot:       flags.output,
		Timeout:           time.Duration(flags.timeoutMs) * time.Millisecond,
		UserAgent:         flags.userAgent,
		MaxBodySize:       flags.maxBodySize,
		DetectCharset:     flags.detectCharset,
		EnableContentHash: flags.detectDuplicates,
		TraceHTTP:         flags.trace,
		ExcludePatterns:   flags.excludes,
		MaxURLLength:      flags.maxURLLength,
	}

	mirror, err := sitemirror.New(urlStr, config)
	if err != nil {
		return err
	}

	var mirrored, cached, duplicates, skipped, errored int
	mirror.OnPageMirrored = func(event sitemirror.PageEvent) {
		mirrored++
		if event.Duplicate {
			duplicates++
		}
		printProgress(&flags, event, mirrored, cached, errored)
	}
	mirror.OnPageCached = func(event sitemirror.PageEvent) {
		cached++
		if event.Duplicate {
			duplicates++
		}
		printProgress(&flags, event, mirrored, cached, errored)
	}
	mirror.OnSkipped = func(url string, reason string) {
		skipped++
		if flags.trace && !flags.quiet {
			fmt.Printf("Skipped %s: %s\n", url, reason)
		}
	}
	mirror.OnError = func(kind sitemirror.ErrorKind, subject string, err error) {
		errored++
		if flags.trace && !flags.quiet {
			fmt.Printf("Error (%s) %s: %v\n", kind, subject, err)
		}
	}

	// Set up signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		if !flags.quiet {
			fmt.Printf("\nReceived %v, stopping mirror...\n", sig)
		}
		cancel()
	}()

	if !flags.quiet {
		fmt.Printf("Mirroring %s into %s...\n", urlStr, flags.output)
	}

	report, err := mirror.Run(ctx)
	if err != nil {
		return err
	}

	if !flags.quiet {
		fmt.Printf("\n\nMirror completed!\n")
		fmt.Printf("  Pages mirrored: %d\n", mirrored)
		fmt.Printf("  Served from cache: %d\n", cached)
		if flags.detectDuplicates {
			fmt.Printf("  Duplicate content: %d\n", duplicates)
		}
		fmt.Printf("  Skipped: %d\n", skipped)
		fmt.Printf("  Errors: %d\n", len(report.Errors))
		fmt.Printf("  Queue total: %d\n", len(report.Queue))
		fmt.Printf("  Scan report: %s\n", mirror.ReportPath())
	}

	// Record the run
	if st != nil {
		seed, err := sitemirror.ParseSeed(urlStr)
		if err != nil {
			return err
		}
		run, err := st.CreateRun(&store.Run{
			Seed:        seed.String(),
			Host:        seed.Host,
			StorageRoot: flags.output,
			ReportPath:  mirror.ReportPath(),
			StartedAt:   report.Meta.Start.Unix(),
			DurationMs:  report.Meta.End.Sub(report.Meta.Start).Milliseconds(),
			Pages:       len(report.Queue),
			PagesCached: cached,
			ErrorCount:  len(report.Errors),
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to record run: %v\n", err)
		} else if !flags.quiet {
			fmt.Printf("  Run ID: %d\n", run.ID)
		}
	}

	return nil
}

// printProgress renders either a per-page trace line or a single refreshing
// progress line, depending on the flags.
func printProgress(flags *mirrorFlags, event sitemirror.PageEvent, mirrored, cached, errored int) {
	if flags.quiet {
		return
	}
	if flags.trace {
		if event.Cached {
			fmt.Printf("%s -> %s (cached, %d bytes)\n", event.URL, event.Path, event.Bytes)
			return
		}
		fmt.Printf("%s -> %s (%d bytes, connect %s, first byte %s)\n",
			event.URL, event.Path, event.Bytes, event.ConnectDuration, event.FirstByteDuration)
		return
	}
	fmt.Printf("\rMirrored: %d | Cached: %d | Errors: %d", mirrored, cached, errored)
}
