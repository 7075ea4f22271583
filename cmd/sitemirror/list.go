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
	"encoding/json"
	"flag"
	"fmt"
	"time"

	"github.com/agentberlin/sitemirror/internal/store"
)

func runList(args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)

	var host string
	var limit int
	var jsonOutput bool
	fs.StringVar(&host, "host", "", "Only list runs for this host")
	fs.IntVar(&limit, "limit", 20, "Maximum number of runs to list (0 = all)")
	fs.BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	fs.Usage = func() {
		fmt.Println(`Usage: sitemirror list [flags]

List recorded mirror runs, newest first.

Flags:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Initialize store
	st, err := store.NewStore()
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	var runs []store.Run
	if host != "" {
		runs, err = st.ListRunsForHost(host)
	} else {
		runs, err = st.ListRuns(limit)
	}
	if err != nil {
		return fmt.Errorf("failed to get runs: %v", err)
	}

	if len(runs) == 0 {
		fmt.Println("No runs found.")
		return nil
	}

	if jsonOutput {
		out, err := json.MarshalIndent(runs, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode runs: %v", err)
		}
		fmt.Println(string(out))
		return nil
	}

	// Print header
	fmt.Printf("%-6s %-30s %-20s %-12s %-8s %-8s %-8s\n", "ID", "Host", "Started", "Duration", "Pages", "Cached", "Errors")
	fmt.Println("---------------------------------------------------------------------------------------------------")

	for _, r := range runs {
		started := time.Unix(r.StartedAt, 0).Format("2006-01-02 15:04")
		duration := formatDuration(r.DurationMs)
		fmt.Printf("%-6d %-30s %-20s %-12s %-8d %-8d %-8d\n",
			r.ID, truncate(r.Host, 30), started, duration, r.Pages, r.PagesCached, r.ErrorCount)
	}

	return nil
}

// truncate truncates a string to the specified length
func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}

// formatDuration formats a duration in milliseconds to a human-readable string
func formatDuration(ms int64) string {
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	seconds := ms / 1000
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	minutes := seconds / 60
	remainingSeconds := seconds % 60
	if minutes < 60 {
		return fmt.Sprintf("%dm %ds", minutes, remainingSeconds)
	}
	hours := minutes / 60
	remainingMinutes := minutes % 60
	return fmt.Sprintf("%dh %dm", hours, remainingMinutes)
}
