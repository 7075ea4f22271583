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
	"flag"
	"fmt"
	"os"

	"github.com/agentberlin/sitemirror/internal/store"
)

func runReport(args []string) error {
	fs := flag.NewFlagSet("report", flag.ExitOnError)

	var runID uint
	var host string
	var latest bool
	fs.UintVar(&runID, "run-id", 0, "Run ID to show the report for")
	fs.StringVar(&host, "host", "", "Show the latest run for this host")
	fs.BoolVar(&latest, "latest", false, "Show the latest run")

	fs.Usage = func() {
		fmt.Println(`Usage: sitemirror report [flags]

Print the JSON scan report of a recorded run.

Flags:`)
		fs.PrintDefaults()
		fmt.Println(`
Examples:
  # Report of a specific run
  sitemirror report --run-id 3

  # Report of the most recent run
  sitemirror report --latest

  # Report of the most recent run for a host
  sitemirror report --host example.com`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if runID == 0 && host == "" && !latest {
		fs.Usage()
		return fmt.Errorf("one of --run-id, --host, or --latest is required")
	}

	// Initialize store
	st, err := store.NewStore()
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	var run *store.Run
	if runID > 0 {
		run, err = st.GetRunByID(runID)
	} else {
		run, err = st.GetLatestRun(host)
	}
	if err != nil {
		return fmt.Errorf("failed to look up run: %v", err)
	}
	if run == nil {
		fmt.Println("No matching runs found.")
		return nil
	}
	if run.ReportPath == "" {
		return fmt.Errorf("run %d has no scan report on disk", run.ID)
	}

	report, err := os.ReadFile(run.ReportPath)
	if err != nil {
		return fmt.Errorf("failed to read scan report: %v", err)
	}

	fmt.Println(string(report))
	return nil
}
