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

// SiteMirror CLI
//
// Command-line interface for SiteMirror. Mirrors a single website onto the
// local filesystem and keeps a history of completed runs.
//
// Usage:
//
//	sitemirror <command> [flags]
//
// Commands:
//
//	mirror    Mirror a website into a local directory
//	list      List recorded mirror runs
//	report    Show the scan report of a run
//	mcp       Run the MCP server (stdio or HTTP)
//	version   Show version information
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/agentberlin/sitemirror/internal/version"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	// Treat a bare URL first argument as a mirror command.
	if strings.HasPrefix(command, "http://") || strings.HasPrefix(command, "https://") {
		if err := runMirror(os.Args[1:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	switch command {
	case "mirror":
		if err := runMirror(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "list":
		if err := runList(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "report":
		if err := runReport(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "mcp":
		if err := runMCP(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "version", "-v", "--version":
		fmt.Printf("SiteMirror CLI %s\n", version.CurrentVersion)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`SiteMirror CLI - Mirror a website onto the local filesystem

Usage:
  sitemirror <command> [flags]

Commands:
  mirror    Mirror a website into a local directory
  list      List recorded mirror runs
  report    Show the scan report of a run
  mcp       Run the MCP server (stdio or HTTP)
  version   Show version information
  help      Show this help message

Examples:
  # Mirror a website into the current directory
  sitemirror mirror https://example.com

  # Mirror into a specific directory with duplicate detection
  sitemirror mirror https://example.com -o ./mirrors --detect-duplicates

  # Skip URLs matching glob patterns
  sitemirror mirror https://example.com --exclude "*/admin/*" --exclude "*.pdf"

  # List recent runs
  sitemirror list

  # Show the scan report of the latest run
  sitemirror report --latest

  # Run as an MCP server over stdio
  sitemirror mcp

Use "sitemirror <command> --help" for more information about a command.`)
}
