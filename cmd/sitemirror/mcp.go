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
	"syscall"
	"time"

	"github.com/agentberlin/sitemirror/internal/mcp"
)

func runMCP(args []string) error {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)

	var httpAddr string
	fs.StringVar(&httpAddr, "http", "", "Serve MCP over HTTP on this address instead of stdio")

	fs.Usage = func() {
		fmt.Println(`Usage: sitemirror mcp [flags]

Run the MCP server. Without flags the server speaks the stdio transport,
which is what MCP clients such as editors and agents expect.

Flags:`)
		fs.PrintDefaults()
		fmt.Println(`
Examples:
  # Serve MCP over stdio
  sitemirror mcp

  # Serve MCP over HTTP
  sitemirror mcp --http localhost:8080`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	server, err := mcp.NewMCPServer(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize MCP server: %v", err)
	}
	defer server.Close()

	if httpAddr == "" {
		return server.Run(ctx)
	}

	httpServer, err := server.RunHTTP(httpAddr)
	if err != nil {
		return fmt.Errorf("failed to start MCP HTTP server: %v", err)
	}

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
