package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/agentberlin/sitemirror"
	"github.com/agentberlin/sitemirror/internal/store"
)

// registerTools registers all MCP tools with the server
func (s *MCPServer) registerTools() {
	s.logger.Printf("Registering MCP tools...")

	s.registerMirrorSiteTool()
	s.registerListRunsTool()
	s.registerGetScanReportTool()

	s.logger.Printf("All MCP tools registered successfully")
}

// MirrorSiteArgs defines the input schema for mirror_site tool
type MirrorSiteArgs struct {
	URL              string   `json:"url"`
	StorageRoot      string   `json:"storageRoot,omitempty"`
	TimeoutMs        int      `json:"timeoutMs,omitempty"`
	DetectDuplicates bool     `json:"detectDuplicates,omitempty"`
	ExcludePatterns  []string `json:"excludePatterns,omitempty"`
}

// MirrorSiteResult defines the output schema for mirror_site tool
type MirrorSiteResult struct {
	Success    bool   `json:"success"`
	RunID      uint   `json:"runId,omitempty"`
	Pages      int    `json:"pages,omitempty"`
	Cached     int    `json:"cached,omitempty"`
	Errors     int    `json:"errors,omitempty"`
	Duration   string `json:"duration,omitempty"`
	ReportPath string `json:"reportPath,omitempty"`
	Message    string `json:"message"`
}

// registerMirrorSiteTool registers the mirror_site tool
func (s *MCPServer) registerMirrorSiteTool() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "mirror_site",
		Description: "Mirrors a website into a local directory and returns the run summary",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args MirrorSiteArgs) (*mcp.CallToolResult, any, error) {
		s.logger.Printf("Tool called: mirror_site for URL: %s", args.URL)

		storageRoot := args.StorageRoot
		if storageRoot == "" {
			storageRoot = "."
		}
		if info, err := os.Stat(storageRoot); err != nil || !info.IsDir() {
			return nil, MirrorSiteResult{
				Success: false,
				Message: fmt.Sprintf("Storage root is not an existing directory: %s", storageRoot),
			}, nil
		}

		config := &sitemirror.Config{
			StorageRoot:       storageRoot,
			MaxBodySize:       10 * 1024 * 1024,
			EnableContentHash: args.DetectDuplicates,
			ExcludePatterns:   args.ExcludePatterns,
		}
		if args.TimeoutMs > 0 {
			config.Timeout = time.Duration(args.TimeoutMs) * time.Millisecond
		}

		mirror, err := sitemirror.New(args.URL, config)
		if err != nil {
			return nil, MirrorSiteResult{
				Success: false,
				Message: fmt.Sprintf("Failed to create mirror: %v", err),
			}, nil
		}
		cached := 0
		mirror.OnPageCached = func(event sitemirror.PageEvent) { cached++ }

		report, err := mirror.Run(ctx)
		if err != nil {
			return nil, MirrorSiteResult{
				Success: false,
				Message: fmt.Sprintf("Mirror run failed: %v", err),
			}, nil
		}

		seed, _ := sitemirror.ParseSeed(args.URL)
		run, storeErr := s.store.CreateRun(&store.Run{
			Seed:        seed.String(),
			Host:        seed.Host,
			StorageRoot: storageRoot,
			ReportPath:  mirror.ReportPath(),
			StartedAt:   report.Meta.Start.Unix(),
			DurationMs:  report.Meta.End.Sub(report.Meta.Start).Milliseconds(),
			Pages:       len(report.Queue),
			PagesCached: cached,
			ErrorCount:  len(report.Errors),
		})
		if storeErr != nil {
			s.logger.Printf("Failed to record run: %v", storeErr)
			run = &store.Run{}
		}

		result := MirrorSiteResult{
			Success:    true,
			RunID:      run.ID,
			Pages:      len(report.Queue),
			Cached:     cached,
			Errors:     len(report.Errors),
			Duration:   report.Meta.Duration,
			ReportPath: mirror.ReportPath(),
			Message:    "Mirror completed successfully",
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{
					Text: fmt.Sprintf("Mirrored %s: %d pages (%d cached, %d errors) in %s",
						args.URL, result.Pages, result.Cached, result.Errors, result.Duration),
				},
			},
		}, result, nil
	})
}

// ListRunsArgs defines the input schema for list_runs tool
type ListRunsArgs struct {
	Host  string `json:"host,omitempty"`
	Limit int    `json:"limit,omitempty"`
}

// registerListRunsTool registers the list_runs tool
func (s *MCPServer) registerListRunsTool() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_runs",
		Description: "Lists recorded mirror runs, newest first, optionally filtered by host",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args ListRunsArgs) (*mcp.CallToolResult, any, error) {
		s.logger.Printf("Tool called: list_runs")

		var runs []store.Run
		var err error
		if args.Host != "" {
			runs, err = s.store.ListRunsForHost(args.Host)
		} else {
			runs, err = s.store.ListRuns(args.Limit)
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to list runs: %w", err)
		}

		result := map[string]interface{}{
			"runs": runs,
		}

		runsJSON, _ := json.MarshalIndent(result, "", "  ")
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{
					Text: fmt.Sprintf("Found %d runs:\n%s", len(runs), string(runsJSON)),
				},
			},
		}, result, nil
	})
}

// GetScanReportArgs defines the input schema for get_scan_report tool
type GetScanReportArgs struct {
	RunID uint   `json:"runId,omitempty"`
	Host  string `json:"host,omitempty"`
}

// registerGetScanReportTool registers the get_scan_report tool
func (s *MCPServer) registerGetScanReportTool() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_scan_report",
		Description: "Returns the JSON scan report of a run (by ID, or the latest run when no ID is given)",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args GetScanReportArgs) (*mcp.CallToolResult, any, error) {
		s.logger.Printf("Tool called: get_scan_report for run ID: %d", args.RunID)

		var run *store.Run
		var err error
		if args.RunID > 0 {
			run, err = s.store.GetRunByID(args.RunID)
		} else {
			run, err = s.store.GetLatestRun(args.Host)
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to look up run: %w", err)
		}
		if run == nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					&mcp.TextContent{Text: "No matching runs found"},
				},
			}, map[string]interface{}{
				"message": "No matching runs found",
			}, nil
		}
		if run.ReportPath == "" {
			return nil, nil, fmt.Errorf("run %d has no scan report on disk", run.ID)
		}

		reportBytes, err := os.ReadFile(run.ReportPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read scan report: %w", err)
		}
		var report map[string]interface{}
		if err := json.Unmarshal(reportBytes, &report); err != nil {
			return nil, nil, fmt.Errorf("failed to parse scan report: %w", err)
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{
					Text: fmt.Sprintf("Scan report for run %d (%s):\n%s", run.ID, run.Seed, string(reportBytes)),
				},
			},
		}, report, nil
	})
}
