package mcp

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/agentberlin/sitemirror/internal/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	ServerName    = "sitemirror"
	ServerVersion = "1.0.0"
)

// MCPServer exposes mirror runs and their scan reports via MCP
type MCPServer struct {
	server *mcp.Server
	store  *store.Store
	ctx    context.Context
	logger *log.Logger
}

// NewMCPServer creates a new MCP server instance
func NewMCPServer(ctx context.Context) (*MCPServer, error) {
	// Initialize database store (uses default ~/.sitemirror/sitemirror.db)
	st, err := store.NewStore()
	if err != nil {
		return nil, err
	}
	return NewMCPServerWithStore(ctx, st), nil
}

// NewMCPServerWithStore creates an MCP server on an existing store
// (used for testing)
func NewMCPServerWithStore(ctx context.Context, st *store.Store) *MCPServer {
	logger := log.New(os.Stderr, "[SiteMirror MCP] ", log.LstdFlags)

	// Create MCP server
	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    ServerName,
		Version: ServerVersion,
	}, nil)

	s := &MCPServer{
		server: mcpServer,
		store:  st,
		ctx:    ctx,
		logger: logger,
	}

	// Register all tools
	s.registerTools()

	logger.Printf("MCP server initialized successfully")
	return s
}

// GetServer returns the internal MCP server instance
func (s *MCPServer) GetServer() *mcp.Server {
	return s.server
}

// Run serves MCP over stdio and blocks until the client disconnects or
// ctx is cancelled.
func (s *MCPServer) Run(ctx context.Context) error {
	s.logger.Printf("Starting MCP server on stdio...")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP starts the MCP server with HTTP transport using StreamableHTTPHandler
func (s *MCPServer) RunHTTP(addr string) (*http.Server, error) {
	s.logger.Printf("Starting MCP HTTP server on %s...", addr)

	// Create StreamableHTTPHandler
	handler := mcp.NewStreamableHTTPHandler(
		func(req *http.Request) *mcp.Server {
			return s.server
		},
		nil, // Use default StreamableHTTPOptions
	)

	// Create HTTP server
	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Start server in goroutine
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Printf("HTTP server error: %v", err)
		}
	}()

	s.logger.Printf("MCP HTTP server started successfully on %s", addr)
	return httpServer, nil
}

// Close performs cleanup
func (s *MCPServer) Close() error {
	s.logger.Printf("Shutting down MCP server...")
	// Store doesn't have a Close method - GORM manages connections automatically
	return nil
}
