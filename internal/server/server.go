// Package server provides the MCP server core implementation, handling
// protocol communication, tool registration, and request routing.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ones-wiki/ones-wiki-mcp-server/internal/config"
	"github.com/ones-wiki/ones-wiki-mcp-server/internal/fetcher"
	"github.com/ones-wiki/ones-wiki-mcp-server/internal/logger"
	"github.com/ones-wiki/ones-wiki-mcp-server/internal/renderer"
	"github.com/ones-wiki/ones-wiki-mcp-server/internal/session"
	"github.com/ones-wiki/ones-wiki-mcp-server/internal/wiki"
	"github.com/ones-wiki/ones-wiki-mcp-server/internal/wikiurl"
)

// Server represents the MCP server instance with all its dependencies.
// It coordinates MCP protocol handling and the wiki content pipeline.
type Server struct {
	config      *config.Config
	logger      *slog.Logger
	mcpServer   *server.MCPServer
	wikiService *wiki.Service
	transport   TransportStarter
}

// NewServer creates a new MCP server instance with the provided
// configuration and logger. The server is not started until Start() is
// called, and no login is performed until the first tool invocation.
func NewServer(cfg *config.Config, log *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if log == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	if err := cfg.ValidateTransport(); err != nil {
		return nil, fmt.Errorf("invalid transport configuration: %w", err)
	}

	mcpServer := server.NewMCPServer(
		"ones-wiki-mcp-server",
		"1.0.0",
	)

	clientLogger := logger.NewClientLogger(cfg.LogLevel)

	httpClient := fetcher.NewHTTPClient(
		time.Duration(cfg.FetchTimeout)*time.Second,
		cfg.MaxConcurrent,
	)

	sessions := session.NewManager(
		httpClient,
		wikiurl.LoginEndpoint(cfg.OnesHost),
		cfg.OnesEmail,
		cfg.OnesPassword,
		clientLogger,
	)

	wikiService := wiki.NewService(
		sessions,
		fetcher.NewWikiFetcher(httpClient, clientLogger),
		renderer.New(renderer.Mode(cfg.RenderMode)),
		clientLogger,
	)

	transport, err := NewTransport(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create transport: %w", err)
	}

	return &Server{
		config:      cfg,
		logger:      log,
		mcpServer:   mcpServer,
		wikiService: wikiService,
		transport:   transport,
	}, nil
}

// RegisterTools registers all MCP tools with the server.
// This should be called before Start().
func (s *Server) RegisterTools() error {
	s.logger.Info("Registering MCP tools")

	wikiTool := mcp.NewTool(
		"get_wiki_content",
		mcp.WithDescription("Retrieve ONES Wiki page content and convert it to AI-friendly text format"),
		mcp.WithString("wikiUrl",
			mcp.Required(),
			mcp.Description("Wiki page URL, format like: https://example.com/wiki/#/team/AQzvsooq/space/EYvdiwVh/page/4RwySM6h"),
		),
	)

	s.mcpServer.AddTool(wikiTool, s.handleGetWikiContent)

	s.logger.Info("MCP tools registered successfully")
	return nil
}

// Start starts the MCP server and begins listening for client connections.
// This is a blocking call that runs until the context is cancelled or an
// error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting MCP server", "transport", s.transport.Type())
	if addr := s.config.GetTransportAddress(); addr != "" {
		s.logger.Info("Transport address", "address", addr)
	}

	if err := s.transport.Start(ctx, s.mcpServer); err != nil {
		s.logger.Error("MCP server error", "error", err, "transport", s.transport.Type())
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server and cleans up resources.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server", "transport", s.transport.Type())

	if err := s.transport.Shutdown(ctx); err != nil {
		s.logger.Error("Error during transport shutdown", "error", err, "transport", s.transport.Type())
		return fmt.Errorf("transport shutdown error: %w", err)
	}

	s.logger.Info("Server shutdown complete", "transport", s.transport.Type())
	return nil
}

// handleGetWikiContent handles the get_wiki_content tool invocation. The
// wiki service reports every failure as display text, so the handler always
// returns a text result; protocol errors occur only for a missing parameter.
func (s *Server) handleGetWikiContent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	wikiURL, err := request.RequireString("wikiUrl")
	if err != nil {
		return mcp.NewToolResultError("wikiUrl parameter is required and must be a non-empty string"), nil
	}

	content := s.wikiService.GetWikiContent(ctx, wikiURL)

	s.logger.Info("Wiki content retrieved", "url", wikiURL, "content_size", len(content))

	return mcp.NewToolResultText(content), nil
}
