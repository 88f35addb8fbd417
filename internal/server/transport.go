package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"
)

// TransportStarter defines the interface for all transport implementations.
// It provides a common abstraction for starting and stopping the different
// transport types (STDIO, SSE, StreamableHTTP) used by the MCP server.
type TransportStarter interface {
	// Start initializes and starts the transport with the given MCP server.
	// It blocks until the transport stops or an error occurs.
	Start(ctx context.Context, mcpServer *server.MCPServer) error

	// Shutdown gracefully shuts down the transport and cleans up resources.
	Shutdown(ctx context.Context) error

	// Type returns the transport type name for logging and diagnostics.
	Type() string
}

// StdioTransport serves the MCP protocol over standard input/output.
// Logs must go to stderr to avoid corrupting the protocol stream.
type StdioTransport struct{}

// Start serves the MCP protocol over stdin/stdout. Blocks until the client
// disconnects.
func (s *StdioTransport) Start(ctx context.Context, mcpServer *server.MCPServer) error {
	return server.ServeStdio(mcpServer)
}

// Shutdown is a no-op for STDIO; stdin/stdout are closed with the process.
func (s *StdioTransport) Shutdown(ctx context.Context) error {
	return nil
}

// Type returns "stdio".
func (s *StdioTransport) Type() string {
	return "stdio"
}

// SSETransport serves the MCP protocol over HTTP with Server-Sent Events.
type SSETransport struct {
	address string
	server  *server.SSEServer
}

// Start binds an SSE server to the configured address. Blocks until the
// server stops.
func (s *SSETransport) Start(ctx context.Context, mcpServer *server.MCPServer) error {
	s.server = server.NewSSEServer(mcpServer)
	return s.server.Start(s.address)
}

// Shutdown stops the HTTP server and closes active client connections.
func (s *SSETransport) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Type returns "sse".
func (s *SSETransport) Type() string {
	return "sse"
}

// StreamableHTTPTransport serves the MCP protocol over streamable HTTP.
type StreamableHTTPTransport struct {
	address string
	server  *server.StreamableHTTPServer
}

// Start binds a StreamableHTTP server to the configured address. Blocks
// until the server stops.
func (s *StreamableHTTPTransport) Start(ctx context.Context, mcpServer *server.MCPServer) error {
	s.server = server.NewStreamableHTTPServer(mcpServer)
	return s.server.Start(s.address)
}

// Shutdown stops the HTTP server and closes active client connections.
func (s *StreamableHTTPTransport) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Type returns "streamablehttp".
func (s *StreamableHTTPTransport) Type() string {
	return "streamablehttp"
}

// NewTransport creates the appropriate transport based on configuration.
// Network transports require a configured port.
func NewTransport(cfg transportConfig, logger *slog.Logger) (TransportStarter, error) {
	switch cfg.GetTransportType() {
	case "stdio":
		return &StdioTransport{}, nil
	case "sse":
		if cfg.GetPort() == 0 {
			return nil, fmt.Errorf("port must be configured for SSE transport")
		}
		return &SSETransport{
			address: cfg.GetTransportAddress(),
		}, nil
	case "streamablehttp":
		if cfg.GetPort() == 0 {
			return nil, fmt.Errorf("port must be configured for StreamableHTTP transport")
		}
		return &StreamableHTTPTransport{
			address: cfg.GetTransportAddress(),
		}, nil
	default:
		return nil, fmt.Errorf("unsupported transport type: %s (must be one of: stdio, sse, streamablehttp)", cfg.GetTransportType())
	}
}

// transportConfig is the configuration surface NewTransport needs. Using an
// interface keeps it testable with mock configs.
type transportConfig interface {
	GetTransportType() string
	GetPort() int
	GetTransportAddress() string
}
