// ONES Wiki MCP Server
//
// This is the main entry point for the ONES Wiki MCP Server. It provides
// LLMs with access to ONES Wiki page content through the Model Context
// Protocol (MCP).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ones-wiki/ones-wiki-mcp-server/internal/config"
	"github.com/ones-wiki/ones-wiki-mcp-server/internal/logger"
	"github.com/ones-wiki/ones-wiki-mcp-server/internal/server"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	configFile  string
	logLevel    string
	transport   string
	port        int
	showVersion bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ones-wiki-mcp-server",
		Short: "ONES Wiki MCP Server",
		Long: `ONES Wiki MCP Server provides LLMs with access to ONES Wiki page
content through the Model Context Protocol (MCP).

The server exposes one tool:
  - get_wiki_content: Retrieve a wiki page by URL and convert it to
    AI-friendly text

Credentials for the ONES instance are read from ONES_HOST, ONES_EMAIL, and
ONES_PASSWORD (a local .env file is honored). Login happens lazily on the
first tool invocation and the session is reused across calls.`,
		RunE: runServer,
	}

	rootCmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to configuration file (optional)")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "", "Log level (debug, info, warn, error)")
	rootCmd.Flags().StringVarP(&transport, "transport", "t", "", "Transport type (stdio, sse, streamablehttp)")
	rootCmd.Flags().IntVarP(&port, "port", "p", 0, "Port for network transports")
	rootCmd.Flags().BoolVarP(&showVersion, "version", "v", false, "Show version information")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	if showVersion {
		fmt.Printf("ONES Wiki MCP Server\n")
		fmt.Printf("Version: %s\n", version)
		fmt.Printf("Commit:  %s\n", commit)
		fmt.Printf("Built:   %s\n", date)
		return nil
	}

	// Pick up a local .env before resolving configuration; absence is fine.
	_ = godotenv.Load()

	var cfg *config.Config
	var err error

	if configFile != "" {
		cfg, err = config.LoadFromFile(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration from file: %w", err)
		}
	} else {
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
	}

	// Flags take precedence over file and environment values.
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if transport != "" {
		cfg.Transport = transport
	}
	if port != 0 {
		cfg.TransportPort = port
	}

	log, err := logger.NewLogger(cfg.LogLevel, os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	log.Info("Starting ONES Wiki MCP Server",
		"version", version,
		"commit", commit,
		"date", date)

	srv, err := server.NewServer(cfg, log)
	if err != nil {
		log.Error("Failed to create server", "error", err)
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.RegisterTools(); err != nil {
			errChan <- fmt.Errorf("tool registration failed: %w", err)
			return
		}

		log.Info("Server ready, starting MCP server")

		if err := srv.Start(ctx); err != nil {
			errChan <- fmt.Errorf("server error: %w", err)
			return
		}

		errChan <- nil
	}()

	select {
	case err := <-errChan:
		if err != nil {
			log.Error("Server error", "error", err)
			return err
		}
		log.Info("Server stopped normally")
		return nil

	case sig := <-sigChan:
		log.Info("Received shutdown signal", "signal", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Error during shutdown", "error", err)
			return fmt.Errorf("shutdown error: %w", err)
		}

		log.Info("Server shutdown complete")
		return nil
	}
}
