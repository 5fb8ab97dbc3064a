// Package main provides the notesum CLI: the terminal UI, the HTTP backend
// and an MCP tool server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jwulff/notesum/internal/api"
	"github.com/jwulff/notesum/internal/app"
	"github.com/jwulff/notesum/internal/config"
	"github.com/jwulff/notesum/internal/logging"
	"github.com/jwulff/notesum/internal/mailer"
	"github.com/jwulff/notesum/internal/mcpserver"
	"github.com/jwulff/notesum/internal/server"
	"github.com/jwulff/notesum/internal/summarizer"
)

var version = "dev"

// Global flags.
var (
	envFile  string
	apiURL   string
	addrFlag string
)

var rootCmd = &cobra.Command{
	Use:   "notesum",
	Short: "AI meeting notes summarizer",
	Long: `notesum turns meeting transcripts into summaries you can edit and email.

  notesum            open the terminal UI (same as "notesum tui")
  notesum serve      run the HTTP backend
  notesum mcp        expose the backend as MCP tools on stdio`,
	SilenceUsage: true,
	RunE:         runTUI,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the terminal UI",
	RunE:  runTUI,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP backend",
	RunE:  runServe,
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve notesum tools over MCP stdio",
	RunE:  runMCP,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before the environment")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", api.DefaultBaseURL, "backend base URL")
	serveCmd.Flags().StringVar(&addrFlag, "addr", "", "listen address (overrides HOST and PORT)")

	rootCmd.AddCommand(tuiCmd, serveCmd, mcpCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	return config.Load(envFile)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// The terminal belongs to the UI, so logs go to a file.
	logPath := cfg.Log.File
	if logPath == "" {
		logPath = filepath.Join(os.TempDir(), "notesum.log")
	}
	logger, err := logging.New(cfg.Log.Level, logPath)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	client := api.NewClient(apiURL, nil)
	logger.Info("tui.start", zap.String("api", client.BaseURL()))

	p := tea.NewProgram(app.New(ctx, client, logger), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sum, closer, err := summarizer.New(ctx, cfg.Summarizer)
	if err != nil {
		return fmt.Errorf("summarizer: %w", err)
	}
	defer closer.Close()

	if cfg.SMTP.User == "" || cfg.SMTP.Password == "" {
		logger.Warn("email.not_configured", zap.String("hint", "set EMAIL_USER and EMAIL_PASSWORD"))
	}

	srv := server.New(server.Deps{
		Config:     cfg.Server,
		Summarizer: sum,
		Mailer:     mailer.NewSMTP(cfg.SMTP),
		Logger:     logger,
		Metrics:    server.NewMetrics(),
	})

	addr := cfg.Server.Addr()
	if addrFlag != "" {
		addr = addrFlag
	}
	logger.Info("server.config",
		zap.String("environment", cfg.Server.Environment),
		zap.String("provider", cfg.Summarizer.Provider),
		zap.Strings("allowed_origins", cfg.Server.AllowedOrigins),
	)
	return srv.Run(ctx, addr)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// stdout carries the MCP protocol; logs go to stderr or the configured file.
	logger, err := logging.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	client := api.NewClient(apiURL, nil)
	logger.Info("mcp.start", zap.String("api", client.BaseURL()))
	return mcpserver.ServeStdio(mcpserver.New(client, version, logger))
}
