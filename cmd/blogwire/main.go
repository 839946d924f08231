// Package main provides the blogwire binary entry point.
// Blogwire is a command-line client for the blog platform: it manages
// the login session, browses and mutates posts, and follows live
// comment updates.
package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/blogwire/blogwire/api"
	"github.com/blogwire/blogwire/config"
	"github.com/blogwire/blogwire/session"
)

const appName = "blogwire"

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app holds the wired-up client shared by all subcommands.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	client   *api.Client
	sessions *session.Manager
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		apiURL     string
		logLevel   string
	)

	a := &app{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Command-line client for the blog platform",
		Long: `Blogwire is a command-line client for the blog platform.

It manages your login session, creates and edits posts, likes and
comments, and follows live comment updates over the push channel.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(configPath, apiURL, logLevel)
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Platform API base URL")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		loginCmd(a),
		logoutCmd(a),
		registerCmd(a),
		whoamiCmd(a),
		profileCmd(a),
		postsCmd(a),
		postCmd(a),
		watchCmd(a),
		demoCmd(a),
		versionCmd(),
	)

	return cmd
}

// init wires config, logging, the API client and the session manager.
func (a *app) init(configPath, apiURL, logLevel string) error {
	// Local .env overrides are handy in development; a missing file is fine.
	_ = godotenv.Load()

	a.logger = newLogger(logLevel)
	slog.SetDefault(a.logger)

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFromFile(configPath)
	} else {
		cfg, err = config.NewLoader(a.logger).Load()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if apiURL != "" {
		cfg.API.BaseURL = apiURL
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	opts := []api.Option{
		api.WithLogger(a.logger),
		api.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
	}
	if cfg.API.UserAgent != "" {
		opts = append(opts, api.WithUserAgent(cfg.API.UserAgent))
	}
	a.client = api.NewClient(cfg.API.BaseURL, opts...)

	tokens := session.NewTokenFile(cfg.Credentials.Path)
	a.sessions = session.NewManager(a.client, tokens, session.WithLogger(a.logger))

	return nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// Needs no config or client; overrides the root pre-run so a
		// broken config file cannot block it.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, api.Version)
		},
	}
}
