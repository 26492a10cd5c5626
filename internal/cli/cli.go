// Package cli wires the command surface: authentication commands, the
// interactive chat view and the admin catalog views. Protected commands gate
// on the session store before any network call is made.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"TopicChat/internal/config"
	"TopicChat/internal/gateway"
	"TopicChat/internal/session"
	"TopicChat/internal/telemetry"
)

var (
	version = "dev"
	commit  = "unknown"
)

// app holds everything a command needs, constructed once per invocation in
// the root command's pre-run and torn down in its post-run.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	store   *session.Store
	storage *session.SQLiteStorage
	client  *gateway.Client
	cleanup func()
}

var current *app

var rootCmd = &cobra.Command{
	Use:     "topicchat",
	Short:   "Terminal client for the TopicChat question-answering service",
	Long: `TopicChat lets you pick a topic, open a chat bound to it and exchange
question/answer turns with the backend. Admin accounts manage the global
catalog of users, topics and chats instead.`,
	Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		a, err := newApp(cmd.Context(), configPath)
		if err != nil {
			return err
		}
		current = a
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if current != nil {
			current.close()
		}
	},
}

// Execute runs the command tree. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file path (default is <data-dir>/config.toml)")
}

func newApp(ctx context.Context, configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	logger, err := telemetry.InitLogger(cfg.DataDir, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	tracer, meter, cleanup, err := telemetry.InitTelemetry(ctx, cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	storage, err := session.OpenSQLiteStorage(cfg.DatabasePath())
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("failed to open client database: %w", err)
	}

	store := session.NewStore(storage, logger)
	client := gateway.NewClient(cfg.ServerURL, cfg.Timeout(), store, logger, tracer, meter)

	if cfg.Debug {
		logger.Info("Debug mode enabled")
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		storage: storage,
		client:  client,
		cleanup: cleanup,
	}, nil
}

func (a *app) close() {
	if a.cleanup != nil {
		a.cleanup()
	}
	if a.storage != nil {
		if err := a.storage.Close(); err != nil {
			a.logger.Error("failed to close client database", "error", err)
		}
	}
}

// confirm asks a yes/no question, defaulting to no
func confirm(message string) bool {
	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Printf("%s [y/N]: ", message)
		line, err := reader.ReadString('\n')
		if err != nil {
			return false
		}

		switch strings.TrimSpace(strings.ToLower(line)) {
		case "y", "yes":
			return true
		case "n", "no", "":
			return false
		default:
			fmt.Println("Please enter 'y' or 'n'.")
		}
	}
}
