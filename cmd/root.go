package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/arcanaland/taromancer/internal/config"
	"github.com/arcanaland/taromancer/internal/deck"
	"github.com/arcanaland/taromancer/internal/history"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "taromancer",
	Short: "Tarot readings with language model interpretations",
	Long: `Taromancer draws tarot spreads, shows card meanings and asks a language model
for an interpretation. It also serves the HTTP API used by the Telegram Mini App.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().String("config", "", "config file (default $XDG_CONFIG_HOME/taromancer/config.toml)")
	RootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	_ = viper.BindPFlag("log_level", RootCmd.PersistentFlags().Lookup("log-level"))

	RootCmd.AddCommand(validateCmd)
}

func initConfig() {
	cfgFile, _ := RootCmd.PersistentFlags().GetString("config")
	if err := config.Init(cfgFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return RootCmd.Execute()
}

// newLogger builds the process logger. serve logs JSON to stdout; other
// commands log text to stderr so it does not mix with their output.
func newLogger(cfg config.Config, jsonOutput bool) *slog.Logger {
	level, _ := config.ParseLogLevel(cfg.LogLevel)
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if jsonOutput {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stderr, opts)
	}
	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

func loadDeck(cfg config.Config) (*deck.Deck, error) {
	if cfg.Locale == "" || cfg.Locale == deck.DefaultLocale {
		return deck.Default()
	}
	return deck.LoadLocale(cfg.Locale)
}

// openHistory opens the configured history database
func openHistory(ctx context.Context, cfg config.Config) (*history.Store, *history.SQLiteKV, error) {
	if cfg.History.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.History.Path), 0755); err != nil {
			return nil, nil, fmt.Errorf("error creating history directory: %w", err)
		}
	}
	kv, err := history.OpenSQLite(ctx, cfg.History.Path)
	if err != nil {
		return nil, nil, err
	}
	store, err := history.NewStore(kv, cfg.History.CacheSize)
	if err != nil {
		kv.Close()
		return nil, nil, err
	}
	return store, kv, nil
}

// closeQuietly closes c, logging any error
func closeQuietly(logger *slog.Logger, c io.Closer) {
	if err := c.Close(); err != nil {
		logger.Warn("close failed", "error", err)
	}
}

// bindFlag binds a command flag to a config key
func bindFlag(cmd *cobra.Command, flag, key string) {
	if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
		panic(err)
	}
}

// runContext returns the command context or a background one
func runContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
