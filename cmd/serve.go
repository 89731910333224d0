package cmd

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/arcanaland/taromancer/internal/app"
	"github.com/arcanaland/taromancer/internal/config"
	"github.com/arcanaland/taromancer/internal/llm"
	"github.com/arcanaland/taromancer/internal/metrics"
	"github.com/arcanaland/taromancer/internal/server"
	"github.com/arcanaland/taromancer/internal/spread"
)

var serveNoHistory bool

// serveCmd starts the HTTP API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Serve starts the HTTP API used by the Mini App: spread catalog, draws,
interpretations, history and Telegram initData validation. Prometheus metrics
are exposed on /metrics.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger := newLogger(cfg, true)

		ctx, stop := signal.NotifyContext(runContext(cmd), os.Interrupt, syscall.SIGTERM)
		defer stop()

		d, err := loadDeck(cfg)
		if err != nil {
			return fmt.Errorf("error loading cards: %w", err)
		}

		collector := metrics.NewCollector()
		client := llm.NewClient(&http.Client{}, llm.Config{
			BaseURL: cfg.LLM.BaseURL,
			APIKey:  cfg.LLM.APIKey,
			Model:   cfg.LLM.Model,
			Timeout: cfg.LLM.Timeout,
		}, logger)

		var hist app.HistoryStore
		if !serveNoHistory {
			store, kv, err := openHistory(ctx, cfg)
			if err != nil {
				return fmt.Errorf("error opening history: %w", err)
			}
			defer closeQuietly(logger, kv)
			hist = store
		}

		svc := app.NewService(spread.NewEngine(d, spread.NewRNG()), client, hist, collector, logger)
		h := server.NewHandler(svc, d, client, cfg.BotToken, logger)
		srv := server.New(cfg.HTTPAddr, h, collector.Registry(), logger)

		if cfg.BotToken == "" {
			logger.Warn("bot_token is not set; /api/validate is unavailable and answers 503")
		}
		logger.Info("starting server",
			"addr", cfg.HTTPAddr,
			"locale", d.Locale,
			"llm_base_url", cfg.LLM.BaseURL,
			"llm_model", cfg.LLM.Model,
			"history", !serveNoHistory,
		)

		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().StringP("addr", "a", "", "listen address (overrides http_addr)")
	serveCmd.Flags().BoolVar(&serveNoHistory, "no-history", false, "disable the history store")
	bindFlag(serveCmd, "addr", "http_addr")

	RootCmd.AddCommand(serveCmd)
}
