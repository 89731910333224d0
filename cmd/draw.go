package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcanaland/taromancer/internal/app"
	"github.com/arcanaland/taromancer/internal/config"
	"github.com/arcanaland/taromancer/internal/llm"
	"github.com/arcanaland/taromancer/internal/prompt"
	"github.com/arcanaland/taromancer/internal/spread"
)

var (
	drawQuestion  string
	drawTopic     string
	drawSeed      uint64
	drawInterpret bool
	drawUser      string
	drawJSON      bool
)

// drawCmd performs a spread from the command line
var drawCmd = &cobra.Command{
	Use:   "draw [spread_type]",
	Short: "Draw a spread",
	Long: `Draw shuffles the deck and lays out a spread: daily (default), three-cards
or yes-no. Each card is reversed with a probability of 30%.

With --interpret the drawn spread is sent to the configured language model.
With --user the result is appended to that user's history.

Examples:
  taromancer draw
  taromancer draw three-cards -q "Will the move go well?" -t career
  taromancer draw yes-no --seed 42 --interpret`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger := newLogger(cfg, false)
		ctx := runContext(cmd)

		kind := string(spread.Daily)
		if len(args) == 1 {
			kind = args[0]
		}

		d, err := loadDeck(cfg)
		if err != nil {
			return fmt.Errorf("error loading cards: %w", err)
		}

		rng := spread.NewRNG()
		if cmd.Flags().Changed("seed") {
			rng = spread.NewSeededRNG(drawSeed)
		}

		var hist app.HistoryStore
		if drawUser != "" {
			store, kv, err := openHistory(ctx, cfg)
			if err != nil {
				return fmt.Errorf("error opening history: %w", err)
			}
			defer closeQuietly(logger, kv)
			hist = store
		}

		client := llm.NewClient(&http.Client{}, llm.Config{
			BaseURL: cfg.LLM.BaseURL,
			APIKey:  cfg.LLM.APIKey,
			Model:   cfg.LLM.Model,
			Timeout: cfg.LLM.Timeout,
		}, logger)
		svc := app.NewService(spread.NewEngine(d, rng), client, hist, nil, logger)

		reading, err := svc.Draw(ctx, app.DrawRequest{
			Kind:     kind,
			Question: drawQuestion,
			Topic:    drawTopic,
			UserID:   drawUser,
		})
		if err != nil {
			return err
		}

		var interpretation string
		if drawInterpret {
			interpretation, err = svc.Interpret(ctx, prompt.FromResult(reading.Result))
			if err != nil {
				return err
			}
		}

		if drawJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				app.Reading
				Interpretation string `json:"interpretation,omitempty"`
			}{reading, interpretation})
		}

		printReading(os.Stdout, reading.Result, reading.Cards)
		if interpretation != "" {
			fmt.Println(colorize.New(colorize.FgHiMagenta, colorize.Bold).Sprint("Interpretation"))
			for _, line := range wrapText(interpretation, terminalWidth()-len(indent)) {
				fmt.Println(indent + line)
			}
			fmt.Println()
		}
		return nil
	},
}

func init() {
	drawCmd.Flags().StringVarP(&drawQuestion, "question", "q", "", "question to ask the cards")
	drawCmd.Flags().StringVarP(&drawTopic, "topic", "t", "", "topic of the question (general, love, career, finances)")
	drawCmd.Flags().Uint64Var(&drawSeed, "seed", 0, "seed the shuffle for a reproducible draw")
	drawCmd.Flags().BoolVarP(&drawInterpret, "interpret", "i", false, "ask the language model for an interpretation")
	drawCmd.Flags().StringVar(&drawUser, "user", "", "save the draw to this user's history")
	drawCmd.Flags().BoolVar(&drawJSON, "json", false, "print the reading as JSON")

	RootCmd.AddCommand(drawCmd)
}
