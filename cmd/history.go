package cmd

import (
	"fmt"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcanaland/taromancer/internal/config"
	"github.com/arcanaland/taromancer/internal/history"
	"github.com/arcanaland/taromancer/internal/prompt"
)

var historyClear bool

// historyCmd shows or clears a user's saved spreads
var historyCmd = &cobra.Command{
	Use:   "history [user_id]",
	Short: "Show or clear a user's spread history",
	Long: `History prints the saved spreads of a user, newest first. Without a user ID
it lists the users that have a history. Use --clear to delete a user's history.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger := newLogger(cfg, false)
		ctx := runContext(cmd)

		store, kv, err := openHistory(ctx, cfg)
		if err != nil {
			return fmt.Errorf("error opening history: %w", err)
		}
		defer closeQuietly(logger, kv)

		if len(args) == 0 {
			if historyClear {
				return fmt.Errorf("--clear needs a user ID")
			}
			users, err := kv.Scopes(ctx, history.Key)
			if err != nil {
				return err
			}
			if len(users) == 0 {
				fmt.Println("No history saved yet.")
				return nil
			}
			for _, u := range users {
				fmt.Println(u)
			}
			return nil
		}

		userID := args[0]
		if historyClear {
			if err := store.Clear(ctx, userID); err != nil {
				return err
			}
			fmt.Printf("History of %s cleared.\n", userID)
			return nil
		}

		results, err := store.List(ctx, userID)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Printf("No history for %s.\n", userID)
			return nil
		}

		for _, res := range results {
			fmt.Printf("%s %s %s\n",
				colorize.HiBlackString("%s", res.Timestamp.Format("2006-01-02 15:04")),
				colorize.HiMagentaString("%s", prompt.SpreadLabel(string(res.Kind))),
				colorize.HiBlackString("(%s)", res.ID),
			)
			if res.Question != "" {
				fmt.Printf("%s%s\n", indent, res.Question)
			}
			for _, dc := range res.Cards {
				fmt.Printf("%s%s: %s\n", indent+indent, dc.Position.Label, cardTitle(dc.Card, dc.Reversed))
			}
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "delete the user's history")

	RootCmd.AddCommand(historyCmd)
}
