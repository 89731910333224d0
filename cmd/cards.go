package cmd

import (
	"fmt"
	"slices"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcanaland/taromancer/internal/card"
	"github.com/arcanaland/taromancer/internal/config"
)

// cardsCmd lists the card catalog
var cardsCmd = &cobra.Command{
	Use:   "cards",
	Short: "List the cards of the catalog",
	Long: `Cards lists every card in the catalog with its canonical ID, local name and
yes/no leaning. Use --suit to show one suit, or 'major' for the major arcana.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		d, err := loadDeck(cfg)
		if err != nil {
			return fmt.Errorf("error loading cards: %w", err)
		}

		suit, _ := cmd.Flags().GetString("suit")
		cards := d.Cards()
		if suit != "" {
			if suit != "major" && !slices.Contains(card.Suits, suit) {
				return fmt.Errorf("unknown suit %q (expected major, %v)", suit, card.Suits)
			}
			cards = d.Suit(suit)
		}

		for _, c := range cards {
			symbol := getArcanaSymbol(c.IsMinor())
			if c.IsMinor() {
				symbol = getSuitSymbol(c.Suit)
			}
			fmt.Printf("%s %-28s %s %s\n",
				symbol,
				c.ID,
				colorize.HiWhiteString("%s", c.Name),
				colorize.HiBlackString("[%s]", c.YesNo),
			)
		}

		fmt.Printf("\n%d cards (locale %s)\n", len(cards), d.Locale)
		return nil
	},
}

func init() {
	cardsCmd.Flags().StringP("suit", "s", "", "only list one suit (major, wands, cups, swords, pentacles)")

	RootCmd.AddCommand(cardsCmd)
}
