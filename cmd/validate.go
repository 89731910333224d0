package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arcanaland/taromancer/internal/config"
	"github.com/arcanaland/taromancer/internal/deck"
	"github.com/arcanaland/taromancer/internal/spread"
	"github.com/arcanaland/taromancer/internal/validator"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate [meanings.toml]",
	Short: "Validate the card catalog and spreads",
	Long: `Validate checks the card catalog: 78 unique cards, 22 major arcana and 14 cards
per suit, meanings for every topic in both orientations, yes/no leanings and
local names. It also checks every spread configuration.

Without arguments the built-in catalog is checked. Pass a meanings file (and
optionally --names) to check a catalog before it is embedded.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			d     *deck.Deck
			label string
			err   error
		)

		if len(args) == 1 {
			label = args[0]
			d, err = loadCatalogFiles(args[0], cmd)
		} else {
			var cfg config.Config
			cfg, err = config.Load()
			if err != nil {
				return err
			}
			label = "built-in (" + cfg.Locale + ")"
			d, err = loadDeck(cfg)
		}
		if err != nil {
			return fmt.Errorf("error loading catalog: %w", err)
		}

		results := validator.NewValidator(d, spread.All()).Validate()

		fmt.Println("Validation Results:")
		fmt.Println("-------------------")

		if len(results.Errors) == 0 {
			fmt.Printf("✅ Catalog '%s' is valid.\n", label)
		} else {
			fmt.Printf("❌ Catalog '%s' has %d validation errors:\n", label, len(results.Errors))
			for i, err := range results.Errors {
				fmt.Printf("%d. %s\n", i+1, err)
			}
			return fmt.Errorf("validation failed")
		}

		if len(results.Warnings) > 0 {
			fmt.Println("\nWarnings:")
			for i, warn := range results.Warnings {
				fmt.Printf("%d. %s\n", i+1, warn)
			}
		}

		return nil
	},
}

func init() {
	validateCmd.Flags().StringP("names", "n", "", "names TOML file to check with the meanings file")
	validateCmd.Flags().StringP("locale", "l", "", "locale of the names file")
}

// loadCatalogFiles builds a catalog from a meanings file and the --names file
func loadCatalogFiles(meaningsPath string, cmd *cobra.Command) (*deck.Deck, error) {
	meanings, err := os.ReadFile(meaningsPath)
	if err != nil {
		return nil, err
	}

	var names []byte
	if namesPath, _ := cmd.Flags().GetString("names"); namesPath != "" {
		if names, err = os.ReadFile(namesPath); err != nil {
			return nil, err
		}
	}

	d, err := deck.Load(meanings, names)
	if err != nil {
		return nil, err
	}
	d.Locale, _ = cmd.Flags().GetString("locale")
	return d, nil
}
