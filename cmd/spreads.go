package cmd

import (
	"fmt"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcanaland/taromancer/internal/spread"
)

var spreadsCmd = &cobra.Command{
	Use:   "spreads",
	Short: "List the available spreads and topics",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, cfg := range spread.All() {
			free := ""
			if cfg.Free {
				free = colorize.GreenString(" [free]")
			}
			fmt.Printf("%s %s%s\n", colorize.HiWhiteString("%-12s", cfg.Kind), cfg.Name, free)
			fmt.Printf("%s%s\n", indent, colorize.HiBlackString("%s", cfg.Description))
			for _, p := range cfg.Positions {
				fmt.Printf("%s%d. %s\n", indent, p.Index+1, p.Label)
			}
			fmt.Println()
		}

		fmt.Println(colorize.CyanString("Topics:"))
		for _, t := range spread.Topics() {
			fmt.Printf("%s%-10s %s\n", indent, t.Value, t.Label)
		}
	},
}

func init() {
	RootCmd.AddCommand(spreadsCmd)
}
