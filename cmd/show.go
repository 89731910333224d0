package cmd

import (
	"fmt"
	"io"
	"os"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcanaland/taromancer/internal/card"
	"github.com/arcanaland/taromancer/internal/config"
	"github.com/arcanaland/taromancer/internal/meaning"
	"github.com/arcanaland/taromancer/internal/spread"
)

var showCmd = &cobra.Command{
	Use:   "show [card_id]",
	Short: "Display the meanings of a specific card",
	Long: `Show displays a tarot card with its meanings for every topic, upright and
reversed, together with its advice and yes/no answer.
Use canonical card IDs like 'major_arcana.00' or 'minor_arcana.wands.ace'.

Examples:
  taromancer show major_arcana.00
  taromancer show --reversed minor_arcana.cups.three
  taromancer show --topic love major_arcana.06`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		d, err := loadDeck(cfg)
		if err != nil {
			return fmt.Errorf("error loading cards: %w", err)
		}

		c, err := d.GetCard(args[0])
		if err != nil {
			return fmt.Errorf("error getting card: %w", err)
		}

		upright, _ := cmd.Flags().GetBool("upright")
		reversed, _ := cmd.Flags().GetBool("reversed")
		topicFlag, _ := cmd.Flags().GetString("topic")

		topics := card.Topics
		if topicFlag != "" {
			topic, err := spread.ParseTopic(topicFlag)
			if err != nil {
				return err
			}
			topics = []card.Topic{topic}
		}

		orientations := []bool{false, true}
		switch {
		case upright && !reversed:
			orientations = []bool{false}
		case reversed && !upright:
			orientations = []bool{true}
		}

		displayCard(os.Stdout, c, topics, orientations)
		return nil
	},
}

func init() {
	showCmd.Flags().BoolP("upright", "u", false, "show only the upright meanings")
	showCmd.Flags().BoolP("reversed", "r", false, "show only the reversed meanings")
	showCmd.Flags().StringP("topic", "t", "", "show only one topic (general, love, career, finances)")

	RootCmd.AddCommand(showCmd)
}

// displayCard displays the card information and its meanings
func displayCard(w io.Writer, c card.Card, topics []card.Topic, orientations []bool) {
	width := terminalWidth()

	var infoLines []string
	infoLines = append(infoLines, colorize.CyanString("Card: ")+colorize.HiWhiteString("%s", c.Name))
	if c.NameEn != c.Name {
		infoLines = append(infoLines, colorize.CyanString("Name: ")+colorize.HiWhiteString("%s", c.NameEn))
	}
	infoLines = append(infoLines, colorize.CyanString("ID:   ")+colorize.HiWhiteString("%s", c.ID))

	if c.IsMinor() {
		infoLines = append(infoLines, colorize.CyanString("Type: ")+
			colorize.HiWhiteString("Minor Arcana · %s", getArcanaSymbol(true)))
		infoLines = append(infoLines, colorize.CyanString("Suit: ")+
			colorize.HiWhiteString("%s · %s", c.Suit, getSuitSymbol(c.Suit)))
		infoLines = append(infoLines, colorize.CyanString("Rank: ")+colorize.HiWhiteString("%s", c.Rank))
	} else {
		infoLines = append(infoLines, colorize.CyanString("Type: ")+
			colorize.HiWhiteString("Major Arcana · %s", getArcanaSymbol(false)))
	}
	if c.Element != "" {
		infoLines = append(infoLines, colorize.CyanString("Element: ")+colorize.HiWhiteString("%s", c.Element))
	}
	if c.Planet != "" {
		infoLines = append(infoLines, colorize.CyanString("Planet:  ")+colorize.HiWhiteString("%s", c.Planet))
	}

	fmt.Fprintln(w)
	for _, line := range infoLines {
		fmt.Fprintln(w, indent+line)
	}
	if c.Description != "" {
		fmt.Fprintln(w)
		printWrapped(w, "Description:", c.Description, width)
	}

	for _, reversed := range orientations {
		heading := colorize.New(colorize.FgHiGreen, colorize.Bold).Sprint("Upright")
		if reversed {
			heading = colorize.New(colorize.FgHiRed, colorize.Bold).Sprint("Reversed")
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, indent+heading)

		for _, topic := range topics {
			label := fmt.Sprintf("%s:", topic)
			printWrapped(w, label, meaning.MeaningOf(c, reversed, topic), width)
		}
		printWrapped(w, "advice:", meaning.AdviceOf(c, reversed), width)

		a := meaning.YesNoAnswer(c, reversed)
		fmt.Fprintln(w, indent+colorize.CyanString("yes/no: ")+answerColor(a.Category).Sprint(a.Answer))
	}
	fmt.Fprintln(w)
}
