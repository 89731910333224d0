package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	colorize "github.com/fatih/color"
	"golang.org/x/term"

	"github.com/arcanaland/taromancer/internal/card"
	"github.com/arcanaland/taromancer/internal/meaning"
	"github.com/arcanaland/taromancer/internal/prompt"
	"github.com/arcanaland/taromancer/internal/spread"
)

const indent = "  "

func getSuitSymbol(suit string) string {
	switch suit {
	case "wands":
		return ""
	case "cups":
		return ""
	case "swords":
		return "󰞇"
	case "pentacles":
		return "󱙧"
	default:
		return "•"
	}
}

// getArcanaSymbol returns a symbol for the arcana type
func getArcanaSymbol(isMinor bool) string {
	if isMinor {
		return "󱀝"
	}
	return ""
}

// terminalWidth returns the width available for wrapped text
func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		width = 80
	}
	return min(width, 100)
}

// wrapText wraps text to a specified width
func wrapText(text string, width int) []string {
	if width < 10 {
		width = 40
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var result []string
	var line []rune
	for _, word := range words {
		w := []rune(word)
		switch {
		case len(line) == 0:
			line = w
		case len(line)+1+len(w) <= width:
			line = append(append(line, ' '), w...)
		default:
			result = append(result, string(line))
			line = w
		}
	}
	if len(line) > 0 {
		result = append(result, string(line))
	}
	return result
}

// printWrapped writes text wrapped under a label
func printWrapped(w io.Writer, label, text string, width int) {
	if text == "" {
		return
	}
	fmt.Fprintln(w, indent+colorize.CyanString(label))
	for _, line := range wrapText(text, width-2*len(indent)) {
		fmt.Fprintln(w, indent+indent+line)
	}
}

// cardTitle renders a card's name with its arcana and suit symbols
func cardTitle(c card.Card, reversed bool) string {
	symbol := getArcanaSymbol(c.IsMinor())
	if c.IsMinor() {
		symbol += " " + getSuitSymbol(c.Suit)
	}

	title := colorize.HiWhiteString("%s", c.Name)
	if c.NameEn != "" && c.NameEn != c.Name {
		title += colorize.WhiteString(" / %s", c.NameEn)
	}
	if reversed {
		title += colorize.RedString(" (reversed)")
	}
	return symbol + " " + title
}

// printReading writes a drawn spread with the stored texts of every card
func printReading(w io.Writer, res spread.Result, readings []meaning.Reading) {
	width := terminalWidth()

	header := prompt.SpreadLabel(string(res.Kind))
	fmt.Fprintln(w)
	fmt.Fprintln(w, colorize.HiMagentaString("%s", header)+colorize.WhiteString(" · %s", prompt.TopicLabel(string(res.Topic))))
	if res.Question != "" {
		fmt.Fprintln(w, colorize.CyanString("Question: ")+res.Question)
	}
	fmt.Fprintln(w, colorize.HiBlackString("%s · %s", res.ID, res.Timestamp.Format("2006-01-02 15:04")))

	for _, r := range readings {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s %s\n", colorize.YellowString("%d. %s", r.Position.Index+1, r.Position.Label), cardTitle(r.Card, r.Reversed))
		if r.Position.Description != "" {
			fmt.Fprintln(w, indent+colorize.HiBlackString("%s", r.Position.Description))
		}
		printWrapped(w, "Meaning:", r.Meaning, width)
		printWrapped(w, "Advice:", r.Advice, width)
		if r.YesNo != nil {
			fmt.Fprintln(w, indent+colorize.CyanString("Answer: ")+answerColor(r.YesNo.Category).Sprint(r.YesNo.Answer))
			printWrapped(w, "Why:", r.YesNo.Explanation, width)
		}
	}
	fmt.Fprintln(w)
}

func answerColor(c meaning.Category) *colorize.Color {
	switch c.Family() {
	case meaning.CategoryYes:
		return colorize.New(colorize.FgHiGreen, colorize.Bold)
	case meaning.CategoryPossiblyYes:
		return colorize.New(colorize.FgGreen)
	case meaning.CategoryNo:
		return colorize.New(colorize.FgHiRed, colorize.Bold)
	case meaning.CategoryProbablyNot:
		return colorize.New(colorize.FgRed)
	default:
		return colorize.New(colorize.FgHiYellow, colorize.Bold)
	}
}
