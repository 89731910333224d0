// Package meaning turns drawn cards into the stored texts shown to the user.
package meaning

import (
	"github.com/arcanaland/taromancer/internal/card"
	"github.com/arcanaland/taromancer/internal/spread"
)

// MeaningOf returns the card's text for topic in the given orientation. When
// the orientation has no text for topic, its general text is used; the other
// orientation is never consulted.
func MeaningOf(c card.Card, reversed bool, topic card.Topic) string {
	set := c.Meanings(reversed)
	if text, ok := set.Text(topic); ok {
		return text
	}
	return set.General
}

// AdviceOf returns the card's advice in the given orientation
func AdviceOf(c card.Card, reversed bool) string {
	return c.Meanings(reversed).Advice
}

// Category classifies a yes/no answer
type Category string

const (
	CategoryYes           Category = "yes"
	CategoryNo            Category = "no"
	CategoryMaybe         Category = "maybe"
	CategoryProbablyNot   Category = "probably-not"
	CategoryPossiblyYes   Category = "possibly-yes"
	CategoryIndeterminate Category = "indeterminate"
)

// Family collapses the hedged categories of an undecided card into maybe
func (c Category) Family() Category {
	if c == CategoryIndeterminate {
		return CategoryMaybe
	}
	return c
}

// Answer is the result of a yes/no reading
type Answer struct {
	Category    Category `json:"category"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
}

type answerKey struct {
	disposition card.Disposition
	reversed    bool
}

// Reversal softens yes and no into their hedged opposites and leaves maybe undecided.
var answers = map[answerKey]Answer{
	{card.Yes, false}: {
		Category:    CategoryYes,
		Answer:      "Yes",
		Explanation: "The card gives an affirmative answer. The energy favours what you are asking about.",
	},
	{card.No, false}: {
		Category:    CategoryNo,
		Answer:      "No",
		Explanation: "The card suggests this is not the right time. Consider changing your approach or waiting.",
	},
	{card.Maybe, false}: {
		Category:    CategoryMaybe,
		Answer:      "Maybe",
		Explanation: "The answer depends on circumstances and on your choices. The card asks you to pay close attention to the details.",
	},
	{card.Yes, true}: {
		Category:    CategoryProbablyNot,
		Answer:      "Probably not",
		Explanation: "Reversed, the card points to obstacles. What you are asking about may not come about, or will take considerable effort.",
	},
	{card.No, true}: {
		Category:    CategoryPossiblyYes,
		Answer:      "Possibly yes",
		Explanation: "Reversed, the card softens its negative meaning. There is a chance, but the situation will ask you to work on yourself.",
	},
	{card.Maybe, true}: {
		Category:    CategoryIndeterminate,
		Answer:      "Uncertain",
		Explanation: "The answer rests entirely on your actions. This is not a time for clear-cut answers; listen to your intuition.",
	},
}

// YesNoAnswer maps the card's disposition and orientation to an answer. A card
// with an unrecognised disposition reads as maybe.
func YesNoAnswer(c card.Card, reversed bool) Answer {
	if a, ok := answers[answerKey{c.YesNo, reversed}]; ok {
		return a
	}
	return answers[answerKey{card.Maybe, reversed}]
}

// Reading is one drawn card together with the texts that apply to it
type Reading struct {
	Position spread.Position `json:"position"`
	Card     card.Card       `json:"card"`
	Reversed bool            `json:"isReversed"`
	Meaning  string          `json:"meaning"`
	Advice   string          `json:"advice"`
	YesNo    *Answer         `json:"yesNo,omitempty"`
}

// Describe builds a Reading for every card of res, in position order. Yes/no
// spreads also carry the answer.
func Describe(res spread.Result) []Reading {
	out := make([]Reading, 0, len(res.Cards))
	for _, dc := range res.Cards {
		r := Reading{
			Position: dc.Position,
			Card:     dc.Card,
			Reversed: dc.Reversed,
			Meaning:  MeaningOf(dc.Card, dc.Reversed, res.Topic),
			Advice:   AdviceOf(dc.Card, dc.Reversed),
		}
		if res.Kind == spread.YesNo {
			a := YesNoAnswer(dc.Card, dc.Reversed)
			r.YesNo = &a
		}
		out = append(out, r)
	}
	return out
}
