package spread

import (
	"errors"
	"fmt"

	"github.com/arcanaland/taromancer/internal/card"
)

var (
	ErrUnknownSpread = errors.New("unknown spread type")
	ErrUnknownTopic  = errors.New("unknown topic")
	ErrInvalidConfig = errors.New("invalid spread configuration")
	ErrTooManyCards  = errors.New("spread card count exceeds deck size")
)

// Kind identifies a spread configuration
type Kind string

const (
	Daily      Kind = "daily"
	ThreeCards Kind = "three-cards"
	YesNo      Kind = "yes-no"
)

// Position is one slot of a spread
type Position struct {
	Index       int    `json:"index"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// Config describes a spread: how many cards are drawn and where they go
type Config struct {
	Kind        Kind       `json:"type"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	CardCount   int        `json:"cardCount"`
	Positions   []Position `json:"positions"`
	Free        bool       `json:"isFree"`
}

// Validate checks that positions match the card count and are indexed 0..N-1
func (c Config) Validate() error {
	if c.CardCount < 1 {
		return fmt.Errorf("%w: %s: card count %d", ErrInvalidConfig, c.Kind, c.CardCount)
	}
	if len(c.Positions) != c.CardCount {
		return fmt.Errorf("%w: %s: %d positions for %d cards", ErrInvalidConfig, c.Kind, len(c.Positions), c.CardCount)
	}
	for i, p := range c.Positions {
		if p.Index != i {
			return fmt.Errorf("%w: %s: position %d has index %d", ErrInvalidConfig, c.Kind, i, p.Index)
		}
	}
	return nil
}

var catalog = []Config{
	{
		Kind:        Daily,
		Name:        "Card of the Day",
		Description: "One card that sets the tone of your day and shows what to pay attention to.",
		CardCount:   1,
		Positions: []Position{
			{Index: 0, Label: "Card of the Day", Description: "The energy and message of today"},
		},
		Free: true,
	},
	{
		Kind:        ThreeCards,
		Name:        "Three Cards",
		Description: "The classic Past, Present and Future spread. Shows how a situation develops.",
		CardCount:   3,
		Positions: []Position{
			{Index: 0, Label: "Past", Description: "What led to the current situation, the roots of the question"},
			{Index: 1, Label: "Present", Description: "The current state of affairs, the energy of the moment"},
			{Index: 2, Label: "Future", Description: "Where the situation is heading, the likely development"},
		},
		Free: true,
	},
	{
		Kind:        YesNo,
		Name:        "Yes or No",
		Description: "A quick answer to a specific question. Phrase it so it can be answered with yes or no.",
		CardCount:   1,
		Positions: []Position{
			{Index: 0, Label: "Answer", Description: "A direct answer to your question"},
		},
		Free: true,
	},
}

// All returns every spread configuration in display order
func All() []Config {
	out := make([]Config, len(catalog))
	for i, c := range catalog {
		out[i] = c.clone()
	}
	return out
}

// Lookup returns the configuration for kind
func Lookup(kind Kind) (Config, error) {
	for _, c := range catalog {
		if c.Kind == kind {
			return c.clone(), nil
		}
	}
	return Config{}, fmt.Errorf("%w: %q", ErrUnknownSpread, kind)
}

func (c Config) clone() Config {
	c.Positions = append([]Position(nil), c.Positions...)
	return c
}

// TopicOption is a selectable topic with its display label
type TopicOption struct {
	Value card.Topic `json:"value"`
	Label string     `json:"label"`
}

// Topics lists the selectable topics in display order
func Topics() []TopicOption {
	return []TopicOption{
		{Value: card.TopicGeneral, Label: "General question"},
		{Value: card.TopicLove, Label: "Love and relationships"},
		{Value: card.TopicCareer, Label: "Career and work"},
		{Value: card.TopicFinances, Label: "Finances"},
	}
}

// ParseTopic converts s into a Topic. An empty string selects the general topic.
func ParseTopic(s string) (card.Topic, error) {
	if s == "" {
		return card.TopicGeneral, nil
	}
	for _, t := range card.Topics {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTopic, s)
}
