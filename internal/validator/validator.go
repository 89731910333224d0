package validator

import (
	"fmt"
	"strings"

	"github.com/arcanaland/taromancer/internal/card"
	"github.com/arcanaland/taromancer/internal/deck"
	"github.com/arcanaland/taromancer/internal/spread"
)

type ValidationResults struct {
	Errors   []string
	Warnings []string
}

// Validator checks a card catalog and the spread configurations drawn from it
type Validator struct {
	Deck    *deck.Deck
	Spreads []spread.Config
	Results ValidationResults
}

func NewValidator(d *deck.Deck, spreads []spread.Config) *Validator {
	return &Validator{
		Deck:    d,
		Spreads: spreads,
		Results: ValidationResults{},
	}
}

func (v *Validator) Validate() ValidationResults {
	v.validateCount()
	v.validateArcana()
	v.validateMeanings()
	v.validateDispositions()
	v.validateNames()
	v.validateSpreads()

	return v.Results
}

func (v *Validator) errorf(format string, args ...any) {
	v.Results.Errors = append(v.Results.Errors, fmt.Sprintf(format, args...))
}

func (v *Validator) warnf(format string, args ...any) {
	v.Results.Warnings = append(v.Results.Warnings, fmt.Sprintf(format, args...))
}

// validateCount checks the catalog size and ID uniqueness
func (v *Validator) validateCount() {
	if n := v.Deck.Len(); n != deck.Size {
		v.errorf("catalog has %d cards, expected %d", n, deck.Size)
	}

	seen := make(map[string]bool)
	for _, c := range v.Deck.Cards() {
		if seen[c.ID] {
			v.errorf("duplicate card id: %s", c.ID)
		}
		seen[c.ID] = true
	}
}

// validateArcana checks there are 22 major arcana and 14 cards in every suit
func (v *Validator) validateArcana() {
	if n := len(v.Deck.Suit("major")); n != 22 {
		v.errorf("found %d major arcana cards, expected 22", n)
	}
	for _, suit := range card.Suits {
		cards := v.Deck.Suit(suit)
		if len(cards) != len(card.Ranks) {
			v.errorf("found %d cards in %s suit, expected %d", len(cards), suit, len(card.Ranks))
		}
	}
}

// validateMeanings checks every card has text for every topic in both
// orientations, plus advice and a description
func (v *Validator) validateMeanings() {
	for _, c := range v.Deck.Cards() {
		for _, orientation := range []struct {
			name     string
			reversed bool
		}{{"upright", false}, {"reversed", true}} {
			m := c.Meanings(orientation.reversed)
			missing := []string{}
			for _, topic := range card.Topics {
				if _, ok := m.Text(topic); !ok {
					missing = append(missing, string(topic))
				}
			}
			if m.Advice == "" {
				missing = append(missing, "advice")
			}
			if len(missing) > 0 {
				v.errorf("%s: missing %s texts: %s", c.ID, orientation.name, strings.Join(missing, ", "))
			}
		}

		if c.Description == "" {
			v.warnf("%s: no description", c.ID)
		}
	}
}

func (v *Validator) validateDispositions() {
	for _, c := range v.Deck.Cards() {
		if !c.YesNo.Valid() {
			v.errorf("%s: invalid yes_no %q (expected yes, no or maybe)", c.ID, c.YesNo)
		}
	}
}

// validateNames warns about cards that fell back to their English name
func (v *Validator) validateNames() {
	if v.Deck.Locale == "" || v.Deck.Locale == "en" {
		return
	}
	missing := []string{}
	for _, c := range v.Deck.Cards() {
		if c.Name == c.NameEn {
			missing = append(missing, c.ID)
		}
	}
	if len(missing) > 0 {
		v.warnf("no %s name for %d cards: %s", v.Deck.Locale, len(missing), strings.Join(missing, ", "))
	}
}

// validateSpreads checks every spread satisfies its position invariant and fits the deck
func (v *Validator) validateSpreads() {
	seen := make(map[spread.Kind]bool)
	for _, cfg := range v.Spreads {
		if seen[cfg.Kind] {
			v.errorf("duplicate spread type: %s", cfg.Kind)
		}
		seen[cfg.Kind] = true

		if err := cfg.Validate(); err != nil {
			v.errorf("%v", err)
		}
		if cfg.CardCount > v.Deck.Len() {
			v.errorf("spread %s needs %d cards, catalog has %d", cfg.Kind, cfg.CardCount, v.Deck.Len())
		}
	}
}
