package card

import "fmt"

// Arcana values
const (
	MajorArcana = "major_arcana"
	MinorArcana = "minor_arcana"
)

// Suits of the minor arcana, in catalog order
var Suits = []string{"wands", "cups", "swords", "pentacles"}

// Ranks of the minor arcana, in catalog order
var Ranks = []string{
	"ace", "two", "three", "four", "five", "six", "seven", "eight", "nine", "ten",
	"page", "knight", "queen", "king",
}

// Topic is the subject of a question, used as a lookup key into meanings
type Topic string

const (
	TopicGeneral  Topic = "general"
	TopicLove     Topic = "love"
	TopicCareer   Topic = "career"
	TopicFinances Topic = "finances"
)

// Topics lists every topic in display order
var Topics = []Topic{TopicGeneral, TopicLove, TopicCareer, TopicFinances}

// Disposition is a card's fixed yes/no leaning
type Disposition string

const (
	Yes   Disposition = "yes"
	No    Disposition = "no"
	Maybe Disposition = "maybe"
)

// Valid reports whether d is one of the three dispositions
func (d Disposition) Valid() bool {
	switch d {
	case Yes, No, Maybe:
		return true
	}
	return false
}

// Meaning is the text of one orientation of a card
type Meaning struct {
	General  string `toml:"general" json:"general"`
	Love     string `toml:"love" json:"love"`
	Career   string `toml:"career" json:"career"`
	Finances string `toml:"finances" json:"finances"`
	Advice   string `toml:"advice" json:"advice"`
}

// Text returns the text stored for topic. ok is false for unknown topics and
// for topics with no text.
func (m Meaning) Text(topic Topic) (string, bool) {
	var s string
	switch topic {
	case TopicGeneral:
		s = m.General
	case TopicLove:
		s = m.Love
	case TopicCareer:
		s = m.Career
	case TopicFinances:
		s = m.Finances
	}
	return s, s != ""
}

// Card represents a tarot card
type Card struct {
	ID          string      `json:"id"`             // Canonical ID (e.g., major_arcana.00, minor_arcana.wands.ace)
	Name        string      `json:"name"`           // Localized name
	NameEn      string      `json:"nameEn"`         // Reference (English) name
	Arcana      string      `json:"arcana"`         // major_arcana or minor_arcana
	Suit        string      `json:"suit,omitempty"` // For minor arcana (wands, cups, swords, pentacles)
	Rank        string      `json:"rank,omitempty"` // For minor arcana (ace, two, ..., king)
	Number      int         `json:"number"`         // 0-21 for major arcana, 1-14 within a suit
	Image       string      `json:"image"`
	Description string      `json:"description"`
	Upright     Meaning     `json:"upright"`
	Reversed    Meaning     `json:"reversed"`
	YesNo       Disposition `json:"yesNo"`
	Element     string      `json:"element,omitempty"`
	Planet      string      `json:"planet,omitempty"`
}

// IsMinor reports whether the card belongs to the minor arcana
func (c Card) IsMinor() bool {
	return c.Arcana == MinorArcana
}

// Meanings returns the meaning set for the given orientation
func (c Card) Meanings(reversed bool) Meaning {
	if reversed {
		return c.Reversed
	}
	return c.Upright
}

// MajorID builds the canonical ID of a major arcana card
func MajorID(number int) string {
	return fmt.Sprintf("%s.%02d", MajorArcana, number)
}

// MinorID builds the canonical ID of a minor arcana card
func MinorID(suit, rank string) string {
	return fmt.Sprintf("%s.%s.%s", MinorArcana, suit, rank)
}

// RankNumber returns the 1-based ordinal of rank within a suit, or 0
func RankNumber(rank string) int {
	for i, r := range Ranks {
		if r == rank {
			return i + 1
		}
	}
	return 0
}
