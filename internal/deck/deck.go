package deck

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/arcanaland/taromancer/internal/card"
)

// Size is the number of cards in a full tarot deck
const Size = 78

// DefaultLocale is the locale used for local card names when none is configured
const DefaultLocale = "ru"

var ErrCardNotFound = errors.New("card not found")

//go:embed data/meanings.toml data/names/*.toml
var dataFS embed.FS

// Deck is an immutable, ordered card catalog. It is safe for concurrent use.
type Deck struct {
	Locale string

	cards []card.Card
	byID  map[string]int
}

var (
	defaultOnce sync.Once
	defaultDeck *Deck
	defaultErr  error
)

// Default returns the process-wide catalog built from the embedded data in
// the default locale.
func Default() (*Deck, error) {
	defaultOnce.Do(func() {
		defaultDeck, defaultErr = LoadLocale(DefaultLocale)
	})
	return defaultDeck, defaultErr
}

// LoadLocale builds a catalog from the embedded data. Local names are read
// from data/names/<locale>.toml; when that file does not exist English names
// are used.
func LoadLocale(locale string) (*Deck, error) {
	meanings, err := dataFS.ReadFile("data/meanings.toml")
	if err != nil {
		return nil, fmt.Errorf("read embedded meanings: %w", err)
	}

	names, err := dataFS.ReadFile(path.Join("data", "names", locale+".toml"))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read embedded names %s: %w", locale, err)
	}

	d, err := Load(meanings, names)
	if err != nil {
		return nil, err
	}
	d.Locale = locale
	return d, nil
}

// Load builds a catalog from raw meanings and names TOML. names may be empty.
func Load(meaningsTOML, namesTOML []byte) (*Deck, error) {
	var mf MeaningsFile
	if _, err := toml.Decode(string(meaningsTOML), &mf); err != nil {
		return nil, fmt.Errorf("error parsing meanings: %w", err)
	}

	var nc NameConfig
	if len(namesTOML) > 0 {
		if _, err := toml.Decode(string(namesTOML), &nc); err != nil {
			return nil, fmt.Errorf("error parsing names: %w", err)
		}
	}

	cards := skeleton()
	byID := make(map[string]int, len(cards))
	for i := range cards {
		byID[cards[i].ID] = i
	}

	if err := applyMeanings(cards, byID, &mf); err != nil {
		return nil, err
	}
	applyNames(cards, &nc)

	return &Deck{cards: cards, byID: byID}, nil
}

// skeleton creates all 78 cards in canonical order with English names,
// default elements and image paths.
func skeleton() []card.Card {
	cards := make([]card.Card, 0, Size)

	for i := 0; i <= 21; i++ {
		number := fmt.Sprintf("%02d", i)
		cards = append(cards, card.Card{
			ID:     card.MajorID(i),
			NameEn: getDefaultMajorArcanaName(number),
			Arcana: card.MajorArcana,
			Number: i,
			Image:  imagePath(card.MajorArcana, number),
		})
	}

	for _, suit := range card.Suits {
		for _, rank := range card.Ranks {
			cards = append(cards, card.Card{
				ID:      card.MinorID(suit, rank),
				NameEn:  getDefaultMinorArcanaName(rank, suit),
				Arcana:  card.MinorArcana,
				Suit:    suit,
				Rank:    rank,
				Number:  card.RankNumber(rank),
				Image:   imagePath(card.MinorArcana, suit, rank),
				Element: suitElements[suit],
			})
		}
	}

	return cards
}

func applyMeanings(cards []card.Card, byID map[string]int, mf *MeaningsFile) error {
	for num, entry := range mf.MajorArcana {
		idx, ok := byID[card.MajorArcana+"."+num]
		if !ok {
			return fmt.Errorf("unknown major arcana card: %s", num)
		}
		entry.apply(&cards[idx])
	}

	for suit, ranks := range mf.MinorArcana {
		for rank, entry := range ranks {
			idx, ok := byID[card.MinorID(suit, rank)]
			if !ok {
				return fmt.Errorf("unknown minor arcana card: %s.%s", suit, rank)
			}
			entry.apply(&cards[idx])
		}
	}
	return nil
}

// applyNames sets local names, keeping the English name for any card the
// names file does not cover.
func applyNames(cards []card.Card, nc *NameConfig) {
	for i := range cards {
		c := &cards[i]
		var name string
		if c.IsMinor() {
			name = nc.MinorArcana[c.Suit][c.Rank]
		} else {
			name = nc.MajorArcana[fmt.Sprintf("%02d", c.Number)]
		}
		if name == "" {
			name = c.NameEn
		}
		c.Name = name
	}
}

// Len returns the number of cards in the deck
func (d *Deck) Len() int {
	return len(d.cards)
}

// Cards returns a copy of the catalog in canonical order
func (d *Deck) Cards() []card.Card {
	out := make([]card.Card, len(d.cards))
	copy(out, d.cards)
	return out
}

// At returns the card at position i of the canonical order
func (d *Deck) At(i int) card.Card {
	return d.cards[i]
}

// GetCard gets a card by its canonical ID
func (d *Deck) GetCard(cardID string) (card.Card, error) {
	parts := strings.Split(cardID, ".")
	if len(parts) < 2 {
		return card.Card{}, fmt.Errorf("invalid card ID format: %s", cardID)
	}

	idx, ok := d.byID[cardID]
	if !ok {
		return card.Card{}, fmt.Errorf("%w: %s", ErrCardNotFound, cardID)
	}
	return d.cards[idx], nil
}

// Suit returns the cards of one suit in rank order. "major" selects the major arcana.
func (d *Deck) Suit(suit string) []card.Card {
	var out []card.Card
	for _, c := range d.cards {
		if (suit == "major" && !c.IsMinor()) || (c.IsMinor() && c.Suit == suit) {
			out = append(out, c)
		}
	}
	return out
}

func imagePath(parts ...string) string {
	return "/cards/" + path.Join(parts...) + ".jpg"
}

var suitElements = map[string]string{
	"wands":     "Fire",
	"cups":      "Water",
	"swords":    "Air",
	"pentacles": "Earth",
}

// MeaningsFile is the layout of meanings.toml
type MeaningsFile struct {
	MajorArcana map[string]CardEntry            `toml:"major_arcana"`
	MinorArcana map[string]map[string]CardEntry `toml:"minor_arcana"`
}

// CardEntry holds the per-card content of meanings.toml
type CardEntry struct {
	Description string       `toml:"description"`
	YesNo       string       `toml:"yes_no"`
	Element     string       `toml:"element"`
	Planet      string       `toml:"planet"`
	Image       string       `toml:"image"`
	Upright     card.Meaning `toml:"upright"`
	Reversed    card.Meaning `toml:"reversed"`
}

func (e CardEntry) apply(c *card.Card) {
	c.Description = e.Description
	c.YesNo = card.Disposition(e.YesNo)
	c.Upright = e.Upright
	c.Reversed = e.Reversed
	if e.Element != "" {
		c.Element = e.Element
	}
	if e.Planet != "" {
		c.Planet = e.Planet
	}
	if e.Image != "" {
		c.Image = e.Image
	}
}

// NameConfig is the layout of names/<locale>.toml
type NameConfig struct {
	MajorArcana map[string]string            `toml:"major_arcana"`
	MinorArcana map[string]map[string]string `toml:"minor_arcana"`
}
