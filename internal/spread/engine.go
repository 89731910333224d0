package spread

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/arcanaland/taromancer/internal/card"
)

// ReversedProbability is the chance that a drawn card lands reversed
const ReversedProbability = 0.30

// RNG yields uniform values in [0, 1)
type RNG interface {
	Float64() float64
}

// NewSeededRNG returns a reproducible RNG for the given seed
func NewSeededRNG(seed uint64) RNG {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewRNG returns an RNG seeded from the runtime's entropy source
func NewRNG() RNG {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Deck is the read-only catalog a spread is drawn from
type Deck interface {
	Len() int
	At(i int) card.Card
}

// DrawnCard is a card placed in a spread position
type DrawnCard struct {
	Card     card.Card `json:"card"`
	Reversed bool      `json:"isReversed"`
	Position Position  `json:"position"`
}

// Result is a completed draw
type Result struct {
	ID        string      `json:"id"`
	Kind      Kind        `json:"type"`
	Question  string      `json:"question"`
	Topic     card.Topic  `json:"topic"`
	Cards     []DrawnCard `json:"cards"`
	Timestamp time.Time   `json:"-"`
}

type resultJSON struct {
	ID        string      `json:"id"`
	Kind      Kind        `json:"type"`
	Question  string      `json:"question"`
	Topic     card.Topic  `json:"topic"`
	Cards     []DrawnCard `json:"cards"`
	Timestamp int64       `json:"timestamp"`
}

// MarshalJSON encodes the timestamp as unix milliseconds
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(resultJSON{
		ID:        r.ID,
		Kind:      r.Kind,
		Question:  r.Question,
		Topic:     r.Topic,
		Cards:     r.Cards,
		Timestamp: r.Timestamp.UnixMilli(),
	})
}

func (r *Result) UnmarshalJSON(data []byte) error {
	var raw resultJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = Result{
		ID:        raw.ID,
		Kind:      raw.Kind,
		Question:  raw.Question,
		Topic:     raw.Topic,
		Cards:     raw.Cards,
		Timestamp: time.UnixMilli(raw.Timestamp),
	}
	return nil
}

// Engine draws spreads. NewID and Now may be replaced for deterministic output.
type Engine struct {
	Deck  Deck
	RNG   RNG
	NewID func() string
	Now   func() time.Time
}

// NewEngine returns an engine with random IDs and the wall clock
func NewEngine(d Deck, rng RNG) *Engine {
	return &Engine{
		Deck:  d,
		RNG:   rng,
		NewID: uuid.NewString,
		Now:   time.Now,
	}
}

// Draw performs a spread with the engine's deck and RNG
func (e *Engine) Draw(cfg Config, question string, topic card.Topic) (Result, error) {
	res, err := Draw(cfg, question, topic, e.Deck, e.RNG)
	if err != nil {
		return Result{}, err
	}
	if e.NewID != nil {
		res.ID = e.NewID()
	}
	if e.Now != nil {
		res.Timestamp = e.Now()
	}
	return res, nil
}

// Draw shuffles the deck and deals cfg.CardCount distinct cards, one per
// position, each independently reversed with ReversedProbability.
//
// All shuffle values are taken from rng before any orientation values, so a
// given RNG sequence always produces the same cards and orientations. The
// returned Result has no ID or timestamp; Engine.Draw fills those in.
// Whether question may be empty is left to the caller.
func Draw(cfg Config, question string, topic card.Topic, d Deck, rng RNG) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	if cfg.CardCount > d.Len() {
		return Result{}, fmt.Errorf("%w: %s needs %d cards, deck has %d", ErrTooManyCards, cfg.Kind, cfg.CardCount, d.Len())
	}

	order := shuffle(d.Len(), rng)

	cards := make([]DrawnCard, cfg.CardCount)
	for i, pos := range cfg.Positions {
		cards[i] = DrawnCard{
			Card:     d.At(order[i]),
			Reversed: rng.Float64() < ReversedProbability,
			Position: pos,
		}
	}

	return Result{
		Kind:     cfg.Kind,
		Question: question,
		Topic:    topic,
		Cards:    cards,
	}, nil
}

// shuffle returns a Fisher-Yates permutation of 0..n-1
func shuffle(n int, rng RNG) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := int(rng.Float64() * float64(i+1))
		switch {
		case j > i:
			j = i
		case j < 0:
			j = 0
		}
		order[i], order[j] = order[j], order[i]
	}
	return order
}
