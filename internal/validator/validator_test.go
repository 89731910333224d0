package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcanaland/taromancer/internal/deck"
	"github.com/arcanaland/taromancer/internal/spread"
)

func TestValidate_EmbeddedCatalog(t *testing.T) {
	d, err := deck.Default()
	require.NoError(t, err)

	results := NewValidator(d, spread.All()).Validate()
	assert.Empty(t, results.Errors)
	assert.Empty(t, results.Warnings)
}

func TestValidate_IncompleteMeanings(t *testing.T) {
	d, err := deck.Load([]byte(`
[major_arcana.00]
description = "A leap of faith"
yes_no = "yes"

[major_arcana.00.upright]
general = "new beginnings"
love = "new love"
career = "a new role"
finances = "a risk"
advice = "jump"

[major_arcana.00.reversed]
general = "recklessness"
advice = "look first"
`), nil)
	require.NoError(t, err)

	results := NewValidator(d, spread.All()).Validate()

	joined := strings.Join(results.Errors, "\n")
	assert.Contains(t, joined, "major_arcana.00: missing reversed texts: love, career, finances")
	assert.NotContains(t, joined, "major_arcana.00: missing upright")
	assert.Contains(t, joined, `major_arcana.01: invalid yes_no ""`)
}

func TestValidate_MissingLocalNames(t *testing.T) {
	d, err := deck.Load(nil, []byte("[major_arcana]\n00 = \"Шут\"\n"))
	require.NoError(t, err)
	d.Locale = "ru"

	results := NewValidator(d, nil).Validate()
	require.Len(t, results.Warnings, 1+deck.Size)
	assert.Contains(t, results.Warnings[len(results.Warnings)-1], "no ru name for 77 cards")
}

func TestValidate_BadSpreads(t *testing.T) {
	d, err := deck.Default()
	require.NoError(t, err)

	spreads := []spread.Config{
		{Kind: "big", CardCount: 80, Positions: make([]spread.Position, 80)},
		{Kind: "short", CardCount: 2, Positions: []spread.Position{{Index: 0}}},
		{Kind: "short", CardCount: 1, Positions: []spread.Position{{Index: 0}}},
	}
	for i := range spreads[0].Positions {
		spreads[0].Positions[i].Index = i
	}

	results := NewValidator(d, spreads).Validate()
	joined := strings.Join(results.Errors, "\n")
	assert.Contains(t, joined, "spread big needs 80 cards")
	assert.Contains(t, joined, "1 positions for 2 cards")
	assert.Contains(t, joined, "duplicate spread type: short")
}
