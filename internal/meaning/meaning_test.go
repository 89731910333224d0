package meaning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcanaland/taromancer/internal/card"
	"github.com/arcanaland/taromancer/internal/spread"
)

func testCard(d card.Disposition) card.Card {
	return card.Card{
		ID:     card.MajorID(1),
		NameEn: "The Magician",
		YesNo:  d,
		Upright: card.Meaning{
			General: "up general",
			Love:    "up love",
			Advice:  "up advice",
		},
		Reversed: card.Meaning{
			General: "rev general",
			Career:  "rev career",
			Advice:  "rev advice",
		},
	}
}

func TestMeaningOf(t *testing.T) {
	c := testCard(card.Yes)

	tests := []struct {
		name     string
		reversed bool
		topic    card.Topic
		want     string
	}{
		{"upright topic present", false, card.TopicLove, "up love"},
		{"upright falls back to general", false, card.TopicCareer, "up general"},
		{"reversed topic present", true, card.TopicCareer, "rev career"},
		{"reversed falls back within orientation", true, card.TopicLove, "rev general"},
		{"unknown topic", false, card.Topic("health"), "up general"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MeaningOf(c, tt.reversed, tt.topic))
		})
	}
}

func TestAdviceOf(t *testing.T) {
	c := testCard(card.Yes)
	assert.Equal(t, "up advice", AdviceOf(c, false))
	assert.Equal(t, "rev advice", AdviceOf(c, true))
}

func TestYesNoAnswer_Table(t *testing.T) {
	tests := []struct {
		disposition card.Disposition
		reversed    bool
		want        Category
		family      Category
	}{
		{card.Yes, false, CategoryYes, CategoryYes},
		{card.No, false, CategoryNo, CategoryNo},
		{card.Maybe, false, CategoryMaybe, CategoryMaybe},
		{card.Yes, true, CategoryProbablyNot, CategoryProbablyNot},
		{card.No, true, CategoryPossiblyYes, CategoryPossiblyYes},
		{card.Maybe, true, CategoryIndeterminate, CategoryMaybe},
	}

	for _, tt := range tests {
		a := YesNoAnswer(testCard(tt.disposition), tt.reversed)
		assert.Equal(t, tt.want, a.Category, "%s reversed=%v", tt.disposition, tt.reversed)
		assert.Equal(t, tt.family, a.Category.Family())
		assert.NotEmpty(t, a.Answer)
		assert.NotEmpty(t, a.Explanation)
	}
}

func TestYesNoAnswer_ReversalNeverHardFlips(t *testing.T) {
	assert.NotEqual(t, CategoryNo, YesNoAnswer(testCard(card.Yes), true).Category)
	assert.NotEqual(t, CategoryYes, YesNoAnswer(testCard(card.No), true).Category)
}

func TestYesNoAnswer_UnknownDispositionReadsAsMaybe(t *testing.T) {
	a := YesNoAnswer(testCard(""), false)
	assert.Equal(t, CategoryMaybe, a.Category)
}

func TestDescribe(t *testing.T) {
	pos := spread.Position{Index: 0, Label: "Answer"}
	res := spread.Result{
		Kind:  spread.YesNo,
		Topic: card.TopicCareer,
		Cards: []spread.DrawnCard{{Card: testCard(card.No), Reversed: true, Position: pos}},
	}

	readings := Describe(res)
	require.Len(t, readings, 1)
	r := readings[0]
	assert.Equal(t, pos, r.Position)
	assert.Equal(t, "rev career", r.Meaning)
	assert.Equal(t, "rev advice", r.Advice)
	require.NotNil(t, r.YesNo)
	assert.Equal(t, CategoryPossiblyYes, r.YesNo.Category)

	res.Kind = spread.Daily
	readings = Describe(res)
	assert.Nil(t, readings[0].YesNo)
}
