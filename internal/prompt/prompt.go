// Package prompt renders a drawn spread as chat messages for the language model.
package prompt

import (
	"fmt"
	"strings"

	"github.com/arcanaland/taromancer/internal/llm"
	"github.com/arcanaland/taromancer/internal/spread"
)

// CardInput is the part of a drawn card the model sees
type CardInput struct {
	Name     string `json:"name"`
	NameEn   string `json:"nameEn"`
	Reversed bool   `json:"isReversed"`
	Position string `json:"position"`
	Element  string `json:"element,omitempty"`
	Planet   string `json:"planet,omitempty"`
}

// Request is everything needed to ask for an interpretation. Topic and
// SpreadType are kept as strings so values unknown to this build still render.
type Request struct {
	SpreadType string      `json:"spreadType"`
	Question   string      `json:"question"`
	Topic      string      `json:"topic"`
	Cards      []CardInput `json:"cards"`
}

// FromResult projects a drawn spread onto a Request
func FromResult(res spread.Result) Request {
	req := Request{
		SpreadType: string(res.Kind),
		Question:   res.Question,
		Topic:      string(res.Topic),
		Cards:      make([]CardInput, 0, len(res.Cards)),
	}
	for _, dc := range res.Cards {
		req.Cards = append(req.Cards, CardInput{
			Name:     dc.Card.Name,
			NameEn:   dc.Card.NameEn,
			Reversed: dc.Reversed,
			Position: dc.Position.Label,
			Element:  dc.Card.Element,
			Planet:   dc.Card.Planet,
		})
	}
	return req
}

const systemPrompt = `You are a wise and perceptive tarot reader with many years of experience. You interpret tarot spreads with depth, warmth and a touch of mystery.

Rules:
- Answer in 3-5 paragraphs, concise but meaningful
- Weave the cards together into one story
- Take each card's position in the spread into account (past/present/future)
- When a card is reversed, consider its weakened or opposite meaning
- Take the topic of the question into account (love/career/finances/general)
- Finish with advice or a parting word
- Do not use markdown, write plain text
- Be mystical but never vague; give concrete interpretations`

var spreadLabels = map[string]string{
	string(spread.Daily):      "Card of the Day",
	string(spread.ThreeCards): "Three Cards (Past — Present — Future)",
	string(spread.YesNo):      "Yes/No",
}

var topicLabels = map[string]string{
	"general":  "general question",
	"love":     "love and relationships",
	"career":   "career and work",
	"finances": "finances and money",
}

// SpreadLabel returns the prompt label for a spread type. Unknown types are
// returned as is rather than labelled as a yes/no spread.
func SpreadLabel(spreadType string) string {
	if l, ok := spreadLabels[spreadType]; ok {
		return l
	}
	return spreadType
}

// TopicLabel returns the prompt label for a topic, or the topic itself
func TopicLabel(topic string) string {
	if l, ok := topicLabels[topic]; ok {
		return l
	}
	return topic
}

// Build returns the system persona and the user message describing req.
// The output depends only on req.
func Build(req Request) []llm.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Spread: %s\n", SpreadLabel(req.SpreadType))
	fmt.Fprintf(&b, "Topic: %s\n", TopicLabel(req.Topic))
	fmt.Fprintf(&b, "Question: %s\n", req.Question)
	b.WriteString("\nCards drawn:\n")
	for _, c := range req.Cards {
		b.WriteString(cardLine(c))
		b.WriteByte('\n')
	}
	b.WriteString("\nGive a cohesive interpretation of the spread.")

	return []llm.Message{
		{Role: llm.RoleSystem, Content: systemPrompt},
		{Role: llm.RoleUser, Content: b.String()},
	}
}

func cardLine(c CardInput) string {
	line := fmt.Sprintf("- Position \"%s\": %s / %s", c.Position, c.Name, c.NameEn)
	if c.Reversed {
		line += " (reversed)"
	}

	var extra []string
	for _, s := range []string{c.Element, c.Planet} {
		if s != "" {
			extra = append(extra, s)
		}
	}
	if len(extra) > 0 {
		line += " [" + strings.Join(extra, ", ") + "]"
	}
	return line
}
