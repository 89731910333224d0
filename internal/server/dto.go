package server

import (
	"github.com/arcanaland/taromancer/internal/prompt"
	"github.com/arcanaland/taromancer/internal/spread"
	"github.com/arcanaland/taromancer/internal/telegram"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
}

type ValidateRequest struct {
	InitData string `json:"initData"`
}

type ValidateResponse struct {
	Valid bool           `json:"valid"`
	User  *telegram.User `json:"user"`
}

type DrawRequest struct {
	SpreadType string `json:"spreadType"`
	Question   string `json:"question"`
	Topic      string `json:"topic"`
	UserID     string `json:"userId,omitempty"`
}

// InterpretRequest is the body of POST /api/interpret. Question is a pointer
// so an absent field can be told apart from an empty one.
type InterpretRequest struct {
	SpreadType string             `json:"spreadType"`
	Question   *string            `json:"question"`
	Topic      string             `json:"topic"`
	Cards      []prompt.CardInput `json:"cards"`
	UserID     string             `json:"userId,omitempty"`
}

func (r InterpretRequest) toPrompt() prompt.Request {
	return prompt.Request{
		SpreadType: r.SpreadType,
		Question:   *r.Question,
		Topic:      r.Topic,
		Cards:      r.Cards,
	}
}

type InterpretResponse struct {
	Interpretation string `json:"interpretation"`
}

type SpreadsResponse struct {
	Spreads []spread.Config `json:"spreads"`
}

type TopicsResponse struct {
	Topics []spread.TopicOption `json:"topics"`
}

type HistoryResponse struct {
	UserID  string          `json:"userId"`
	History []spread.Result `json:"history"`
}
