package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/arcanaland/taromancer/internal/history"
	"github.com/arcanaland/taromancer/internal/llm"
	"github.com/arcanaland/taromancer/internal/meaning"
	"github.com/arcanaland/taromancer/internal/metrics"
	"github.com/arcanaland/taromancer/internal/prompt"
	"github.com/arcanaland/taromancer/internal/spread"
)

var (
	ErrInvalidRequest  = errors.New("invalid request")
	ErrHistoryDisabled = errors.New("history is not configured")
)

// Completer produces chat completions
type Completer interface {
	Complete(ctx context.Context, messages []llm.Message) (string, error)
}

// HistoryStore keeps per-user spread history
type HistoryStore interface {
	Add(ctx context.Context, userID string, res spread.Result) error
	List(ctx context.Context, userID string) ([]spread.Result, error)
	Clear(ctx context.Context, userID string) error
}

// DrawRequest is the application-level draw input (no HTTP types)
type DrawRequest struct {
	Kind     string
	Question string
	Topic    string
	UserID   string
}

// Reading is a drawn spread with the stored texts for each card
type Reading struct {
	Result spread.Result     `json:"result"`
	Cards  []meaning.Reading `json:"readings"`
}

// Service orchestrates drawing, interpretation and history
type Service struct {
	engine    *spread.Engine
	completer Completer
	history   HistoryStore
	metrics   metrics.Collector
	logger    *slog.Logger

	// guards engine, whose RNG is not safe for concurrent use
	mu sync.Mutex
}

// NewService wires the collaborators. hist may be nil to disable history;
// m may be nil to disable metrics.
func NewService(engine *spread.Engine, completer Completer, hist HistoryStore, m metrics.Collector, logger *slog.Logger) *Service {
	if m == nil {
		m = metrics.Noop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		engine:    engine,
		completer: completer,
		history:   hist,
		metrics:   m,
		logger:    logger,
	}
}

// Draw performs a spread. When UserID is set the result is appended to that
// user's history; a history failure is logged and does not fail the draw.
func (s *Service) Draw(ctx context.Context, req DrawRequest) (Reading, error) {
	cfg, err := spread.Lookup(spread.Kind(req.Kind))
	if err != nil {
		return Reading{}, err
	}
	topic, err := spread.ParseTopic(req.Topic)
	if err != nil {
		return Reading{}, err
	}

	s.mu.Lock()
	res, err := s.engine.Draw(cfg, req.Question, topic)
	s.mu.Unlock()
	if err != nil {
		return Reading{}, fmt.Errorf("draw %s: %w", cfg.Kind, err)
	}
	s.metrics.RecordDraw(ctx, string(cfg.Kind))

	if req.UserID != "" && s.history != nil {
		if err := s.history.Add(ctx, req.UserID, res); err != nil {
			s.metrics.RecordHistoryError(ctx, "add")
			s.logger.WarnContext(ctx, "history add failed", "user_id", req.UserID, "error", err)
		}
	}

	return Reading{Result: res, Cards: meaning.Describe(res)}, nil
}

// Interpret asks the language model for a reading of req
func (s *Service) Interpret(ctx context.Context, req prompt.Request) (string, error) {
	if err := validateInterpret(req); err != nil {
		return "", err
	}

	messages := prompt.Build(req)

	start := time.Now()
	text, err := s.completer.Complete(ctx, messages)
	elapsed := time.Since(start)

	if err != nil {
		s.metrics.RecordInterpretation(ctx, "error", elapsed)
		s.logger.ErrorContext(ctx, "interpretation failed",
			"spread", req.SpreadType,
			"cards", len(req.Cards),
			"latency_ms", elapsed.Milliseconds(),
			"error", err,
		)
		return "", fmt.Errorf("interpret: %w", err)
	}

	s.metrics.RecordInterpretation(ctx, "success", elapsed)
	s.logger.InfoContext(ctx, "interpretation complete",
		"spread", req.SpreadType,
		"cards", len(req.Cards),
		"latency_ms", elapsed.Milliseconds(),
	)
	return text, nil
}

func validateInterpret(req prompt.Request) error {
	if len(req.Cards) == 0 {
		return fmt.Errorf("%w: cards array is required", ErrInvalidRequest)
	}
	if req.SpreadType == "" {
		return fmt.Errorf("%w: spreadType is required", ErrInvalidRequest)
	}
	for i, c := range req.Cards {
		if c.Name == "" && c.NameEn == "" {
			return fmt.Errorf("%w: card %d has no name", ErrInvalidRequest, i)
		}
	}
	return nil
}

// History returns the user's stored spreads, newest first
func (s *Service) History(ctx context.Context, userID string) ([]spread.Result, error) {
	if s.history == nil {
		return nil, ErrHistoryDisabled
	}
	list, err := s.history.List(ctx, userID)
	if err != nil {
		if !errors.Is(err, history.ErrNoUser) {
			s.metrics.RecordHistoryError(ctx, "list")
		}
		return nil, err
	}
	return list, nil
}

// ClearHistory removes the user's stored spreads
func (s *Service) ClearHistory(ctx context.Context, userID string) error {
	if s.history == nil {
		return ErrHistoryDisabled
	}
	if err := s.history.Clear(ctx, userID); err != nil {
		if !errors.Is(err, history.ErrNoUser) {
			s.metrics.RecordHistoryError(ctx, "clear")
		}
		return err
	}
	return nil
}
