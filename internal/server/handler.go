package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/arcanaland/taromancer/internal/app"
	"github.com/arcanaland/taromancer/internal/card"
	"github.com/arcanaland/taromancer/internal/history"
	"github.com/arcanaland/taromancer/internal/llm"
	"github.com/arcanaland/taromancer/internal/spread"
	"github.com/arcanaland/taromancer/internal/telegram"
)

// CardSource looks up catalog cards
type CardSource interface {
	GetCard(id string) (card.Card, error)
}

// StatusReporter describes the configured language model endpoint
type StatusReporter interface {
	Status() llm.Status
}

type Handler struct {
	svc      *app.Service
	cards    CardSource
	llm      StatusReporter
	botToken string
	logger   *slog.Logger
	now      func() time.Time
}

func NewHandler(svc *app.Service, cards CardSource, status StatusReporter, botToken string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		svc:      svc,
		cards:    cards,
		llm:      status,
		botToken: botToken,
		logger:   logger,
		now:      time.Now,
	}
}

func (h *Handler) Register(e *echo.Echo) {
	api := e.Group("/api")
	api.GET("/health", h.Health)
	api.GET("/llm-status", h.LLMStatus)
	api.POST("/validate", h.Validate)
	api.GET("/spreads", h.Spreads)
	api.GET("/topics", h.Topics)
	api.GET("/cards/:id", h.Card)
	api.POST("/draw", h.Draw)
	api.POST("/interpret", h.Interpret)
	api.GET("/history/:userId", h.History)
	api.DELETE("/history/:userId", h.ClearHistory)
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok", Timestamp: h.now().UnixMilli()})
}

func (h *Handler) LLMStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, h.llm.Status())
}

func (h *Handler) Validate(c echo.Context) error {
	if h.botToken == "" {
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "bot token is not configured"})
	}

	var req ValidateRequest
	if err := c.Bind(&req); err != nil || req.InitData == "" {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid init data"})
	}

	user, err := telegram.Validate(req.InitData, h.botToken)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid init data"})
	}
	return c.JSON(http.StatusOK, ValidateResponse{Valid: true, User: user})
}

func (h *Handler) Spreads(c echo.Context) error {
	return c.JSON(http.StatusOK, SpreadsResponse{Spreads: spread.All()})
}

func (h *Handler) Topics(c echo.Context) error {
	return c.JSON(http.StatusOK, TopicsResponse{Topics: spread.Topics()})
}

func (h *Handler) Card(c echo.Context) error {
	cd, err := h.cards.GetCard(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, cd)
}

func (h *Handler) Draw(c echo.Context) error {
	var req DrawRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body"})
	}
	if req.SpreadType == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "spreadType is required"})
	}

	reading, err := h.svc.Draw(c.Request().Context(), app.DrawRequest{
		Kind:     req.SpreadType,
		Question: req.Question,
		Topic:    req.Topic,
		UserID:   req.UserID,
	})
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, reading)
}

func (h *Handler) Interpret(c echo.Context) error {
	var req InterpretRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body"})
	}
	if len(req.Cards) == 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "cards array is required"})
	}
	if req.SpreadType == "" || req.Question == nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "spreadType and question are required"})
	}

	ctx := c.Request().Context()
	h.logger.DebugContext(ctx, "interpret request",
		"request_id", c.Get("request_id"),
		"spread", req.SpreadType,
		"topic", req.Topic,
		"cards", len(req.Cards),
		"user_id", req.UserID,
	)

	text, err := h.svc.Interpret(ctx, req.toPrompt())
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, InterpretResponse{Interpretation: text})
}

func (h *Handler) History(c echo.Context) error {
	userID := c.Param("userId")
	list, err := h.svc.History(c.Request().Context(), userID)
	if err != nil {
		return mapError(c, err)
	}
	if list == nil {
		list = []spread.Result{}
	}
	return c.JSON(http.StatusOK, HistoryResponse{UserID: userID, History: list})
}

func (h *Handler) ClearHistory(c echo.Context) error {
	if err := h.svc.ClearHistory(c.Request().Context(), c.Param("userId")); err != nil {
		return mapError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func mapError(c echo.Context, err error) error {
	requestID, _ := c.Get("request_id").(string)

	var llmErr *llm.Error
	switch {
	case errors.Is(err, app.ErrInvalidRequest),
		errors.Is(err, spread.ErrUnknownSpread),
		errors.Is(err, spread.ErrUnknownTopic),
		errors.Is(err, spread.ErrTooManyCards),
		errors.Is(err, spread.ErrInvalidConfig),
		errors.Is(err, history.ErrNoUser):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, app.ErrHistoryDisabled):
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
	case errors.As(err, &llmErr):
		slog.Error("upstream LLM failure", "request_id", requestID, "error", err)
		return c.JSON(http.StatusBadGateway, ErrorResponse{Error: "AI interpretation failed: " + llmErr.Error()})
	default:
		slog.Error("internal error", "request_id", requestID, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
