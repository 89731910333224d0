package server

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcanaland/taromancer/internal/app"
	"github.com/arcanaland/taromancer/internal/deck"
	"github.com/arcanaland/taromancer/internal/history"
	"github.com/arcanaland/taromancer/internal/llm"
	"github.com/arcanaland/taromancer/internal/metrics"
	"github.com/arcanaland/taromancer/internal/spread"
	"github.com/arcanaland/taromancer/internal/telegram"
)

const testBotToken = "123:abc"

type stubCompleter struct {
	out string
	err error
}

func (s stubCompleter) Complete(context.Context, []llm.Message) (string, error) {
	return s.out, s.err
}

func newTestServer(t *testing.T, completer app.Completer, botToken string) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	d, err := deck.Default()
	require.NoError(t, err)
	hist, err := history.NewStore(history.NewMemoryKV(), 8)
	require.NoError(t, err)
	m := metrics.NewCollector()

	svc := app.NewService(spread.NewEngine(d, spread.NewSeededRNG(1)), completer, hist, m, logger)
	client := llm.NewClient(nil, llm.Config{BaseURL: "http://llm.test/v1", APIKey: "k"}, logger)

	h := NewHandler(svc, d, client, botToken, logger)
	return New(":0", h, m.Registry(), logger).Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	h := newTestServer(t, stubCompleter{}, "")

	rec := do(t, h, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.NotZero(t, body["timestamp"])
	assert.NotEmpty(t, rec.Header().Get(headerRequestID))
}

func TestLLMStatus(t *testing.T) {
	h := newTestServer(t, stubCompleter{}, "")

	rec := do(t, h, http.MethodGet, "/api/llm-status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["configured"])
	assert.Equal(t, "http://llm.test/v1", body["baseUrl"])
	assert.Equal(t, true, body["hasApiKey"])
	assert.NotContains(t, rec.Body.String(), `"k"`)
}

func TestInterpret_Success(t *testing.T) {
	h := newTestServer(t, stubCompleter{out: "A bright beginning."}, "")

	rec := do(t, h, http.MethodPost, "/api/interpret", `{
		"spreadType": "daily",
		"question": "",
		"topic": "general",
		"cards": [{"name": "Шут", "nameEn": "The Fool", "isReversed": false, "position": "Card of the Day"}]
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "A bright beginning.", decode(t, rec)["interpretation"])
}

func TestInterpret_BadRequest(t *testing.T) {
	h := newTestServer(t, stubCompleter{out: "unused"}, "")

	tests := []struct {
		name string
		body string
	}{
		{"no cards", `{"spreadType": "daily", "question": "q"}`},
		{"empty cards", `{"spreadType": "daily", "question": "q", "cards": []}`},
		{"no question", `{"spreadType": "daily", "cards": [{"name": "a", "position": "p"}]}`},
		{"no spread type", `{"question": "q", "cards": [{"name": "a", "position": "p"}]}`},
		{"malformed", `{"cards": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/interpret", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, decode(t, rec)["error"])
		})
	}
}

func TestInterpret_UpstreamFailure(t *testing.T) {
	upstream := &llm.Error{Err: llm.ErrStatus, StatusCode: 500, Body: "boom"}
	h := newTestServer(t, stubCompleter{err: upstream}, "")

	rec := do(t, h, http.MethodPost, "/api/interpret",
		`{"spreadType": "daily", "question": "q", "cards": [{"name": "a", "nameEn": "b", "position": "p"}]}`)
	require.Equal(t, http.StatusBadGateway, rec.Code)

	msg, _ := decode(t, rec)["error"].(string)
	assert.True(t, strings.HasPrefix(msg, "AI interpretation failed: "), msg)
	assert.Contains(t, msg, "500")
}

func TestDraw(t *testing.T) {
	h := newTestServer(t, stubCompleter{}, "")

	rec := do(t, h, http.MethodPost, "/api/draw",
		`{"spreadType": "three-cards", "question": "What next?", "topic": "career", "userId": "77"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var reading app.Reading
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reading))
	require.Len(t, reading.Result.Cards, 3)
	require.Len(t, reading.Cards, 3)
	assert.Equal(t, "Past", reading.Cards[0].Position.Label)

	rec = do(t, h, http.MethodGet, "/api/history/77", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var hist HistoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hist))
	require.Len(t, hist.History, 1)
	assert.Equal(t, reading.Result.ID, hist.History[0].ID)

	rec = do(t, h, http.MethodDelete, "/api/history/77", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/history/77", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"history":[]`)
}

func TestDraw_BadRequest(t *testing.T) {
	h := newTestServer(t, stubCompleter{}, "")

	for _, body := range []string{
		`{"spreadType": "celtic-cross"}`,
		`{"spreadType": "daily", "topic": "health"}`,
		`{}`,
	} {
		rec := do(t, h, http.MethodPost, "/api/draw", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestCatalogEndpoints(t *testing.T) {
	h := newTestServer(t, stubCompleter{}, "")

	rec := do(t, h, http.MethodGet, "/api/spreads", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var spreads SpreadsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &spreads))
	assert.Len(t, spreads.Spreads, 3)

	rec = do(t, h, http.MethodGet, "/api/topics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"finances"`)

	rec = do(t, h, http.MethodGet, "/api/cards/major_arcana.00", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "The Fool", decode(t, rec)["nameEn"])

	rec = do(t, h, http.MethodGet, "/api/cards/major_arcana.99", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestValidate(t *testing.T) {
	h := newTestServer(t, stubCompleter{}, testBotToken)

	values := url.Values{"auth_date": {"1700000000"}, "user": {`{"id":7,"first_name":"Ann"}`}}
	values.Set("hash", hex.EncodeToString(telegram.Sign(values, testBotToken)))
	body, err := json.Marshal(ValidateRequest{InitData: values.Encode()})
	require.NoError(t, err)

	rec := do(t, h, http.MethodPost, "/api/validate", string(body))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp ValidateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Valid)
	require.NotNil(t, resp.User)
	assert.Equal(t, int64(7), resp.User.ID)

	rec = do(t, h, http.MethodPost, "/api/validate", `{"initData": "auth_date=1&hash=00"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestValidate_NoBotToken(t *testing.T) {
	h := newTestServer(t, stubCompleter{}, "")

	rec := do(t, h, http.MethodPost, "/api/validate", `{"initData": "x"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCORS(t *testing.T) {
	h := newTestServer(t, stubCompleter{}, "")

	req := httptest.NewRequest(http.MethodOptions, "/api/interpret", nil)
	req.Header.Set("Origin", "https://web.telegram.org")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://web.telegram.org", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestServer(t, stubCompleter{}, "")

	do(t, h, http.MethodPost, "/api/draw", `{"spreadType": "daily"}`)
	rec := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `taromancer_draws_total{spread="daily"} 1`)
}
