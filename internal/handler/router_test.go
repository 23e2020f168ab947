package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	chatmodel "github.com/cistcor/cistbot/backend/internal/model/chat"
	faqmodel "github.com/cistcor/cistbot/backend/internal/model/faq"
	"github.com/cistcor/cistbot/backend/internal/service/ai"
	chatservice "github.com/cistcor/cistbot/backend/internal/service/chat"
	"github.com/cistcor/cistbot/backend/internal/service/faq"
	"github.com/cistcor/cistbot/backend/internal/service/session"
)

type noopCompleter struct{}

func (noopCompleter) Complete(context.Context, string, []chatmodel.Message) (string, error) {
	return "ok", nil
}

func newTestRouter(rateLimit int) http.Handler {
	store := session.NewStore(25 * time.Minute)
	svc := chatservice.NewService(
		store,
		faq.NewMatcher(faqmodel.Seed()),
		ai.NewPromptBuilder(ai.Persona, ""),
		noopCompleter{},
		chatservice.Options{FAQThreshold: 0.4, HistoryWindow: 3, MaxMessageLength: 2000},
	)
	return NewRouter(svc, RouterConfig{RateLimit: rateLimit})
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(100)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body struct {
		Status string `json:"status"`
		Time   string `json:"time"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal health body: %v", err)
	}
	if body.Status != "ok" {
		t.Fatalf("unexpected status: %q", body.Status)
	}
	if _, err := time.Parse(time.RFC3339, body.Time); err != nil {
		t.Fatalf("health time is not RFC3339: %v", err)
	}
}

func TestRateLimitExceeded(t *testing.T) {
	r := newTestRouter(2)

	var last int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		last = resp.Code
	}

	if last != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after exceeding the limit, got %d", last)
	}
}

func TestSecureHeadersApplied(t *testing.T) {
	r := newTestRouter(100)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if got := resp.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("missing nosniff header, got %q", got)
	}
}
