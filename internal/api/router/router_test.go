package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/flarelabs/whatsapp-relay/internal/http/handlers"
	"github.com/flarelabs/whatsapp-relay/internal/messaging"
	"github.com/flarelabs/whatsapp-relay/internal/relay"
)

type noopRelay struct{}

func (noopRelay) Handle(ctx context.Context, msg *messaging.InboundMessage) (relay.Receipt, error) {
	return relay.Receipt{Sid: "SM1"}, nil
}

func newTestRouter() http.Handler {
	webhook := handlers.NewRelayWebhookHandler(handlers.RelayWebhookConfig{Relay: noopRelay{}})
	return New(&Config{
		RelayWebhook:   webhook,
		MetricsHandler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }),
	})
}

func TestRouterHealth(t *testing.T) {
	r := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 from /health, got %d", w.Code)
	}
}

func TestRouterWebhookRoute(t *testing.T) {
	r := newTestRouter()
	req := httptest.NewRequest(http.MethodPost, "/messaging/twilio/webhook", nil)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 from webhook, got %d", w.Code)
	}
}

func TestRouterMetricsRoute(t *testing.T) {
	r := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 from /metrics, got %d", w.Code)
	}
}

func TestRouterUnknownRoute(t *testing.T) {
	r := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 from unknown route, got %d", w.Code)
	}
}
