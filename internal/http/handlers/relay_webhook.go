package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/flarelabs/whatsapp-relay/internal/messaging"
	"github.com/flarelabs/whatsapp-relay/internal/relay"
	"github.com/flarelabs/whatsapp-relay/pkg/logging"
)

const (
	successMessage        = "WhatsApp message sent with AI response."
	failureMessage        = "Failed to process message."
	invalidPayloadMessage = "Invalid webhook payload."
)

type relayService interface {
	Handle(ctx context.Context, msg *messaging.InboundMessage) (relay.Receipt, error)
}

// RelayWebhookHandler handles inbound messaging-provider webhooks and relays
// each message through the AI backend.
type RelayWebhookHandler struct {
	relay           relayService
	logger          *logging.Logger
	authToken       string
	verifySignature bool
	publicBaseURL   string
}

type RelayWebhookConfig struct {
	Relay           relayService
	Logger          *logging.Logger
	AuthToken       string
	VerifySignature bool
	PublicBaseURL   string
}

func NewRelayWebhookHandler(cfg RelayWebhookConfig) *RelayWebhookHandler {
	if cfg.Relay == nil {
		panic("handlers: relay service cannot be nil")
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &RelayWebhookHandler{
		relay:           cfg.Relay,
		logger:          cfg.Logger,
		authToken:       cfg.AuthToken,
		verifySignature: cfg.VerifySignature,
		publicBaseURL:   cfg.PublicBaseURL,
	}
}

// ackResponse is the webhook acknowledgement returned to the provider.
type ackResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Sid     string `json:"sid,omitempty"`
}

// HandleMessage processes POST /messaging/twilio/webhook requests.
func (h *RelayWebhookHandler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	if h.verifySignature && h.authToken != "" {
		webhookURL := messaging.BuildWebhookURL(r, h.publicBaseURL)
		if !messaging.ValidateTwilioSignature(r, h.authToken, webhookURL) {
			h.logger.Warn("invalid twilio signature", "url", webhookURL)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
	}

	msg, err := messaging.ParseInbound(r)
	if err != nil {
		h.logger.Error("failed to parse inbound webhook", "error", err)
		writeJSON(w, http.StatusBadRequest, ackResponse{
			Success: false,
			Message: invalidPayloadMessage,
		})
		return
	}

	receipt, err := h.relay.Handle(r.Context(), msg)
	if err != nil {
		var relayErr *relay.Error
		if errors.As(err, &relayErr) {
			switch relayErr.Stage {
			case relay.StageChat:
				h.logger.Error("AI backend call failed", "error", relayErr.Err, "from", msg.From)
			case relay.StageSend:
				h.logger.Error("provider send failed", "error", relayErr.Err, "from", msg.From)
			}
		} else {
			h.logger.Error("relay failed", "error", err, "from", msg.From)
		}
		writeJSON(w, http.StatusInternalServerError, ackResponse{
			Success: false,
			Message: failureMessage,
		})
		return
	}

	writeJSON(w, http.StatusOK, ackResponse{
		Success: true,
		Message: successMessage,
		Sid:     receipt.Sid,
	})
}

// HealthCheck returns a simple health check response.
func (h *RelayWebhookHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
