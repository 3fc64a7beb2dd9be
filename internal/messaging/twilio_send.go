package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/flarelabs/whatsapp-relay/pkg/logging"
)

const defaultTwilioBaseURL = "https://api.twilio.com"

var twilioSendTracer = otel.Tracer("relay.internal.messaging.twilio_send")

// SendResult carries the provider's identifiers for a dispatched message.
type SendResult struct {
	Sid    string
	Status string
}

// TwilioSender posts messages using Twilio's REST API.
type TwilioSender struct {
	accountSID string
	authToken  string
	from       string
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
	tracer     trace.Tracer
}

// TwilioSenderConfig controls how the sender reaches Twilio.
type TwilioSenderConfig struct {
	AccountSID string
	AuthToken  string
	From       string
	BaseURL    string
	Timeout    time.Duration
	Logger     *logging.Logger
}

// NewTwilioSender builds a sender with sane defaults.
func NewTwilioSender(cfg TwilioSenderConfig) *TwilioSender {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultTwilioBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &TwilioSender{
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		from:       cfg.From,
		baseURL:    baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
		tracer: twilioSendTracer,
	}
}

// SendMessage dispatches a single message to the given address and returns
// the provider message id. Exactly one attempt is made per call.
func (s *TwilioSender) SendMessage(ctx context.Context, to, body string) (SendResult, error) {
	if s.accountSID == "" || s.authToken == "" {
		return SendResult{}, errors.New("messaging: twilio credentials missing")
	}
	if to == "" {
		return SendResult{}, errors.New("messaging: to required")
	}
	if s.from == "" {
		return SendResult{}, errors.New("messaging: from required")
	}

	ctx, span := s.tracer.Start(ctx, "messaging.twilio.send")
	defer span.End()
	span.SetAttributes(attribute.String("relay.to", to))

	payload := url.Values{}
	payload.Set("To", to)
	payload.Set("From", s.from)
	payload.Set("Body", body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", s.baseURL, s.accountSID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(payload.Encode()))
	if err != nil {
		span.RecordError(err)
		return SendResult{}, err
	}
	req.SetBasicAuth(s.accountSID, s.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		return SendResult{}, fmt.Errorf("messaging: twilio request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := fmt.Errorf("messaging: twilio send failed: %s", formatTwilioError(resp.StatusCode, respBody))
		span.RecordError(err)
		return SendResult{}, err
	}

	var parsed struct {
		Sid    string `json:"sid"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		err := fmt.Errorf("messaging: twilio response decode failed: %w", err)
		span.RecordError(err)
		return SendResult{}, err
	}

	s.logger.Info("twilio message sent", "to", to, "sid", parsed.Sid)
	return SendResult{Sid: parsed.Sid, Status: parsed.Status}, nil
}

type twilioAPIError struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	MoreInfo string `json:"more_info"`
	Status   int    `json:"status"`
}

func formatTwilioError(status int, body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return fmt.Sprintf("status %d", status)
	}
	var parsed twilioAPIError
	if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil && parsed.Message != "" {
		if parsed.Code != 0 {
			return fmt.Sprintf("status %d code %d: %s", status, parsed.Code, parsed.Message)
		}
		return fmt.Sprintf("status %d: %s", status, parsed.Message)
	}
	// Fallback: return raw body (truncated by the read limit).
	return fmt.Sprintf("status %d: %s", status, trimmed)
}
