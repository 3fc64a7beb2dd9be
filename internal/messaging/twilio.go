package messaging

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

// ValidateTwilioSignature validates that a request came from Twilio
func ValidateTwilioSignature(r *http.Request, authToken, webhookURL string) bool {
	signature := r.Header.Get("X-Twilio-Signature")
	if signature == "" {
		return false
	}

	// Parse form data
	if err := r.ParseForm(); err != nil {
		return false
	}

	// Build the signature payload
	payload := buildSignaturePayload(webhookURL, r.PostForm)

	// Compute expected signature
	expectedSignature := computeSignature(payload, authToken)

	return hmac.Equal([]byte(signature), []byte(expectedSignature))
}

// buildSignaturePayload creates the payload string for signature verification
func buildSignaturePayload(url string, params url.Values) string {
	// Get all keys and sort them
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	// Build payload: URL + sorted params
	var payload strings.Builder
	payload.WriteString(url)

	for _, key := range keys {
		for _, value := range params[key] {
			payload.WriteString(key)
			payload.WriteString(value)
		}
	}

	return payload.String()
}

// computeSignature computes the HMAC-SHA1 signature
func computeSignature(data, key string) string {
	h := hmac.New(sha1.New, []byte(key))
	h.Write([]byte(data))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// InboundMessage represents an incoming messaging-provider webhook.
// It lives only for the duration of the request that carried it.
type InboundMessage struct {
	MessageSid string `json:"MessageSid"`
	AccountSid string `json:"AccountSid"`
	From       string `json:"From"`
	To         string `json:"To"`
	Body       string `json:"Body"`
	NumMedia   string `json:"NumMedia"`
}

// ParseInbound parses a provider webhook request. Twilio posts
// application/x-www-form-urlencoded; JSON bodies are accepted for
// local testing and non-Twilio callers.
func ParseInbound(r *http.Request) (*InboundMessage, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var msg InboundMessage
		if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
			return nil, fmt.Errorf("messaging: failed to decode json webhook: %w", err)
		}
		return &msg, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("messaging: failed to parse form: %w", err)
	}

	return &InboundMessage{
		MessageSid: r.FormValue("MessageSid"),
		AccountSid: r.FormValue("AccountSid"),
		From:       r.FormValue("From"),
		To:         r.FormValue("To"),
		Body:       r.FormValue("Body"),
		NumMedia:   r.FormValue("NumMedia"),
	}, nil
}

// NormalizeAddress normalizes a provider address. A channel scheme prefix
// such as "whatsapp:" is preserved; the phone tail is reduced to E.164.
func NormalizeAddress(addr string) string {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return ""
	}
	scheme := ""
	if idx := strings.Index(addr, ":"); idx > 0 {
		scheme = addr[:idx+1]
		addr = addr[idx+1:]
	}
	var b strings.Builder
	for i, r := range addr {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else if r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return ""
	}
	if !strings.HasPrefix(digits, "+") {
		digits = "+" + digits
	}
	return scheme + digits
}

// BuildWebhookURL reconstructs the externally visible URL of a webhook
// request, honoring proxy forwarding headers. Twilio signs against this URL.
func BuildWebhookURL(r *http.Request, publicBaseURL string) string {
	if r.URL == nil {
		return ""
	}
	if publicBaseURL != "" {
		return strings.TrimRight(publicBaseURL, "/") + r.URL.RequestURI()
	}
	if r.URL.Scheme != "" {
		return r.URL.String()
	}
	scheme := r.Header.Get("X-Forwarded-Proto")
	if scheme == "" {
		scheme = "https"
		if r.TLS == nil {
			scheme = "http"
		}
	}
	host := r.Header.Get("X-Forwarded-Host")
	if host == "" {
		host = r.Host
	}
	return fmt.Sprintf("%s://%s%s", scheme, host, r.URL.RequestURI())
}
