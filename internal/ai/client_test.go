package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Chat(t *testing.T) {
	var gotPayload chatRequest
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/routes/chat/", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		_, _ = w.Write([]byte(`{"response":"Swap submitted, tx: 0xabc"}`))
	}))
	defer srv.Close()

	client, err := NewClient(ClientConfig{BaseURL: srv.URL, APIKey: "secret"})
	require.NoError(t, err)

	reply, err := client.Chat(context.Background(), "Swap 100 FLR for USDC", "whatsapp:+15551234567")
	require.NoError(t, err)
	assert.Equal(t, "Swap submitted, tx: 0xabc", reply.Text)
	assert.Equal(t, "Swap 100 FLR for USDC", gotPayload.Message)
	assert.Equal(t, "whatsapp:+15551234567", gotPayload.User)
	assert.Equal(t, "Bearer secret", gotAuth)
}

func TestClient_Chat_EmptyMessageForwarded(t *testing.T) {
	var gotPayload chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		_, _ = w.Write([]byte(`{"response":"How can I help?"}`))
	}))
	defer srv.Close()

	client, err := NewClient(ClientConfig{BaseURL: srv.URL})
	require.NoError(t, err)

	reply, err := client.Chat(context.Background(), "", "whatsapp:+15551234567")
	require.NoError(t, err)
	assert.Equal(t, "", gotPayload.Message)
	assert.Equal(t, "How can I help?", reply.Text)
}

func TestClient_Chat_BackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer srv.Close()

	client, err := NewClient(ClientConfig{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.Chat(context.Background(), "hi", "user")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestClient_Chat_Non2xxStatus(t *testing.T) {
	// Any status outside 2xx is a failure even when below 400.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotModified)
	}))
	defer srv.Close()

	client, err := NewClient(ClientConfig{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.Chat(context.Background(), "hi", "user")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "304")
}

func TestClient_Chat_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	client, err := NewClient(ClientConfig{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.Chat(context.Background(), "hi", "user")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response failed")
}

func TestClient_Chat_Unreachable(t *testing.T) {
	client, err := NewClient(ClientConfig{BaseURL: "http://127.0.0.1:1"})
	require.NoError(t, err)

	_, err = client.Chat(context.Background(), "hi", "user")
	require.Error(t, err)
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient(ClientConfig{})
	require.Error(t, err)
}
