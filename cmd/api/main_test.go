package main

import (
	"context"
	"testing"

	appconfig "github.com/flarelabs/whatsapp-relay/internal/config"
	"github.com/flarelabs/whatsapp-relay/pkg/logging"
)

func TestBuildAIBackend_NoneConfigured(t *testing.T) {
	logger := logging.New("error")
	cfg := &appconfig.Config{}
	if _, _, _, err := buildAIBackend(context.Background(), cfg, logger); err == nil {
		t.Fatal("expected error when no backend configured")
	}
}

func TestBuildAIBackend_HTTPPrimary(t *testing.T) {
	logger := logging.New("error")
	cfg := &appconfig.Config{AIBackendURL: "http://ai-backend:8000"}
	backend, name, closeBackend, err := buildAIBackend(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if backend == nil {
		t.Fatal("expected backend")
	}
	if name != "http" {
		t.Fatalf("expected http backend, got %s", name)
	}
	if closeBackend == nil {
		t.Fatal("expected a close func")
	}
	if err := closeBackend(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
}

func TestBuildAIBackend_OpenAIDirect(t *testing.T) {
	logger := logging.New("error")
	cfg := &appconfig.Config{OpenAIAPIKey: "sk-test", OpenAIModel: "gpt-4o"}
	_, name, closeBackend, err := buildAIBackend(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "openai" {
		t.Fatalf("expected openai backend, got %s", name)
	}
	if err := closeBackend(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
}

func TestBuildAIBackend_HTTPWithFallback(t *testing.T) {
	logger := logging.New("error")
	cfg := &appconfig.Config{
		AIBackendURL: "http://ai-backend:8000",
		OpenAIAPIKey: "sk-test",
	}
	_, name, closeBackend, err := buildAIBackend(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "http+openai" {
		t.Fatalf("expected chained backend, got %s", name)
	}
	if err := closeBackend(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
}
