package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiBackend implements Backend using Google's Gemini API.
type GeminiBackend struct {
	client            *genai.Client
	modelID           string
	systemInstruction string
}

// NewGeminiBackend creates a new Gemini backend.
func NewGeminiBackend(ctx context.Context, apiKey, modelID, systemInstruction string) (*GeminiBackend, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("ai: gemini api key is required")
	}
	if strings.TrimSpace(modelID) == "" {
		modelID = "gemini-1.5-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("ai: failed to create gemini client: %w", err)
	}

	return &GeminiBackend{
		client:            client,
		modelID:           modelID,
		systemInstruction: systemInstruction,
	}, nil
}

// Chat sends a single-turn message to Gemini and returns the response text.
func (b *GeminiBackend) Chat(ctx context.Context, message, user string) (Reply, error) {
	model := b.client.GenerativeModel(b.modelID)
	if strings.TrimSpace(b.systemInstruction) != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(b.systemInstruction))
	}

	resp, err := model.GenerateContent(ctx, genai.Text(message))
	if err != nil {
		return Reply{}, fmt.Errorf("ai: gemini completion failed: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return Reply{}, errors.New("ai: gemini returned no candidates")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return Reply{}, errors.New("ai: gemini returned empty content")
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}

	return Reply{Text: strings.TrimSpace(text.String())}, nil
}

// Close releases resources held by the Gemini client.
func (b *GeminiBackend) Close() error {
	if b.client != nil {
		return b.client.Close()
	}
	return nil
}
