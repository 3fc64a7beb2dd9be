package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIBackend implements Backend using an OpenAI-compatible chat API.
type OpenAIBackend struct {
	client       chatCompleter
	model        string
	systemPrompt string
}

// NewOpenAIBackend creates a new OpenAI backend.
func NewOpenAIBackend(apiKey, model, systemPrompt string) (*OpenAIBackend, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("ai: openai api key is required")
	}
	if strings.TrimSpace(model) == "" {
		model = openai.GPT4o
	}
	return &OpenAIBackend{
		client:       openai.NewClient(apiKey),
		model:        model,
		systemPrompt: systemPrompt,
	}, nil
}

// Chat sends a single-turn completion request and returns the response text.
func (b *OpenAIBackend) Chat(ctx context.Context, message, user string) (Reply, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if strings.TrimSpace(b.systemPrompt) != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: b.systemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: message,
	})

	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    b.model,
		Messages: messages,
		User:     user,
	})
	if err != nil {
		return Reply{}, fmt.Errorf("ai: openai completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Reply{}, errors.New("ai: openai returned no choices")
	}

	return Reply{Text: strings.TrimSpace(resp.Choices[0].Message.Content)}, nil
}
