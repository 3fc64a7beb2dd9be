package ai

import (
	"context"

	"github.com/flarelabs/whatsapp-relay/pkg/logging"
)

// FallbackBackend wraps a primary backend with a fallback provider.
// If the primary fails, it automatically retries with the fallback.
type FallbackBackend struct {
	primary  Backend
	fallback Backend
	logger   *logging.Logger
}

// NewFallbackBackend creates a new fallback-enabled backend.
// If fallback is nil, the backend will only use the primary provider.
func NewFallbackBackend(primary, fallback Backend, logger *logging.Logger) *FallbackBackend {
	if logger == nil {
		logger = logging.Default()
	}
	return &FallbackBackend{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// Chat sends the message to the primary backend.
// If it fails and a fallback is configured, retries with the fallback.
func (b *FallbackBackend) Chat(ctx context.Context, message, user string) (Reply, error) {
	reply, err := b.primary.Chat(ctx, message, user)
	if err == nil {
		return reply, nil
	}

	b.logger.Warn("primary AI backend failed, attempting fallback",
		"error", err.Error(),
		"fallback_available", b.fallback != nil,
	)

	if b.fallback == nil {
		return Reply{}, err
	}

	fallbackReply, fallbackErr := b.fallback.Chat(ctx, message, user)
	if fallbackErr != nil {
		b.logger.Error("fallback AI backend also failed",
			"primary_error", err.Error(),
			"fallback_error", fallbackErr.Error(),
		)
		// Return the fallback error since that was the last attempt
		return Reply{}, fallbackErr
	}

	b.logger.Info("fallback AI backend succeeded after primary failure")
	return fallbackReply, nil
}
