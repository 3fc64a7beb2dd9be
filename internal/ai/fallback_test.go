package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBackend struct {
	reply Reply
	err   error
	calls int
}

func (s *stubBackend) Chat(ctx context.Context, message, user string) (Reply, error) {
	s.calls++
	return s.reply, s.err
}

func TestFallbackBackend_PrimarySucceeds(t *testing.T) {
	primary := &stubBackend{reply: Reply{Text: "primary"}}
	fallback := &stubBackend{reply: Reply{Text: "fallback"}}
	b := NewFallbackBackend(primary, fallback, nil)

	reply, err := b.Chat(context.Background(), "hi", "user")
	require.NoError(t, err)
	assert.Equal(t, "primary", reply.Text)
	assert.Equal(t, 0, fallback.calls)
}

func TestFallbackBackend_PrimaryFails(t *testing.T) {
	primary := &stubBackend{err: errors.New("boom")}
	fallback := &stubBackend{reply: Reply{Text: "fallback"}}
	b := NewFallbackBackend(primary, fallback, nil)

	reply, err := b.Chat(context.Background(), "hi", "user")
	require.NoError(t, err)
	assert.Equal(t, "fallback", reply.Text)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, fallback.calls)
}

func TestFallbackBackend_BothFail(t *testing.T) {
	primary := &stubBackend{err: errors.New("primary down")}
	fallback := &stubBackend{err: errors.New("fallback down")}
	b := NewFallbackBackend(primary, fallback, nil)

	_, err := b.Chat(context.Background(), "hi", "user")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fallback down")
}

func TestFallbackBackend_NoFallback(t *testing.T) {
	primary := &stubBackend{err: errors.New("primary down")}
	b := NewFallbackBackend(primary, nil, nil)

	_, err := b.Chat(context.Background(), "hi", "user")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "primary down")
}
