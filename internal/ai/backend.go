package ai

import "context"

// Reply is the assistant response produced for a single user message.
type Reply struct {
	Text string
}

// Backend generates a reply for one user message. The user identifier lets
// stateful backends key any per-sender context they keep.
type Backend interface {
	Chat(ctx context.Context, message, user string) (Reply, error)
}
