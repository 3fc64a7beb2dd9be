package relay

import "fmt"

// Stage identifies which outbound leg of the relay failed.
type Stage string

const (
	// StageChat covers the call to the AI backend.
	StageChat Stage = "chat"
	// StageSend covers the send through the messaging provider.
	StageSend Stage = "send"
)

// Error tags a relay failure with the outbound stage it occurred in, so
// backend outages and provider send failures can be logged and counted
// separately without changing the webhook response contract.
type Error struct {
	Stage Stage
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("relay: %s stage failed: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func chatError(err error) *Error {
	return &Error{Stage: StageChat, Err: err}
}

func sendError(err error) *Error {
	return &Error{Stage: StageSend, Err: err}
}
