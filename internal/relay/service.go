package relay

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/flarelabs/whatsapp-relay/internal/ai"
	"github.com/flarelabs/whatsapp-relay/internal/messaging"
	"github.com/flarelabs/whatsapp-relay/internal/observability/metrics"
	"github.com/flarelabs/whatsapp-relay/pkg/logging"
)

var relayTracer = otel.Tracer("relay.internal.relay")

// Sender dispatches one outbound message through the messaging provider.
type Sender interface {
	SendMessage(ctx context.Context, to, body string) (messaging.SendResult, error)
}

// Receipt reports a completed relay: the reply that was sent and the
// provider's id for the outbound message.
type Receipt struct {
	ReplyText string
	Sid       string
}

// Config wires the relay service dependencies.
type Config struct {
	Backend     ai.Backend
	Sender      Sender
	Logger      *logging.Logger
	Metrics     *metrics.RelayMetrics
	ChatTimeout time.Duration
	SendTimeout time.Duration
	// MaxConcurrentSends caps in-flight provider sends across all
	// webhook requests. Zero or negative means no cap.
	MaxConcurrentSends int
}

// Service bridges an inbound provider message to the AI backend and sends
// the generated reply back to the original sender. It holds no state between
// calls; each inbound message is a single linear transform.
type Service struct {
	backend     ai.Backend
	sender      Sender
	logger      *logging.Logger
	metrics     *metrics.RelayMetrics
	tracer      trace.Tracer
	chatTimeout time.Duration
	sendTimeout time.Duration
	sendSem     chan struct{}
}

// New creates a relay service.
func New(cfg Config) *Service {
	if cfg.Backend == nil {
		panic("relay: backend cannot be nil")
	}
	if cfg.Sender == nil {
		panic("relay: sender cannot be nil")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	chatTimeout := cfg.ChatTimeout
	if chatTimeout <= 0 {
		chatTimeout = 15 * time.Second
	}
	sendTimeout := cfg.SendTimeout
	if sendTimeout <= 0 {
		sendTimeout = 10 * time.Second
	}
	var sem chan struct{}
	if cfg.MaxConcurrentSends > 0 {
		sem = make(chan struct{}, cfg.MaxConcurrentSends)
	}
	return &Service{
		backend:     cfg.Backend,
		sender:      cfg.Sender,
		logger:      logger,
		metrics:     cfg.Metrics,
		tracer:      relayTracer,
		chatTimeout: chatTimeout,
		sendTimeout: sendTimeout,
		sendSem:     sem,
	}
}

// Handle forwards the inbound message to the AI backend and relays the reply
// to the original sender. Failures carry the stage they occurred in.
func (s *Service) Handle(ctx context.Context, msg *messaging.InboundMessage) (Receipt, error) {
	ctx, span := s.tracer.Start(ctx, "relay.handle")
	defer span.End()
	span.SetAttributes(
		attribute.String("relay.from", msg.From),
		attribute.String("relay.message_sid", msg.MessageSid),
	)

	chatCtx, cancelChat := context.WithTimeout(ctx, s.chatTimeout)
	defer cancelChat()
	chatStart := time.Now()
	reply, err := s.backend.Chat(chatCtx, msg.Body, msg.From)
	s.metrics.ObserveChatLatency(time.Since(chatStart).Seconds())
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveStageFailure(string(StageChat))
		s.metrics.ObserveInbound("chat_error")
		return Receipt{}, chatError(err)
	}

	if s.sendSem != nil {
		select {
		case s.sendSem <- struct{}{}:
			defer func() { <-s.sendSem }()
		case <-ctx.Done():
			span.RecordError(ctx.Err())
			s.metrics.ObserveStageFailure(string(StageSend))
			s.metrics.ObserveInbound("send_error")
			return Receipt{}, sendError(ctx.Err())
		}
	}

	to := messaging.NormalizeAddress(msg.From)
	if to == "" {
		to = msg.From
	}
	sendCtx, cancelSend := context.WithTimeout(ctx, s.sendTimeout)
	defer cancelSend()
	sendStart := time.Now()
	res, err := s.sender.SendMessage(sendCtx, to, reply.Text)
	s.metrics.ObserveSendLatency(time.Since(sendStart).Seconds())
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveStageFailure(string(StageSend))
		s.metrics.ObserveInbound("send_error")
		return Receipt{}, sendError(err)
	}

	s.metrics.ObserveInbound("ok")
	s.logger.Info("relayed AI reply",
		"to", to,
		"sid", res.Sid,
		"inbound_sid", msg.MessageSid,
	)
	return Receipt{ReplyText: reply.Text, Sid: res.Sid}, nil
}
