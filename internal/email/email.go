package email

import (
	"context"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/bakkerme/courier/internal/delivery"
)

type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
}

// MissingFields returns the names of the empty fields, in field order.
func (m Message) MissingFields() []string {
	return delivery.MissingFields(
		delivery.Field{Name: "from", Value: m.From},
		delivery.Field{Name: "to", Value: m.To},
		delivery.Field{Name: "subject", Value: m.Subject},
		delivery.Field{Name: "html", Value: m.HTML},
	)
}

// Response carries the status code returned by the delivery service.
type Response struct {
	StatusCode int
}

// Client submits one message to a remote delivery service. A non-nil error
// means the service could not be reached or did not answer.
type Client interface {
	Send(ctx context.Context, message Message) (Response, error)
}

// Sender validates messages and maps the delivery service's answer to an Outcome.
type Sender struct {
	client   Client
	provider string
	policy   delivery.MissingFieldPolicy
}

type Option func(*Sender)

func WithPolicy(policy delivery.MissingFieldPolicy) Option {
	return func(s *Sender) {
		s.policy = policy
	}
}

// WithProvider labels logs and spans with the backing service name.
func WithProvider(name string) Option {
	return func(s *Sender) {
		s.provider = name
	}
}

func NewSender(client Client, opts ...Option) *Sender {
	s := &Sender{client: client, provider: "unknown", policy: delivery.PolicyReject}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send issues a single send request. Only status 202 counts as success.
func (s *Sender) Send(ctx context.Context, message Message) delivery.Outcome {
	ctx, logger, attemptID := delivery.StartAttempt(ctx, "email")

	if missing := message.MissingFields(); len(missing) > 0 {
		missingErr := &delivery.MissingFieldsError{Fields: missing}
		if s.policy != delivery.PolicyContinue {
			logger.Warn("email rejected before send", "missing", missing)
			return delivery.Failed("", missingErr)
		}
		logger.Warn("email missing required fields, sending anyway", "missing", missing)
	}
	if s.client == nil {
		return delivery.Failed("email client is not configured", nil)
	}

	tracer := otel.Tracer("courier/email")
	ctx, span := tracer.Start(ctx, "email.send")
	span.SetAttributes(
		attribute.String("email.provider", s.provider),
		attribute.String("attempt.id", attemptID),
	)
	defer span.End()

	resp, err := s.client.Send(ctx, message)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Error("email send failed", "provider", s.provider, "error", err)
		outcome := delivery.Failed("", &delivery.TransportError{Op: s.provider + ".send", Err: err})
		outcome.StatusCode = resp.StatusCode
		return outcome
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode != http.StatusAccepted {
		span.SetStatus(codes.Error, "unexpected status")
		logger.Warn("email not accepted", "provider", s.provider, "status_code", resp.StatusCode)
		outcome := delivery.Failed(fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
		outcome.StatusCode = resp.StatusCode
		return outcome
	}

	span.SetStatus(codes.Ok, "")
	logger.Info("email accepted", "provider", s.provider, "status_code", resp.StatusCode)
	return delivery.Succeeded(resp.StatusCode)
}
