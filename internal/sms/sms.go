package sms

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/bakkerme/courier/internal/delivery"
)

// ErrNumberNotFound is returned by Client.LookupNumber when the lookup
// service does not know the number.
var ErrNumberNotFound = errors.New("sms: phone number not found")

type Message struct {
	From string
	To   string
	Body string
}

// MissingFields returns the names of the empty fields, in field order.
func (m Message) MissingFields() []string {
	return delivery.MissingFields(
		delivery.Field{Name: "from", Value: m.From},
		delivery.Field{Name: "to", Value: m.To},
		delivery.Field{Name: "body", Value: m.Body},
	)
}

// Client talks to the telephony provider.
type Client interface {
	// LookupNumber returns nil for a verified number, ErrNumberNotFound for an
	// unknown one, and any other error when the lookup itself failed.
	LookupNumber(ctx context.Context, number string) error
	CreateMessage(ctx context.Context, message Message) error
}

type VerdictKind int

const (
	VerdictValid VerdictKind = iota
	VerdictInvalidNumber
	VerdictTransportError
)

func (k VerdictKind) String() string {
	switch k {
	case VerdictValid:
		return "valid"
	case VerdictInvalidNumber:
		return "invalid_number"
	default:
		return "transport_error"
	}
}

// Verdict is the result of verifying one phone number.
// Err is set for VerdictTransportError only.
type Verdict struct {
	Kind   VerdictKind
	Number string
	Err    error
}

func (v Verdict) Valid() bool {
	return v.Kind == VerdictValid
}

// ValidateNumber asks the lookup service about number. Only ErrNumberNotFound
// yields VerdictInvalidNumber; every other lookup failure is a transport error.
func ValidateNumber(ctx context.Context, client Client, number string) Verdict {
	tracer := otel.Tracer("courier/sms")
	ctx, span := tracer.Start(ctx, "sms.lookup")
	defer span.End()

	err := client.LookupNumber(ctx, number)
	switch {
	case err == nil:
		span.SetAttributes(attribute.String("sms.verdict", VerdictValid.String()))
		return Verdict{Kind: VerdictValid, Number: number}
	case errors.Is(err, ErrNumberNotFound):
		span.SetAttributes(attribute.String("sms.verdict", VerdictInvalidNumber.String()))
		return Verdict{Kind: VerdictInvalidNumber, Number: number}
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Verdict{Kind: VerdictTransportError, Number: number, Err: err}
	}
}

type Sender struct {
	client Client
	policy delivery.MissingFieldPolicy
}

type Option func(*Sender)

func WithPolicy(policy delivery.MissingFieldPolicy) Option {
	return func(s *Sender) {
		s.policy = policy
	}
}

func NewSender(client Client, opts ...Option) *Sender {
	s := &Sender{client: client, policy: delivery.PolicyReject}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send verifies From, then To, and submits the message only when both are valid.
func (s *Sender) Send(ctx context.Context, message Message) delivery.Outcome {
	ctx, logger, attemptID := delivery.StartAttempt(ctx, "sms")

	if missing := message.MissingFields(); len(missing) > 0 {
		missingErr := &delivery.MissingFieldsError{Fields: missing}
		if s.policy != delivery.PolicyContinue {
			logger.Warn("sms rejected before lookup", "missing", missing)
			return delivery.Failed("", missingErr)
		}
		logger.Warn("sms missing required fields, continuing", "missing", missing)
	}
	if s.client == nil {
		return delivery.Failed("sms client is not configured", nil)
	}

	tracer := otel.Tracer("courier/sms")
	ctx, span := tracer.Start(ctx, "sms.send")
	span.SetAttributes(attribute.String("attempt.id", attemptID))
	defer span.End()

	for _, step := range []struct {
		role   string
		number string
	}{
		{"from", message.From},
		{"to", message.To},
	} {
		verdict := ValidateNumber(ctx, s.client, step.number)
		switch verdict.Kind {
		case VerdictValid:
			logger.Debug("number verified", "role", step.role)
			continue
		case VerdictInvalidNumber:
			span.SetStatus(codes.Error, "number failed verification")
			logger.Warn("number failed verification", "role", step.role, "number", step.number)
			return delivery.Failed(
				fmt.Sprintf("%s number %q failed verification", step.role, step.number),
				fmt.Errorf("%s number: %w", step.role, delivery.ErrInvalidRecipient),
			)
		default:
			span.RecordError(verdict.Err)
			span.SetStatus(codes.Error, verdict.Err.Error())
			logger.Error("number lookup failed", "role", step.role, "error", verdict.Err)
			return delivery.Failed("", &delivery.TransportError{Op: "lookup", Err: verdict.Err})
		}
	}

	if err := s.client.CreateMessage(ctx, message); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Error("sms send failed", "error", err)
		return delivery.Failed("", &delivery.TransportError{Op: "send", Err: err})
	}

	span.SetStatus(codes.Ok, "")
	logger.Info("sms sent")
	return delivery.Succeeded(0)
}
