package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/bakkerme/courier/internal/delivery"
	"github.com/bakkerme/courier/internal/sms"
)

var smsDiagnostics = map[string]string{
	"from": "Your phone number is required.",
	"to":   "The receiver's phone number is required.",
	"body": "A message is required.",
}

// RunSMS sends msg and prints a single result line to stdout.
func RunSMS(ctx context.Context, sender *sms.Sender, msg sms.Message, stdout, stderr io.Writer) int {
	for _, field := range msg.MissingFields() {
		fmt.Fprintln(stdout, smsDiagnostics[field])
	}

	outcome := sender.Send(ctx, msg)
	if outcome.OK() {
		fmt.Fprintln(stdout, "Message sent.")
		return ExitOK
	}

	var (
		missingErr   *delivery.MissingFieldsError
		transportErr *delivery.TransportError
	)
	switch {
	case errors.Is(outcome.Err, delivery.ErrInvalidRecipient):
		fmt.Fprintln(stdout, "The phone numbers provided are not twilio verified numbers.")
	case errors.As(outcome.Err, &missingErr):
		fmt.Fprintln(stdout, "Message not sent.")
	case errors.As(outcome.Err, &transportErr):
		fmt.Fprintf(stdout, "Message failed to send: %s\n", outcome.Reason)
	default:
		fmt.Fprintf(stderr, "error: %s\n", outcome.Reason)
		fmt.Fprintln(stdout, "Message failed to send.")
	}
	return ExitFailure
}
