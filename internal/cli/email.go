package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/bakkerme/courier/internal/delivery"
	"github.com/bakkerme/courier/internal/email"
)

type EmailOptions struct {
	// Markdown renders the message words as Markdown before sending.
	Markdown bool
}

var emailDiagnostics = map[string]string{
	"from":    "No user email given.",
	"to":      "No to email given.",
	"subject": "No subject given.",
	"html":    "No message given.",
}

// RunEmail sends msg and prints status lines to stdout. Errors that explain a
// failure go to stderr. The return value is a process exit code.
func RunEmail(ctx context.Context, sender *email.Sender, msg email.Message, opts EmailOptions, stdout, stderr io.Writer) int {
	for _, field := range msg.MissingFields() {
		fmt.Fprintln(stdout, emailDiagnostics[field])
	}

	if opts.Markdown && msg.HTML != "" {
		html, err := email.RenderMarkdown(msg.HTML)
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return ExitFailure
		}
		msg.HTML = html
	}

	outcome := sender.Send(ctx, msg)
	if outcome.StatusCode != 0 {
		fmt.Fprintln(stdout, outcome.StatusCode)
	}
	if outcome.OK() {
		return ExitOK
	}

	var missingErr *delivery.MissingFieldsError
	if !errors.As(outcome.Err, &missingErr) && outcome.Reason != "" {
		fmt.Fprintf(stderr, "error: %s\n", outcome.Reason)
	}
	fmt.Fprintln(stdout, "Email failed to send.")
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Please check if your email is authenticated and the email you are sending to is correct.")
	return ExitFailure
}
