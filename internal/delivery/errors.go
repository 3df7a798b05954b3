package delivery

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRecipient reports a phone number that failed carrier verification.
var ErrInvalidRecipient = errors.New("recipient failed verification")

// MissingFieldsError lists required request fields that were empty.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// TransportError wraps a failure talking to a remote service. Op names the
// remote operation, e.g. "sendgrid.send" or "twilio.lookup".
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// MissingFields returns the names of the empty values, in field order.
// Whitespace is content: " " is not missing.
func MissingFields(fields ...Field) []string {
	var missing []string
	for _, f := range fields {
		if f.Value == "" {
			missing = append(missing, f.Name)
		}
	}
	return missing
}

type Field struct {
	Name  string
	Value string
}
