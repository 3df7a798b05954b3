package delivery

import (
	"fmt"
	"strings"
)

// MissingFieldPolicy decides what a sender does when a required field is empty.
type MissingFieldPolicy string

const (
	// PolicyReject fails the send before any network call.
	PolicyReject MissingFieldPolicy = "reject"
	// PolicyContinue logs the missing fields and calls the remote service anyway.
	PolicyContinue MissingFieldPolicy = "continue"
)

func ParsePolicy(raw string) (MissingFieldPolicy, error) {
	switch strings.TrimSpace(strings.ToLower(raw)) {
	case "", "reject", "strict":
		return PolicyReject, nil
	case "continue", "legacy":
		return PolicyContinue, nil
	default:
		return "", fmt.Errorf("invalid missing field policy %q (expected: reject/strict, continue/legacy)", raw)
	}
}
