package delivery

import "fmt"

type Status int

const (
	StatusFailure Status = iota
	StatusSuccess
)

func (s Status) String() string {
	if s == StatusSuccess {
		return "success"
	}
	return "failed"
}

// Outcome is the coarse result of a single send attempt.
// StatusCode is set only when the remote service answered with one.
type Outcome struct {
	Status     Status
	StatusCode int
	Reason     string
	Err        error
}

func Succeeded(statusCode int) Outcome {
	return Outcome{Status: StatusSuccess, StatusCode: statusCode}
}

func Failed(reason string, err error) Outcome {
	if reason == "" && err != nil {
		reason = err.Error()
	}
	return Outcome{Status: StatusFailure, Reason: reason, Err: err}
}

func (o Outcome) OK() bool {
	return o.Status == StatusSuccess
}

// String renders the outcome as "success" or "failed".
func (o Outcome) String() string {
	return o.Status.String()
}

// Describe is String plus the failure reason, for logs and CLI output.
func (o Outcome) Describe() string {
	if o.OK() || o.Reason == "" {
		return o.String()
	}
	return fmt.Sprintf("%s: %s", o.String(), o.Reason)
}
