// Package judge0 is the client side of the remote sandboxed execution
// service. A submission is asynchronous: Submit returns a token that has to be
// polled until it reaches a terminal status.
package judge0

import (
	"bytes"
	"context"
	"encoding/json"
)

const (
	StatusInQueue    = 1
	StatusProcessing = 2
	StatusAccepted   = 3
)

// SubmissionRequest is one (code, language, stdin, expected output) tuple.
type SubmissionRequest struct {
	SourceCode     string `json:"source_code"`
	LanguageID     int    `json:"language_id"`
	Stdin          string `json:"stdin"`
	ExpectedOutput string `json:"expected_output"`
	Base64Encoded  bool   `json:"base64_encoded"`
}

type Status struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

// Measurement is a time or memory reading. The service reports time as a
// string and memory as a number, so both forms are accepted.
type Measurement string

func (m *Measurement) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*m = Measurement(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*m = Measurement(n.String())
	return nil
}

// StringPtr converts a nullable measurement to a nullable string.
func (m *Measurement) StringPtr() *string {
	if m == nil {
		return nil
	}
	s := string(*m)
	return &s
}

type ExecutionResult struct {
	Token         string       `json:"token,omitempty"`
	Status        Status       `json:"status"`
	Stdout        *string      `json:"stdout"`
	Stderr        *string      `json:"stderr"`
	CompileOutput *string      `json:"compile_output"`
	Message       *string      `json:"message"`
	Time          *Measurement `json:"time"`
	Memory        *Measurement `json:"memory"`
}

// IsTerminal reports whether polling can stop.
func (r *ExecutionResult) IsTerminal() bool {
	return r.Status.ID != StatusInQueue && r.Status.ID != StatusProcessing
}

func (r *ExecutionResult) IsAccepted() bool {
	return r.Status.ID == StatusAccepted
}

// Gateway is the contract the test runner consumes.
type Gateway interface {
	Submit(ctx context.Context, req SubmissionRequest) (string, error)
	PollResult(ctx context.Context, token string) (*ExecutionResult, error)
}
