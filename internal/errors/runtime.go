package errors

import (
	"errors"
	"fmt"
)

// ErrEmptyCode is returned when a run or submission is attempted with blank
// source code. No execution request is made.
var ErrEmptyCode = errors.New("please write some code before running tests")

// GatewayError is a failed call to the remote execution service.
type GatewayError struct {
	Op         string `json:"op"`
	StatusCode int    `json:"status_code,omitempty"`
	Message    string `json:"message"`
	Err        error  `json:"-"`
}

func (e *GatewayError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("execution gateway %s failed (%d): %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("execution gateway %s failed: %s", e.Op, e.Message)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// TimeoutError means polling gave up before the submission reached a
// terminal status.
type TimeoutError struct {
	Token    string `json:"token"`
	Attempts int    `json:"attempts"`
}

func (e *TimeoutError) Error() string {
	return "Execution timed out"
}

// ResolutionError is a question id that did not resolve to a question.
type ResolutionError struct {
	QuestionID uint  `json:"question_id"`
	Err        error `json:"-"`
}

func (e *ResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("question %d could not be resolved: %v", e.QuestionID, e.Err)
	}
	return fmt.Sprintf("question %d could not be resolved", e.QuestionID)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// PersistenceError is a submission that could not be saved. The caller may
// retry it.
type PersistenceError struct {
	SessionID string `json:"session_id"`
	Err       error  `json:"-"`
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to save submission for session %s: %v", e.SessionID, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func NewGatewayError(op string, statusCode int, message string, err error) *GatewayError {
	return &GatewayError{
		Op:         op,
		StatusCode: statusCode,
		Message:    message,
		Err:        err,
	}
}

// IsRetryable reports whether the user can retry the operation that failed.
func IsRetryable(err error) bool {
	var pe *PersistenceError
	var ge *GatewayError
	var te *TimeoutError
	return errors.As(err, &pe) || errors.As(err, &ge) || errors.As(err, &te)
}
