// Package runner executes candidate code against test cases through the
// remote execution gateway and aggregates the per-case results.
package runner

import (
	"context"
	"log/slog"
	"strings"
	"time"

	apperrors "github.com/SAP-F-2025/coding-assessment/internal/errors"
	"github.com/SAP-F-2025/coding-assessment/internal/judge0"
	"github.com/SAP-F-2025/coding-assessment/internal/models"
)

const (
	StatusAccepted = "Accepted"
	StatusError    = "Error"

	DefaultMaxPollAttempts = 10
	DefaultPollInterval    = time.Second
)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Config holds the polling budget for one test case.
type Config struct {
	MaxPollAttempts int
	PollInterval    time.Duration
}

type Runner struct {
	gateway judge0.Gateway
	policy  AggregationPolicy
	config  Config
	sleep   SleepFunc
	logger  *slog.Logger
}

type Option func(*Runner)

func WithConfig(cfg Config) Option {
	return func(r *Runner) {
		if cfg.MaxPollAttempts > 0 {
			r.config.MaxPollAttempts = cfg.MaxPollAttempts
		}
		if cfg.PollInterval > 0 {
			r.config.PollInterval = cfg.PollInterval
		}
	}
}

func WithPolicy(policy AggregationPolicy) Option {
	return func(r *Runner) {
		r.policy = policy
	}
}

func WithSleep(sleep SleepFunc) Option {
	return func(r *Runner) {
		r.sleep = sleep
	}
}

func New(gateway judge0.Gateway, logger *slog.Logger, opts ...Option) *Runner {
	r := &Runner{
		gateway: gateway,
		policy:  FirstFailureWins{},
		config: Config{
			MaxPollAttempts: DefaultMaxPollAttempts,
			PollInterval:    DefaultPollInterval,
		},
		sleep:  contextSleep,
		logger: logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes sourceCode against every test case in order. Cases are
// submitted one at a time and a failing case never stops the ones after it.
func (r *Runner) Run(ctx context.Context, sourceCode string, languageID int, testCases []models.TestCase) (*Outcome, error) {
	if strings.TrimSpace(sourceCode) == "" {
		return nil, apperrors.ErrEmptyCode
	}

	results := make([]CaseResult, 0, len(testCases))
	for i, tc := range testCases {
		result := r.runCase(ctx, i, sourceCode, languageID, tc)
		r.logger.DebugContext(ctx, "Test case finished",
			"case_index", i,
			"passed", result.Passed,
			"status", result.Status)
		results = append(results, result)
	}

	outcome := r.policy.Aggregate(results)
	r.logger.InfoContext(ctx, "Test run finished",
		"language_id", languageID,
		"passed", outcome.PassedTestCases,
		"total", outcome.TotalTestCases,
		"status", outcome.Status)
	return &outcome, nil
}

func (r *Runner) runCase(ctx context.Context, index int, sourceCode string, languageID int, tc models.TestCase) CaseResult {
	token, err := r.gateway.Submit(ctx, judge0.SubmissionRequest{
		SourceCode:     sourceCode,
		LanguageID:     languageID,
		Stdin:          tc.Input,
		ExpectedOutput: tc.Output,
		Base64Encoded:  false,
	})
	if err != nil {
		return errorResult(index, err)
	}

	execution, err := r.poll(ctx, token)
	if err != nil {
		return errorResult(index, err)
	}

	result := CaseResult{
		Index:         index,
		Status:        execution.Status.Description,
		Stdout:        execution.Stdout,
		Stderr:        execution.Stderr,
		CompileOutput: execution.CompileOutput,
		Time:          execution.Time.StringPtr(),
		Memory:        execution.Memory.StringPtr(),
	}
	if execution.IsAccepted() {
		stdout := ""
		if execution.Stdout != nil {
			stdout = *execution.Stdout
		}
		result.Stdout = &stdout
		result.Passed = strings.TrimSpace(stdout) == strings.TrimSpace(tc.Output)
	}
	return result
}

func (r *Runner) poll(ctx context.Context, token string) (*judge0.ExecutionResult, error) {
	for attempt := 0; attempt < r.config.MaxPollAttempts; attempt++ {
		if err := r.sleep(ctx, r.config.PollInterval); err != nil {
			return nil, err
		}
		execution, err := r.gateway.PollResult(ctx, token)
		if err != nil {
			return nil, err
		}
		if execution.IsTerminal() {
			return execution, nil
		}
	}
	return nil, &apperrors.TimeoutError{Token: token, Attempts: r.config.MaxPollAttempts}
}

func errorResult(index int, err error) CaseResult {
	msg := err.Error()
	return CaseResult{
		Index:  index,
		Status: StatusError,
		Stderr: &msg,
		Err:    err,
	}
}

func contextSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
