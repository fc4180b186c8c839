package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	apperrors "github.com/SAP-F-2025/coding-assessment/internal/errors"
)

// ServiceLogger provides structured logging for service layer operations
type ServiceLogger struct {
	logger *slog.Logger
	config LogConfig
}

type LogConfig struct {
	Service     string
	Component   string
	EnableDebug bool
}

func NewServiceLogger(logger *slog.Logger, config LogConfig) *ServiceLogger {
	return &ServiceLogger{
		logger: logger.With("service", config.Service, "component", config.Component),
		config: config,
	}
}

// ===== OPERATION LOGGING =====

func (l *ServiceLogger) LogOperation(ctx context.Context, operation string, resourceID uint, resourceType string, duration time.Duration, err error) {
	level := slog.LevelInfo
	status := "success"

	if err != nil {
		level = slog.LevelError
		status = "error"

		switch {
		case IsValidation(err) || IsBusinessRule(err):
			level = slog.LevelWarn
			status = "validation_error"
		case IsConflict(err):
			level = slog.LevelWarn
			status = "conflict"
		case IsNotFound(err):
			status = "not_found"
			level = slog.LevelInfo
		}
	}

	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.Uint64("resource_id", uint64(resourceID)),
		slog.String("resource_type", resourceType),
		slog.String("status", status),
		slog.Duration("duration", duration),
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}

	l.logger.LogAttrs(ctx, level, fmt.Sprintf("%s operation %s", operation, status), attrs...)
}

func (l *ServiceLogger) LogValidationError(ctx context.Context, operation string, validationErrors ValidationErrors) {
	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.Int("error_count", len(validationErrors)),
	}

	for i, err := range validationErrors {
		if i >= 5 {
			break
		}
		attrs = append(attrs, slog.Group(fmt.Sprintf("error_%d", i+1),
			slog.String("field", err.Field),
			slog.String("message", err.Message),
		))
	}

	l.logger.LogAttrs(ctx, slog.LevelWarn, "Validation failed", attrs...)
}

func (l *ServiceLogger) LogBusinessRuleViolation(ctx context.Context, operation string, rule *BusinessRuleError) {
	l.logger.LogAttrs(ctx, slog.LevelWarn, "Business rule violation",
		slog.String("operation", operation),
		slog.String("rule", rule.Rule),
		slog.String("message", rule.Message),
		slog.Any("context", rule.Context),
	)
}

func (l *ServiceLogger) Debug(ctx context.Context, msg string, args ...any) {
	if l.config.EnableDebug {
		l.logger.DebugContext(ctx, msg, args...)
	}
}

// ===== CONTEXTUAL LOGGER =====

// ContextualLogger times one operation and logs its outcome
type ContextualLogger struct {
	logger    *ServiceLogger
	operation string
	startTime time.Time
	ctx       context.Context
}

func (l *ServiceLogger) WithOperation(ctx context.Context, operation string) *ContextualLogger {
	return &ContextualLogger{
		logger:    l,
		operation: operation,
		startTime: time.Now(),
		ctx:       ctx,
	}
}

func (cl *ContextualLogger) LogResult(resourceID uint, resourceType string, err error) {
	cl.logger.LogOperation(cl.ctx, cl.operation, resourceID, resourceType, time.Since(cl.startTime), err)

	if err == nil {
		return
	}
	var validationErrors ValidationErrors
	var businessErr *BusinessRuleError
	switch {
	case errors.As(err, &validationErrors):
		cl.logger.LogValidationError(cl.ctx, cl.operation, validationErrors)
	case errors.As(err, &businessErr):
		cl.logger.LogBusinessRuleViolation(cl.ctx, cl.operation, businessErr)
	}
}

// ===== ERROR FORMATTING HELPERS =====

func FormatError(err error) map[string]interface{} {
	if err == nil {
		return nil
	}

	result := map[string]interface{}{
		"message": err.Error(),
		"type":    "unknown",
	}

	var validationErrors ValidationErrors
	var businessErr *BusinessRuleError
	var gatewayErr *apperrors.GatewayError
	var timeoutErr *apperrors.TimeoutError
	var persistenceErr *apperrors.PersistenceError

	switch {
	case errors.As(err, &validationErrors):
		result["type"] = "validation"
		result["count"] = len(validationErrors)
		fields := make([]map[string]interface{}, len(validationErrors))
		for i, ve := range validationErrors {
			fields[i] = map[string]interface{}{
				"field":   ve.Field,
				"message": ve.Message,
			}
		}
		result["errors"] = fields
	case errors.As(err, &businessErr):
		result["type"] = "business_rule"
		result["rule"] = businessErr.Rule
		result["context"] = businessErr.Context
	case errors.As(err, &gatewayErr):
		result["type"] = "gateway"
		result["op"] = gatewayErr.Op
		result["status_code"] = gatewayErr.StatusCode
	case errors.As(err, &timeoutErr):
		result["type"] = "timeout"
		result["attempts"] = timeoutErr.Attempts
	case errors.As(err, &persistenceErr):
		result["type"] = "persistence"
		result["session_id"] = persistenceErr.SessionID
	}
	result["retryable"] = apperrors.IsRetryable(err)

	return result
}
