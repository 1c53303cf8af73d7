package logging

import (
	"context"

	"go.uber.org/zap"
)

// Audit results recorded for each submission.
const (
	AuditSuccess = "success"
	AuditFailure = "failure"
)

// SubmissionAudit describes one form submission for the audit trail.
type SubmissionAudit struct {
	Front    string // "page", "wasm", "cli" or "api"
	Session  string
	NameSize int
	Result   string
	Err      error
}

// LogSubmission logs a structured audit event for a greeting submission.
// The submitted name is never logged; only its length.
func LogSubmission(ctx context.Context, a SubmissionAudit) {
	fields := []zap.Field{
		zap.String("audit.action", "greet"),
		zap.String("audit.front", a.Front),
		zap.String("audit.session", a.Session),
		zap.Int("audit.name_bytes", a.NameSize),
		zap.String("audit.result", a.Result),
	}
	if a.Err != nil {
		fields = append(fields, zap.Error(a.Err))
		LoggerFromContext(ctx).Warn("Audit event", fields...)
		return
	}
	LoggerFromContext(ctx).Info("Audit event", fields...)
}
