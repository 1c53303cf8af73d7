package logging

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogSubmissionSuccess(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	ctx := WithLogger(context.Background(), zap.New(core))

	LogSubmission(ctx, SubmissionAudit{Front: "page", Session: "s-1", NameSize: 3, Result: AuditSuccess})

	entries := recorded.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Level != zapcore.InfoLevel || entries[0].Message != "Audit event" {
		t.Fatalf("unexpected entry: %v %q", entries[0].Level, entries[0].Message)
	}
	fields := entries[0].ContextMap()
	want := map[string]any{
		"audit.action":     "greet",
		"audit.front":      "page",
		"audit.session":    "s-1",
		"audit.name_bytes": int64(3),
		"audit.result":     AuditSuccess,
	}
	for k, v := range want {
		if fields[k] != v {
			t.Errorf("field %s = %v, want %v", k, fields[k], v)
		}
	}
	if _, ok := fields["error"]; ok {
		t.Error("did not expect an error field on success")
	}
}

func TestLogSubmissionFailure(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	ctx := WithLogger(context.Background(), zap.New(core))

	LogSubmission(ctx, SubmissionAudit{Front: "cli", Result: AuditFailure, Err: errors.New("upstream down")})

	entries := recorded.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Level != zapcore.WarnLevel {
		t.Fatalf("expected warn level, got %v", entries[0].Level)
	}
	fields := entries[0].ContextMap()
	if fields["audit.result"] != AuditFailure || fields["error"] != "upstream down" {
		t.Fatalf("unexpected fields: %+v", fields)
	}
}
