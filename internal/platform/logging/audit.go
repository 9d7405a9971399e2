package logging

import (
	"context"

	"go.uber.org/zap"
)

// Audit results.
const (
	AuditSuccess = "success"
	AuditFailure = "failure"
)

// AuditEvent is a compliance record of an action taken against a resource.
type AuditEvent struct {
	Action       string // e.g. "read", "update"
	Actor        string // identity of the caller; "system" when unresolved
	ResourceType string // e.g. "profile"
	ResourceID   string
	Result       string // AuditSuccess or AuditFailure
	Details      map[string]any
}

// LogAuditEvent logs a structured audit event for security and compliance.
// Details must never carry personal data from request payloads.
func LogAuditEvent(ctx context.Context, ev AuditEvent) {
	LoggerFromContext(ctx).Info("Audit event",
		zap.String("audit.action", ev.Action),
		zap.String("audit.user_id", ev.Actor),
		zap.String("audit.resource_type", ev.ResourceType),
		zap.String("audit.resource_id", ev.ResourceID),
		zap.String("audit.result", ev.Result),
		zap.Any("audit.details", ev.Details),
	)
}
