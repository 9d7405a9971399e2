package profile

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/janisto/kyc-compliance/internal/platform/alerts"
	applog "github.com/janisto/kyc-compliance/internal/platform/logging"
	"github.com/janisto/kyc-compliance/internal/platform/metrics"
)

// Alert kinds published by ObservedService.
const (
	AlertProfileUpdated      = "profile.updated"
	AlertProfileUpdateFailed = "profile.update_failed"
)

type actorKey struct{}

// WithActor attaches the caller identity used for read audit records.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

func actorFromContext(ctx context.Context) string {
	if actor, ok := ctx.Value(actorKey{}).(string); ok && actor != "" {
		return actor
	}
	return DefaultEditor
}

// ObservedService wraps a Service with audit logging, metrics, and alerts.
// Storage faults are logged with identifiers only, never the payload.
type ObservedService struct {
	next    Service
	alerts  alerts.Publisher
	metrics *metrics.Metrics
}

// NewObservedService decorates next. A nil publisher disables alerts and nil
// metrics disables instrumentation.
func NewObservedService(next Service, pub alerts.Publisher, m *metrics.Metrics) *ObservedService {
	return &ObservedService{next: next, alerts: pub, metrics: m}
}

func (s *ObservedService) Get(ctx context.Context, id string) (*MergedProfile, error) {
	p, err := s.next.Get(ctx, id)
	switch {
	case errors.Is(err, ErrNotFound):
		s.metrics.IncrementRead("not_found")
		return nil, err
	case err != nil:
		s.metrics.IncrementRead("error")
		applog.LogError(ctx, "profile read failed", err, zap.String("profileId", id))
		applog.LogAuditEvent(ctx, applog.AuditEvent{
			Action:       "read",
			Actor:        actorFromContext(ctx),
			ResourceType: "profile",
			ResourceID:   id,
			Result:       applog.AuditFailure,
			Details:      map[string]any{"error": categorizeError(err)},
		})
		return nil, err
	}

	s.metrics.IncrementRead("found")
	applog.LogAuditEvent(ctx, applog.AuditEvent{
		Action:       "read",
		Actor:        actorFromContext(ctx),
		ResourceType: "profile",
		ResourceID:   id,
		Result:       applog.AuditSuccess,
		Details:      map[string]any{"extended": p.Extended != nil},
	})
	return p, nil
}

func (s *ObservedService) Update(ctx context.Context, id string, params UpdateParams) (*UpdateResult, error) {
	start := time.Now()
	result, err := s.next.Update(ctx, id, params)
	s.metrics.ObserveUpdateLatency(time.Since(start))

	actor := editor(params.EditedBy)
	if err != nil {
		s.metrics.IncrementUpdate("failure", "none")
		applog.LogError(ctx, "profile update failed", err,
			zap.String("profileId", id),
			zap.String("originalName", params.OriginalName),
		)
		applog.LogAuditEvent(ctx, applog.AuditEvent{
			Action:       "update",
			Actor:        actor,
			ResourceType: "profile",
			ResourceID:   id,
			Result:       applog.AuditFailure,
			Details:      map[string]any{"error": categorizeError(err)},
		})
		s.publish(ctx, alerts.Alert{
			Kind:      AlertProfileUpdateFailed,
			Level:     alerts.LevelError,
			Message:   "Profile update failed",
			ProfileID: id,
		})
		return nil, err
	}

	s.metrics.IncrementUpdate("success", string(result.Branch))
	applog.LogAuditEvent(ctx, applog.AuditEvent{
		Action:       "update",
		Actor:        actor,
		ResourceType: "profile",
		ResourceID:   id,
		Result:       applog.AuditSuccess,
		Details:      map[string]any{"branch": string(result.Branch), "editId": result.EditID},
	})
	s.publish(ctx, alerts.Alert{
		Kind:      AlertProfileUpdated,
		Level:     alerts.LevelSuccess,
		Message:   "Profile updated successfully",
		ProfileID: id,
	})
	return result, nil
}

func (s *ObservedService) publish(ctx context.Context, a alerts.Alert) {
	if s.alerts != nil {
		s.alerts.Publish(ctx, a)
	}
}

// categorizeError converts errors to audit-safe categories.
func categorizeError(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	case errors.Is(err, ErrStorage):
		return "storage_error"
	default:
		return "internal_error"
	}
}

var _ Service = (*ObservedService)(nil)
