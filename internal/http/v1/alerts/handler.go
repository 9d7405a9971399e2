// Package alerts streams dashboard notifications over server-sent events.
package alerts

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"
	"go.uber.org/zap"

	"github.com/janisto/kyc-compliance/internal/platform/alerts"
	applog "github.com/janisto/kyc-compliance/internal/platform/logging"
	"github.com/janisto/kyc-compliance/internal/platform/metrics"
)

// Subscriber hands out alert subscriptions.
type Subscriber interface {
	Subscribe() (<-chan alerts.Alert, func())
}

// Register registers the alert stream endpoint.
func Register(api huma.API, sub Subscriber, m *metrics.Metrics) {
	sse.Register(api, huma.Operation{
		OperationID: "stream-alerts",
		Method:      http.MethodGet,
		Path:        "/alerts",
		Summary:     "Stream alerts",
		Description: "Streams profile update notifications until the client disconnects.",
		Tags:        []string{"Alerts"},
		Security: []map[string][]string{
			{"bearerAuth": {}},
		},
	}, map[string]any{
		"alert": alerts.Alert{},
	}, func(ctx context.Context, _ *struct{}, send sse.Sender) {
		ch, unsubscribe := sub.Subscribe()
		defer unsubscribe()
		m.SubscriberConnected()
		defer m.SubscriberDisconnected()

		applog.LogInfo(ctx, "alert stream opened")
		for {
			select {
			case <-ctx.Done():
				applog.LogInfo(ctx, "alert stream closed")
				return
			case a, ok := <-ch:
				if !ok {
					return
				}
				if err := send.Data(a); err != nil {
					applog.LogWarn(ctx, "alert stream write failed", zap.Error(err))
					return
				}
			}
		}
	})
}
