package alerts

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/janisto/kyc-compliance/internal/platform/alerts"
	"github.com/janisto/kyc-compliance/internal/platform/auth"
	"github.com/janisto/kyc-compliance/internal/platform/metrics"
)

func newTestServer(t *testing.T, broker *alerts.Broker, m *metrics.Metrics) *httptest.Server {
	t.Helper()
	router := chi.NewRouter()
	api := humachi.New(router, huma.DefaultConfig("AlertsTest", "test"))
	api.UseMiddleware(auth.NewAuthMiddleware(api, &auth.MockVerifier{User: auth.TestUser()}))
	Register(api, broker, m)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

type streamResult struct {
	resp *http.Response
	err  error
}

// openStream issues the request in the background since response headers may
// not be flushed until the first event.
func openStream(ctx context.Context, t *testing.T, srv *httptest.Server) <-chan streamResult {
	t.Helper()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/alerts", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer valid-token")

	out := make(chan streamResult, 1)
	go func() {
		resp, err := srv.Client().Do(req)
		out <- streamResult{resp: resp, err: err}
	}()
	return out
}

func awaitStream(t *testing.T, ch <-chan streamResult) *http.Response {
	t.Helper()
	select {
	case r := <-ch:
		if r.err != nil {
			t.Fatalf("do: %v", r.err)
		}
		t.Cleanup(func() { _ = r.resp.Body.Close() })
		return r.resp
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for response")
	}
	return nil
}

func TestStreamDeliversAlerts(t *testing.T) {
	broker := alerts.NewBroker(4)
	defer broker.Close()
	m := metrics.New(prometheus.NewRegistry())
	srv := newTestServer(t, broker, m)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pending := openStream(ctx, t, srv)

	waitFor(t, func() bool { return broker.Subscribers() == 1 })
	if got := testutil.ToFloat64(m.AlertSubscribers); got != 1 {
		t.Fatalf("expected 1 subscriber gauge, got %v", got)
	}

	broker.Publish(context.Background(), alerts.Alert{
		Kind:      "profile.updated",
		Level:     alerts.LevelSuccess,
		Message:   "Profile updated successfully",
		ProfileID: "1",
	})

	resp := awaitStream(t, pending)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Fatalf("expected event stream, got %q", ct)
	}

	scanner := bufio.NewScanner(resp.Body)
	var event, data string
	for scanner.Scan() {
		line := scanner.Text()
		if v, ok := strings.CutPrefix(line, "event: "); ok {
			event = v
		}
		if v, ok := strings.CutPrefix(line, "data: "); ok {
			data = v
			break
		}
	}
	if event != "alert" {
		t.Fatalf("expected alert event, got %q", event)
	}
	var a alerts.Alert
	if err := json.Unmarshal([]byte(data), &a); err != nil {
		t.Fatalf("decode alert: %v (%s)", err, data)
	}
	if a.ProfileID != "1" || a.Kind != "profile.updated" {
		t.Fatalf("unexpected alert %+v", a)
	}

	cancel()
	waitFor(t, func() bool { return broker.Subscribers() == 0 })
	waitFor(t, func() bool { return testutil.ToFloat64(m.AlertSubscribers) == 0 })
}

func TestStreamRequiresAuth(t *testing.T) {
	broker := alerts.NewBroker(1)
	defer broker.Close()
	srv := newTestServer(t, broker, nil)

	resp, err := srv.Client().Get(srv.URL + "/alerts")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if n := broker.Subscribers(); n != 0 {
		t.Fatalf("expected no subscription, got %d", n)
	}
}

func TestStreamEndsWhenBrokerCloses(t *testing.T) {
	broker := alerts.NewBroker(1)
	srv := newTestServer(t, broker, nil)

	pending := openStream(context.Background(), t, srv)
	waitFor(t, func() bool { return broker.Subscribers() == 1 })
	broker.Close()

	resp := awaitStream(t, pending)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = io.Copy(io.Discard, resp.Body)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("expected stream to end after broker close")
	}
}
