package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/janisto/kyc-compliance/internal/http/health"
	"github.com/janisto/kyc-compliance/internal/http/v1/routes"
	"github.com/janisto/kyc-compliance/internal/platform/alerts"
	"github.com/janisto/kyc-compliance/internal/platform/auth"
	"github.com/janisto/kyc-compliance/internal/platform/config"
	"github.com/janisto/kyc-compliance/internal/platform/database"
	"github.com/janisto/kyc-compliance/internal/platform/firebase"
	applog "github.com/janisto/kyc-compliance/internal/platform/logging"
	"github.com/janisto/kyc-compliance/internal/platform/metrics"
	appmiddleware "github.com/janisto/kyc-compliance/internal/platform/middleware"
	"github.com/janisto/kyc-compliance/internal/platform/respond"
	profilesvc "github.com/janisto/kyc-compliance/internal/service/profile"
)

const docsPath = "/api-docs"

// serverDeps are the runtime collaborators behind the router.
type serverDeps struct {
	Verifier    auth.Verifier
	Profiles    profilesvc.Service
	Broker      *alerts.Broker
	Metrics     *metrics.Metrics
	Gatherer    prometheus.Gatherer
	DB          health.Pinger
	CORSOrigins []string
}

func serverCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, *cfg)
		},
	}
}

func runServer(ctx context.Context, cfg config.Config) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	deps := serverDeps{
		Broker:      alerts.NewBroker(alerts.DefaultBuffer),
		Metrics:     metrics.New(registry),
		Gatherer:    registry,
		CORSOrigins: cfg.CORSOrigins,
	}
	defer deps.Broker.Close()

	verifier, err := newVerifier(ctx, cfg)
	if err != nil {
		return err
	}
	deps.Verifier = verifier

	store, db, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}
	if db != nil {
		defer func() { _ = db.Close() }()
		deps.DB = db
	}
	deps.Profiles = profilesvc.NewObservedService(store, deps.Broker, deps.Metrics)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newRouter(deps),
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		// The alerts stream is long-lived, so no write timeout is set; handlers
		// are bounded by their request context instead.
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 64 << 10, // 64 KB
		BaseContext:    func(_ net.Listener) context.Context { return ctx },
	}

	listenErr := make(chan error, 1)
	go func() {
		applog.LogInfo(ctx, "server listening", zap.String("addr", srv.Addr), zap.String("version", Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("listen on %s: %w", srv.Addr, err)
	case <-ctx.Done():
		applog.LogInfo(context.Background(), "shutdown signal received")
	}

	// Closing the broker ends open alert streams so Shutdown can drain.
	deps.Broker.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		applog.LogError(shutdownCtx, "server shutdown error", err)
	}
	applog.LogInfo(context.Background(), "server exited")
	return nil
}

// newVerifier prefers Firebase, then the static development token.
func newVerifier(ctx context.Context, cfg config.Config) (auth.Verifier, error) {
	if cfg.Firebase.ProjectID != "" {
		client, err := firebase.NewAuthClient(ctx, firebase.Config{
			ProjectID:       cfg.Firebase.ProjectID,
			CredentialsFile: cfg.Firebase.Credentials,
		})
		if err != nil {
			return nil, err
		}
		applog.LogInfo(ctx, "using firebase token verification", zap.String("projectId", cfg.Firebase.ProjectID))
		return auth.NewFirebaseVerifier(client), nil
	}
	if cfg.DevAuth.Token != "" {
		applog.LogWarn(ctx, "using static development token; do not use in production",
			zap.String("identity", cfg.DevAuth.Identity))
		return auth.NewStaticVerifier(cfg.DevAuth.Token, cfg.DevAuth.Identity)
	}
	return nil, errors.New("no token verifier configured: set KYC_FIREBASE_PROJECT_ID or KYC_DEV_AUTH_TOKEN")
}

// newStore opens MySQL when a DSN is configured, otherwise the in-memory store.
func newStore(ctx context.Context, cfg config.Config) (profilesvc.Service, *sql.DB, error) {
	if cfg.Database.DSN == "" {
		applog.LogWarn(ctx, "no database configured, using in-memory profile store")
		return profilesvc.NewMockProfileService(), nil, nil
	}

	db, err := database.Open(ctx, cfg.Database.DSN, database.PoolConfig{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		return nil, nil, err
	}
	if cfg.Database.MigrateOnStart {
		n, err := database.MigrateUp(db)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		applog.LogInfo(ctx, "migrations applied", zap.Int("count", n))
	}
	return profilesvc.NewMySQLStore(db), db, nil
}

func newRouter(deps serverDeps) chi.Router {
	router := chi.NewRouter()
	router.NotFound(respond.NotFoundHandler())
	router.MethodNotAllowed(respond.MethodNotAllowedHandler())

	// Base middleware stack
	router.Use(
		appmiddleware.Security(docsPath),
		appmiddleware.Vary(),
		appmiddleware.CORS(deps.CORSOrigins...),
		appmiddleware.RequestID(),
		// RealIP trusts X-Forwarded-For; only run behind a trusted proxy.
		chimiddleware.RealIP,
		chimiddleware.RequestSize(1<<20), // 1 MB limit
		applog.RequestLogger(),
		applog.AccessLogger(),
		respond.Recoverer(),
	)

	router.Get("/health", health.Handler(deps.DB))
	if deps.Gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	cfg := huma.DefaultConfig("KYC Compliance API", Version)
	cfg.DocsPath = docsPath
	api := humachi.New(router, cfg)
	addCBORContent(api)

	routeDeps := routes.Deps{
		Verifier: deps.Verifier,
		Profiles: deps.Profiles,
		Metrics:  deps.Metrics,
	}
	// A nil *Broker must not become a non-nil interface.
	if deps.Broker != nil {
		routeDeps.Alerts = deps.Broker
	}
	routes.Register(api, routeDeps)
	return router
}

// addCBORContent mirrors JSON request and response schemas as CBOR in the
// OpenAPI document.
func addCBORContent(api huma.API) {
	api.OpenAPI().OnAddOperation = append(api.OpenAPI().OnAddOperation,
		func(_ *huma.OpenAPI, op *huma.Operation) {
			if op.RequestBody != nil && op.RequestBody.Content != nil {
				if jsonContent, ok := op.RequestBody.Content["application/json"]; ok {
					op.RequestBody.Content["application/cbor"] = jsonContent
				}
			}
			for _, resp := range op.Responses {
				if resp.Content == nil {
					continue
				}
				if jsonContent, ok := resp.Content["application/json"]; ok {
					resp.Content["application/cbor"] = jsonContent
				}
			}
		},
	)
}
