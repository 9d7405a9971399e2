package routes

import (
	"github.com/danielgtaylor/huma/v2"

	alertshandler "github.com/janisto/kyc-compliance/internal/http/v1/alerts"
	"github.com/janisto/kyc-compliance/internal/http/v1/profile"
	"github.com/janisto/kyc-compliance/internal/platform/auth"
	"github.com/janisto/kyc-compliance/internal/platform/metrics"
	profilesvc "github.com/janisto/kyc-compliance/internal/service/profile"
)

// Deps are the collaborators the API operations need.
type Deps struct {
	Verifier auth.Verifier
	Profiles profilesvc.Service
	Alerts   alertshandler.Subscriber
	Metrics  *metrics.Metrics
}

// Register wires all API operations into the provided API router.
func Register(api huma.API, deps Deps) {
	registerBearerScheme(api)

	// Apply auth middleware for protected endpoints
	api.UseMiddleware(auth.NewAuthMiddleware(api, deps.Verifier))

	profile.Register(api, deps.Profiles)
	if deps.Alerts != nil {
		alertshandler.Register(api, deps.Alerts, deps.Metrics)
	}
}

func registerBearerScheme(api huma.API) {
	components := api.OpenAPI().Components
	if components.SecuritySchemes == nil {
		components.SecuritySchemes = map[string]*huma.SecurityScheme{}
	}
	components.SecuritySchemes["bearerAuth"] = &huma.SecurityScheme{
		Type:         "http",
		Scheme:       "bearer",
		BearerFormat: "JWT",
	}
}
