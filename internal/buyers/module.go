// Package buyers provides the buyer lead management bounded context module.
// It covers CRUD, filtered listing, CSV export, and the bulk import pipeline
// with its per-record audit trail.
package buyers

import (
	"buyer_leads_backend/internal/buyers/handler"
	"buyer_leads_backend/internal/buyers/repository"
	"buyer_leads_backend/internal/buyers/service"
	"buyer_leads_backend/internal/events"
	apphttp "buyer_leads_backend/internal/http"
	"buyer_leads_backend/platform/logger"
	"buyer_leads_backend/platform/ratelimit"
	"buyer_leads_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Limiters bundles the two rate limiters the module depends on: bulk imports
// are throttled per actor, single creates per client IP.
type Limiters struct {
	Import ratelimit.Limiter
	Create ratelimit.Limiter
}

// Module is the buyers bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates and initializes the buyers module with all its dependencies.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, bus events.Bus, log *logger.Logger, limiters Limiters) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, val, bus, log)
	importer := service.NewImporter(repo, val, limiters.Import, bus, log)
	h := handler.New(svc, importer, limiters.Create)

	return &Module{handler: h}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "buyers"
}

// RegisterRoutes mounts buyer routes on the authenticated route group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/buyers"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
