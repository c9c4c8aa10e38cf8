package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dougsimpsoncodes/myailandlord/internal/invites/service"
	"github.com/dougsimpsoncodes/myailandlord/internal/invites/store"
	"github.com/dougsimpsoncodes/myailandlord/pkg/httpx"
	"github.com/dougsimpsoncodes/myailandlord/pkg/jwtx"
	"github.com/dougsimpsoncodes/myailandlord/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store           store.Store
	InviteService   *service.InviteService
	PropertyService *service.PropertyService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerInvites()
	r.registerProperties()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerInvites() {
	createHandler := &InviteCreateHandler{InviteService: r.InviteService}
	validateHandler := &InviteValidateHandler{InviteService: r.InviteService}
	acceptHandler := &InviteAcceptHandler{InviteService: r.InviteService}
	revokeHandler := &InviteRevokeHandler{InviteService: r.InviteService}

	// POST /v1/invites - landlord mint, moderate rate limit by user
	r.Mux.Handle("POST /v1/invites",
		httpx.Chain(createHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("invites:write"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// POST /v1/invites/validate - public token-guessing surface, strict
	// rate limit by IP
	r.Mux.Handle("POST /v1/invites/validate",
		httpx.Chain(validateHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /v1/invites/accept - authenticated but still a guessing
	// surface, strict rate limit by IP
	r.Mux.Handle("POST /v1/invites/accept",
		httpx.Chain(acceptHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("tenancy:accept"),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /v1/invites/{id}/revoke - landlord operation
	r.Mux.Handle("POST /v1/invites/{id}/revoke",
		httpx.Chain(revokeHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("invites:write"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerProperties() {
	listHandler := &InviteListHandler{InviteService: r.InviteService}
	syncHandler := &PropertySyncHandler{PropertyService: r.PropertyService}

	// GET /v1/properties/{id}/invites - landlord dashboard listing
	r.Mux.Handle("GET /v1/properties/{id}/invites",
		httpx.Chain(listHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("invites:read", "invites:write"),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	// PUT /v1/properties/{id} - host platform record sync
	r.Mux.Handle("PUT /v1/properties/{id}",
		httpx.Chain(syncHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("properties:write"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems
	// may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
