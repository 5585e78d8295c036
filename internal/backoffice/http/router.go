// Package http wires the back-office services onto a net/http ServeMux
// using Go 1.22 method patterns. Handlers stay thin: decode, call the
// service, translate the error kind, encode.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/crewdesk/crewdesk/internal/backoffice/service"
	"github.com/crewdesk/crewdesk/internal/backoffice/store"
	"github.com/crewdesk/crewdesk/pkg/httpx"
	"github.com/crewdesk/crewdesk/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	Sessions   *service.SessionService
	Auth       *service.AuthService
	Invites    *service.InviteService
	Membership *service.MembershipService
	Billing    *service.BillingService
	Directory  *service.DirectoryService
	Bookings   *service.BookingService
	Travel     service.TravelEstimator
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		store:        st,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerInvites()
	r.registerBilling()
	r.registerDirectory()
	r.registerBookings()
	r.registerSystem()
}

// ServeHTTP implements http.Handler and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// session shortens the per-route chains below.
func (r *Router) session() httpx.Middleware {
	return requireSession(r.Sessions)
}

func (r *Router) registerAuth() {
	// Credential endpoints get the strict per-IP limit: they are the ones
	// worth brute-forcing.
	r.Mux.Handle("POST /register",
		httpx.Chain(&RegisterHandler{AuthService: r.Auth, Sessions: r.Sessions},
			httpx.RateLimitByIP(httpx.StrictLimit),
		))

	r.Mux.Handle("POST /login",
		httpx.Chain(&LoginHandler{AuthService: r.Auth, Sessions: r.Sessions},
			httpx.RateLimitByIP(httpx.StrictLimit),
		))

	r.Mux.Handle("POST /logout",
		httpx.Chain(&LogoutHandler{Sessions: r.Sessions},
			httpx.RateLimitByIP(httpx.LenientLimit),
		))

	r.Mux.Handle("GET /user",
		httpx.Chain(&ProfileHandler{Membership: r.Membership},
			r.session(),
			httpx.RateLimitByUser(httpx.LenientLimit),
		))
}

func (r *Router) registerInvites() {
	// Token lookup and acceptance are unauthenticated, so they are limited
	// by IP like the credential endpoints.
	r.Mux.Handle("GET /invites/{token}",
		httpx.Chain(&InviteInfoHandler{InviteService: r.Invites},
			httpx.RateLimitByIP(httpx.ModerateLimit),
		))

	r.Mux.Handle("POST /invites/accept",
		httpx.Chain(&InviteAcceptHandler{InviteService: r.Invites, Sessions: r.Sessions},
			httpx.RateLimitByIP(httpx.StrictLimit),
		))

	r.Mux.Handle("POST /organization/invites",
		httpx.Chain(&InviteCreateHandler{InviteService: r.Invites},
			r.session(),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		))

	r.Mux.Handle("GET /organization/invites",
		httpx.Chain(&InviteListHandler{InviteService: r.Invites},
			r.session(),
			httpx.RateLimitByUser(httpx.LenientLimit),
		))

	r.Mux.Handle("DELETE /organization/invites/{id}",
		httpx.Chain(&InviteDeleteHandler{InviteService: r.Invites},
			r.session(),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		))

	r.Mux.Handle("GET /organization/members",
		httpx.Chain(&MemberListHandler{Membership: r.Membership},
			r.session(),
			httpx.RateLimitByUser(httpx.LenientLimit),
		))
}

func (r *Router) registerBilling() {
	r.Mux.Handle("POST /billing/checkout",
		httpx.Chain(&CheckoutHandler{BillingService: r.Billing},
			r.session(),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		))

	r.Mux.Handle("POST /billing/sync",
		httpx.Chain(&BillingSyncHandler{BillingService: r.Billing},
			r.session(),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		))
}

func (r *Router) registerDirectory() {
	h := &DirectoryHandler{Directory: r.Directory}
	limit := httpx.RateLimitByUser(httpx.LenientLimit)

	r.Mux.Handle("POST /depots", httpx.Chain(http.HandlerFunc(h.CreateDepot), r.session(), limit))
	r.Mux.Handle("GET /depots", httpx.Chain(http.HandlerFunc(h.ListDepots), r.session(), limit))
	r.Mux.Handle("GET /depots/{id}", httpx.Chain(http.HandlerFunc(h.GetDepot), r.session(), limit))
	r.Mux.Handle("PUT /depots/{id}", httpx.Chain(http.HandlerFunc(h.UpdateDepot), r.session(), limit))
	r.Mux.Handle("DELETE /depots/{id}", httpx.Chain(http.HandlerFunc(h.DeleteDepot), r.session(), limit))

	r.Mux.Handle("POST /crews", httpx.Chain(http.HandlerFunc(h.CreateCrew), r.session(), limit))
	r.Mux.Handle("GET /crews", httpx.Chain(http.HandlerFunc(h.ListCrews), r.session(), limit))
	r.Mux.Handle("GET /crews/{id}", httpx.Chain(http.HandlerFunc(h.GetCrew), r.session(), limit))
	r.Mux.Handle("PUT /crews/{id}", httpx.Chain(http.HandlerFunc(h.UpdateCrew), r.session(), limit))
	r.Mux.Handle("DELETE /crews/{id}", httpx.Chain(http.HandlerFunc(h.DeleteCrew), r.session(), limit))

	r.Mux.Handle("POST /employees", httpx.Chain(http.HandlerFunc(h.CreateEmployee), r.session(), limit))
	r.Mux.Handle("GET /employees", httpx.Chain(http.HandlerFunc(h.ListEmployees), r.session(), limit))
	r.Mux.Handle("GET /employees/{id}", httpx.Chain(http.HandlerFunc(h.GetEmployee), r.session(), limit))
	r.Mux.Handle("PUT /employees/{id}", httpx.Chain(http.HandlerFunc(h.UpdateEmployee), r.session(), limit))
	r.Mux.Handle("DELETE /employees/{id}", httpx.Chain(http.HandlerFunc(h.DeleteEmployee), r.session(), limit))

	r.Mux.Handle("POST /vehicles", httpx.Chain(http.HandlerFunc(h.CreateVehicle), r.session(), limit))
	r.Mux.Handle("GET /vehicles", httpx.Chain(http.HandlerFunc(h.ListVehicles), r.session(), limit))
	r.Mux.Handle("GET /vehicles/{id}", httpx.Chain(http.HandlerFunc(h.GetVehicle), r.session(), limit))
	r.Mux.Handle("PUT /vehicles/{id}", httpx.Chain(http.HandlerFunc(h.UpdateVehicle), r.session(), limit))
	r.Mux.Handle("DELETE /vehicles/{id}", httpx.Chain(http.HandlerFunc(h.DeleteVehicle), r.session(), limit))
}

func (r *Router) registerBookings() {
	h := &BookingHandler{Bookings: r.Bookings}
	limit := httpx.RateLimitByUser(httpx.LenientLimit)

	r.Mux.Handle("POST /bookings", httpx.Chain(http.HandlerFunc(h.Create), r.session(), limit))
	r.Mux.Handle("GET /bookings", httpx.Chain(http.HandlerFunc(h.List), r.session(), limit))
	r.Mux.Handle("GET /bookings/{id}", httpx.Chain(http.HandlerFunc(h.Get), r.session(), limit))
	r.Mux.Handle("PUT /bookings/{id}", httpx.Chain(http.HandlerFunc(h.Update), r.session(), limit))
	r.Mux.Handle("POST /bookings/{id}/status", httpx.Chain(http.HandlerFunc(h.UpdateStatus), r.session(), limit))
	r.Mux.Handle("DELETE /bookings/{id}", httpx.Chain(http.HandlerFunc(h.Delete), r.session(), limit))

	r.Mux.Handle("GET /travel-time",
		httpx.Chain(&TravelTimeHandler{Estimator: r.Travel}, r.session(), limit))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.store, r.startTime, r.buildVersion))
}
