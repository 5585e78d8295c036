package http

import (
	"context"
	"net/http"

	"github.com/crewdesk/crewdesk/internal/backoffice/apperr"
	"github.com/crewdesk/crewdesk/internal/backoffice/domain"
	"github.com/crewdesk/crewdesk/internal/backoffice/service"
	"github.com/crewdesk/crewdesk/pkg/httpx"
)

type rcKey struct{}

// requestContext pulls the resolved identity out of the request context.
// Handlers behind requireSession can rely on it being present.
func requestContext(ctx context.Context) (domain.RequestContext, bool) {
	rc, ok := ctx.Value(rcKey{}).(domain.RequestContext)
	return rc, ok
}

// requireSession resolves the session cookie into a RequestContext and
// rejects the request with 401 when it cannot. The user id is also exposed
// for per-user rate limiting.
func requireSession(sessions *service.SessionService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rc, err := sessions.Resolve(r.Context(), r)
			if err != nil {
				writeError(w, r, err)
				return
			}
			ctx := context.WithValue(r.Context(), rcKey{}, rc)
			ctx = httpx.WithUserID(ctx, rc.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// mustRequestContext is the handler-side companion of requireSession.
func mustRequestContext(w http.ResponseWriter, r *http.Request) (domain.RequestContext, bool) {
	rc, ok := requestContext(r.Context())
	if !ok {
		writeError(w, r, apperr.New(apperr.Unauthorized, "not signed in"))
	}
	return rc, ok
}
