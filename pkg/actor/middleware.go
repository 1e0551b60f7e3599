package actor

import (
	"net/http"
	"strings"

	"github.com/gorilla/sessions"

	"github.com/plantops/plantops/pkg/httpx"
	"github.com/plantops/plantops/pkg/logger"
)

const sessionName = "plantops_session"
const sessionActorKey = "actor"

// HeaderActor is a fallback identity header for service-to-service callers
// that do not carry a browser session (shop floor terminals, integrations).
const HeaderActor = "X-Actor"

// RequireActor is a chi middleware that resolves the requesting user's
// identity and injects it into the request context. Identity comes from the
// session cookie when present, otherwise from the X-Actor header. Requests
// with neither are rejected with 401.
//
// After this middleware, handlers can safely call actor.FromCtx(r.Context()).
func RequireActor(store sessions.Store, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			a := resolve(store, r)
			if a == "" {
				log.WarnContext(r.Context(), "request without resolvable actor", "path", r.URL.Path)
				httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
				return
			}

			ctx := WithActor(r.Context(), a)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolve(store sessions.Store, r *http.Request) string {
	if session, err := store.Get(r, sessionName); err == nil {
		if a, ok := session.Values[sessionActorKey].(string); ok && a != "" {
			return a
		}
	}
	return strings.TrimSpace(r.Header.Get(HeaderActor))
}
