package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"

	"github.com/ndanilin/golinks/internal/auth"
	"github.com/ndanilin/golinks/internal/ratelimit"
	"github.com/ndanilin/golinks/pkg/response"
)

// clientIP identifies the caller from the edge-provided headers. Without
// one, every request shares the "unknown" bucket; fine for a single-owner
// deployment behind a trusted edge, not for multi-tenant use.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}

	return "unknown"
}

// rateLimit enforces a fixed-window rule per client for one purpose.
// A failing limiter backend lets the request through: availability of
// redirects beats precision of abuse mitigation.
func (h *urlHandler) rateLimit(purpose string, rule ratelimit.Rule) func(http.Handler) http.Handler {
	const op = "api.http.rateLimit"

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, err := h.limiter.Allow(r.Context(), purpose, clientIP(r), rule)
			if err != nil {
				httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})
				ok = true
			}
			if !ok {
				render.Status(r, http.StatusTooManyRequests)
				render.JSON(w, r, response.RateLimitedResponse)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// requireAPIAuth admits either the owner session cookie or the bearer
// token, so the browser admin UI and programmatic clients share one
// backend.
func (h *urlHandler) requireAPIAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.hasSession(r) && !h.authn.VerifyBearer(r.Header.Get("Authorization")) {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.UnauthorizedResponse)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// requireSession guards the HTML admin pages; unauthenticated visitors
// land on the login form.
func (h *urlHandler) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.hasSession(r) {
			http.Redirect(w, r, "/admin/login", http.StatusFound)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (h *urlHandler) hasSession(r *http.Request) bool {
	c, err := r.Cookie(auth.SessionCookie)
	if err != nil {
		return false
	}

	return h.authn.VerifySession(c.Value)
}
