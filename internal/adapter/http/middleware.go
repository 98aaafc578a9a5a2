package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/snibank/snibank-backend/internal/domain"
	"github.com/snibank/snibank-backend/internal/usecase/auth"
)

type contextKey int

const sessionContextKey contextKey = iota

// publicPaths need no session token
var publicPaths = map[string]bool{
	"/health":             true,
	"/api/login/customer": true,
	"/api/login/admin":    true,
}

// withAuth validates the Bearer token on every non-public request and
// attaches the resulting session to the request context. There is no
// ambient logged-in state: each request carries its own identity.
func (s *Server) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if publicPaths[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			respondError(w, domain.ErrAuthFailed)
			return
		}

		session, err := s.AuthService.Verify(token)
		if err != nil {
			respondError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), sessionContextKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionFrom returns the session attached by withAuth
func sessionFrom(r *http.Request) *auth.Session {
	session, _ := r.Context().Value(sessionContextKey).(*auth.Session)
	return session
}

// adminSession returns the session when it carries the admin role,
// otherwise writes the failure response and returns nil
func adminSession(w http.ResponseWriter, r *http.Request) *auth.Session {
	session := sessionFrom(r)
	if session == nil || session.Role != auth.RoleAdmin {
		respond(w, http.StatusForbidden, map[string]any{
			"success": false,
			"message": "admin access required",
		})
		return nil
	}
	return session
}

// customerSession returns the session when it carries the customer role,
// otherwise writes the failure response and returns nil
func customerSession(w http.ResponseWriter, r *http.Request) *auth.Session {
	session := sessionFrom(r)
	if session == nil || session.Role != auth.RoleCustomer {
		respond(w, http.StatusForbidden, map[string]any{
			"success": false,
			"message": "customer session required",
		})
		return nil
	}
	return session
}
