package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/navikt/roomboard/internal/auth"
	"github.com/navikt/roomboard/internal/models"
)

type contextKey string

// identityKey stores the authenticated identity on the request context
const identityKey contextKey = "identity"

// RequireAuth wraps a handler with bearer-token authentication. Requests
// without a valid credential are rejected before any room state is
// touched; role checks happen in the service layer.
func RequireAuth(gatekeeper *auth.Gatekeeper, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)

		identity, err := gatekeeper.Authenticate(token)
		if err != nil {
			jsonError(w, "Authentication required", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken extracts the credential from the Authorization header or,
// for transports that cannot set headers (EventSource), from the token
// query parameter.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return r.URL.Query().Get("token")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// identityFrom returns the authenticated identity stored by RequireAuth
func identityFrom(r *http.Request) *models.Identity {
	identity, _ := r.Context().Value(identityKey).(*models.Identity)
	return identity
}
