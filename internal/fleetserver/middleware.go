package fleetserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/luxfleet-io/luxfleet/internal/fleetserver/apierror"
	"github.com/luxfleet-io/luxfleet/internal/fleetserver/auth"
)

type contextKey string

const claimsKey contextKey = "access-claims"

// accessTokenMiddleware validates the bearer token and stores its claims on
// the request context. Every token failure collapses to the empty 401 so the
// caller cannot distinguish a bad signature from an expired token.
func (s *Server) accessTokenMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			apierror.WriteHTTP(w, apierror.New(apierror.KindTokenExpired))
			return
		}

		claims, err := s.tokens.ValidateAccess(token)
		if err != nil {
			apierror.WriteHTTP(w, apierror.New(apierror.KindTokenExpired))
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}

func claimsFrom(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey).(*auth.Claims)
	return claims
}

// requireScope runs the subset test every owner API handler starts with.
func requireScope(ctx context.Context, scope auth.Scope) error {
	claims := claimsFrom(ctx)
	if claims == nil || !claims.Scopes.Has(scope) {
		return apierror.New(apierror.KindMissingScopes)
	}
	return nil
}
