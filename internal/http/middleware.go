package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/Mega4Real/ednascollectionnew/internal/auth"
)

type contextKey string

const adminClaimsKey contextKey = "admin_claims"

// AdminAuthMiddleware guards the back-office routes. It expects
// "Authorization: Bearer <token>" and puts the parsed claims in the context.
func AdminAuthMiddleware(tokens *auth.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				respondError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			claims, err := tokens.ParseToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				respondError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			ctx := context.WithValue(r.Context(), adminClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func adminFromContext(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(adminClaimsKey).(*auth.Claims)
	return claims
}
