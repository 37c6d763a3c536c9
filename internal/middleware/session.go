package middleware

import (
	"net/http"

	"ftour-be/internal/auth"
	"ftour-be/internal/logger"
	"ftour-be/internal/utils"

	"go.uber.org/zap"
)

// TokenParser verifies a session token.
type TokenParser interface {
	Parse(token string) (*auth.SessionClaims, error)
}

// SessionAuth attaches the caller's session to the request context. Requests
// without a token pass through anonymously. A token that fails verification
// is rejected with 401.
func SessionAuth(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := auth.ExtractAccessToken(r)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tokens.Parse(raw)
			if err != nil {
				logger.FromCtx(r.Context()).Warn("session token rejected", zap.Error(err))
				utils.WriteJSONError(w, "invalid or expired session", http.StatusUnauthorized)
				return
			}

			ctx := utils.SetSessionContext(r.Context(), claims.SessionID, claims.Role)
			ctx = logger.WithSessionID(ctx, claims.SessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
