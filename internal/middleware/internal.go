package middleware

import (
	"crypto/subtle"
	"net/http"

	"ftour-be/internal/utils"
)

const ServiceAuthHeader = "X-Service-Auth"

// RequireInternalKey guards operational endpoints. An empty key closes them.
func RequireInternalKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(ServiceAuthHeader)
			if key == "" || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				utils.WriteJSONError(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r.WithContext(utils.WithInternalRequest(r.Context())))
		})
	}
}
