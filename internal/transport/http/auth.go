package httptransport

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// AdminAuthMiddleware guards admin routes with a shared key sent as
// X-Admin-Key or a bearer token. An empty key disables the check.
func AdminAuthMiddleware(adminKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if adminKey != "" && !hasAdminKey(r, adminKey) {
				metricRejectionsTotal.Add(1)
				WriteHTTPError(w, http.StatusUnauthorized, "unauthorized", "")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func hasAdminKey(r *http.Request, adminKey string) bool {
	presented := r.Header.Get("X-Admin-Key")
	if presented == "" {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok {
			return false
		}
		presented = token
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(adminKey)) == 1
}
