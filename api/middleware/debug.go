package middleware

import (
	"net/http"

	"github.com/angelmondragon/catalog-api/api/responses"
)

// Debug stores the debug flag on the request context for error rendering.
func Debug(enabled bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(responses.WithDebug(r.Context(), enabled)))
		})
	}
}
