package middleware

import "net/http"

// MaxRequestSize caps the request body size. Oversized bodies fail inside
// the handler's JSON decode with http.MaxBytesError, which surfaces as a
// 400 through the normal error path.
func MaxRequestSize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
