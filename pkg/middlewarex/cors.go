package middlewarex

import "net/http"

const (
	corsAllowedHeaders = "authorization, x-client-info, apikey, content-type"
	corsAllowedMethods = "GET, POST, PATCH, DELETE, OPTIONS"
)

// CORS allows every origin. Preflight requests are answered without reaching
// the next handler.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", corsAllowedHeaders)
		w.Header().Set("Access-Control-Allow-Methods", corsAllowedMethods)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
