// internal/adapters/in/http/middleware/recover.go
package middleware

import (
	"log"
	"net/http"
	"runtime/debug"
)

// Recover turns a handler panic into a JSON 500 instead of a dropped
// connection. The stack goes to the log; the client only sees a generic
// message.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("[recover] PANIC %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())

				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error":"internal server error"}`))
			}
		}()

		next.ServeHTTP(w, r)
	})
}
