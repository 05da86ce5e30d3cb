package middleware

import (
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

// LogRequest traces every incoming request together with how long it took.
func LogRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			log.Tracef(
				" ====> request [%s] path: [%s] [UA: %s] took %s",
				r.Method, r.URL.Path, r.Header.Get("User-Agent"), time.Since(start),
			)
		})
	}
}
