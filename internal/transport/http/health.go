package http

import (
	"context"
	stdhttp "net/http"
	"time"
)

// Pinger reports whether a dependency is reachable.
type Pinger func(ctx context.Context) error

// HealthHandler reports liveness and, when pingers are given, database
// reachability. A failing pinger turns the response into a 503.
func HealthHandler(pingers ...Pinger) stdhttp.HandlerFunc {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		for _, ping := range pingers {
			if err := ping(ctx); err != nil {
				writeError(w, stdhttp.StatusServiceUnavailable, codeServiceUnavailable, "database unreachable")
				return
			}
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(stdhttp.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
