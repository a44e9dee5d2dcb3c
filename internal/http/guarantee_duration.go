package http

import (
	"net/http"
	"time"
)

// EnsureDuration delays responses so that the wrapped handler never answers
// in less than min. A request whose context ends while waiting is answered
// immediately.
func EnsureDuration(min time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				if min <= 0 {
					next.ServeHTTP(w, r)
					return
				}

				dw := &durationWriter{
					ResponseWriter: w,
					end:            time.Now().Add(min),
					done:           r.Context().Done(),
				}

				next.ServeHTTP(dw, r)
			},
		)
	}
}

type durationWriter struct {
	http.ResponseWriter

	end    time.Time
	done   <-chan struct{}
	waited bool
}

func (w *durationWriter) wait() {
	if w.waited {
		return
	}
	w.waited = true

	remaining := time.Until(w.end)
	if remaining <= 0 {
		return
	}

	timer := time.NewTimer(remaining)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-w.done:
	}
}

func (w *durationWriter) WriteHeader(statusCode int) {
	w.wait()
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *durationWriter) Write(b []byte) (int, error) {
	w.wait()
	return w.ResponseWriter.Write(b)
}
