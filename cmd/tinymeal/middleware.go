package main

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	metrics "github.com/slok/go-http-metrics/metrics/prometheus"
	"github.com/slok/go-http-metrics/middleware"
	middlewarestd "github.com/slok/go-http-metrics/middleware/std"
)

type logger struct {
	http.Handler
}

// statusRecorder remembers the first status written so the request log can
// carry it. An unset status means the handler wrote a body straight away.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func (l *logger) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	recorder := &statusRecorder{ResponseWriter: w}
	l.Handler.ServeHTTP(recorder, r)
	if r.URL.Path == "/ready" || r.URL.Path == "/metrics" {
		return
	}
	status := recorder.status
	if status == 0 {
		status = http.StatusOK
	}
	slog.Info("request", "method", r.Method, "url", r.URL.Path, "status", status, "duration", time.Since(start))
}

type recoverer struct {
	http.Handler
}

func (r *recoverer) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	defer func() {
		if err := recover(); err != nil {
			slog.ErrorContext(req.Context(), "panic recovered", "error", err, "stack", debug.Stack())
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}()
	r.Handler.ServeHTTP(w, req)
}

func WithMiddleware(h http.Handler) http.Handler {
	mdlw := middleware.New(middleware.Config{
		Recorder: metrics.NewRecorder(metrics.Config{}),
	})
	h = middlewarestd.Handler("", mdlw, h)
	return &logger{
		&recoverer{
			h,
		},
	}
}
