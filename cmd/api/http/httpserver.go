package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const RequestIDHeader = "X-Request-Id"

type ServerConfig struct {
	Port           int
	RequestTimeout time.Duration
}

/*
Builds the router every service shares: request id and access log, panic recovery, the per-request
timeout and GET /ping.
*/
func NewRouter(config ServerConfig, log *zap.SugaredLogger) *chi.Mux {
	r := chi.NewRouter()
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(requestTimeout(config.RequestTimeout))
	r.Get("/ping", ping)
	return r
}

func NewBookServer(config ServerConfig, h *BookHandler, log *zap.SugaredLogger) *http.Server {
	r := NewRouter(config, log)
	h.Routes(r)
	return newServer(config, r)
}

func NewSaleServer(config ServerConfig, h *SaleHandler, log *zap.SugaredLogger) *http.Server {
	r := NewRouter(config, log)
	h.Routes(r)
	return newServer(config, r)
}

func newServer(config ServerConfig, h http.Handler) *http.Server {
	server := http.Server{
		Addr:              fmt.Sprintf(":%d", config.Port),
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return &server
}

/* Tests the http server connection.  */
func ping(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

type ctxKey int

const loggerKey ctxKey = iota

/* Returns the request scoped logger set by the access log middleware, or a no-op logger outside a request. */
func Logger(ctx context.Context) *zap.SugaredLogger {
	if log, ok := ctx.Value(loggerKey).(*zap.SugaredLogger); ok {
		return log
	}
	return zap.NewNop().Sugar()
}

/* Tags the request with an id, reusing the caller's one when present, and logs it once served. Proxied calls carry the id along. */
func requestLogger(log *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
				r.Header.Set(RequestIDHeader, id)
			}
			reqLog := log.With("request_id", id)
			w.Header().Set(RequestIDHeader, id)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), loggerKey, reqLog)))

			reqLog.Infow("request served",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
			)
		})
	}
}

/* Bounds every request. Stores see the deadline through the context and give up when it passes. */
func requestTimeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if timeout <= 0 {
				next.ServeHTTP(w, r)
				return
			}
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
