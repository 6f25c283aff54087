package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/benefik-labs/benefik-cli/internal/logger"
)

// loggingMiddleware logs request details and latency.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("%s %s - %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// NewRouter creates and configures the HTTP router.
func NewRouter(handler *Handler) *mux.Router {
	r := mux.NewRouter()

	r.Use(loggingMiddleware)

	r.HandleFunc("/chat", handler.HandleChat).Methods(http.MethodPost)
	r.HandleFunc("/health", handler.HandleHealth).Methods(http.MethodGet)

	return r
}
