package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/LNshuti/energy/internal/api/handlers"
	"github.com/LNshuti/energy/pkg/logger"
)

// Routes bundles the handlers mounted by NewRouter
type Routes struct {
	Gallery   *handlers.GalleryHandler
	WebSocket *handlers.WebSocketHandler
	Metrics   http.Handler // nil when metrics are disabled
}

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: routing is configured in this function only
func NewRouter(routes Routes, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/companies", routes.Gallery.ListCompanies).Methods("GET")
	api.HandleFunc("/indicators", routes.Gallery.ListIndicators).Methods("GET")
	api.HandleFunc("/plots", routes.Gallery.CreatePlots).Methods("POST")

	if routes.WebSocket != nil {
		r.HandleFunc("/ws", routes.WebSocket.Serve).Methods("GET")
	}

	if routes.Metrics != nil {
		r.Handle("/metrics", routes.Metrics).Methods("GET")
	}

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "energy-gallery",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
