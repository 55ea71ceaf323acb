package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/wayhong0928/mayday-concert-map/internal/config"
	"github.com/wayhong0928/mayday-concert-map/internal/service"
	"go.uber.org/zap"
)

// NewRouter creates a new HTTP router wrapped with CORS handling
func NewRouter(
	svc service.ServiceInterface,
	statsCollector StatsCollector,
	cfg *config.Config,
	logger *zap.Logger,
) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	handler := NewHandler(svc, cfg.Map, logger)
	statsHandler := NewStatsHandler(statsCollector, logger)

	router := mux.NewRouter()
	router.Use(requestLogger(logger))

	// Health check
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// API v1
	v1 := router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/concerts", handler.ListConcerts).Methods("GET")
	v1.HandleFunc("/concerts/{id}", handler.GetConcert).Methods("GET")
	v1.HandleFunc("/concerts/{id}/setlist", handler.GetSetlist).Methods("GET")
	v1.HandleFunc("/tours", handler.ListTours).Methods("GET")
	v1.HandleFunc("/venues", handler.ListVenues).Methods("GET")
	v1.HandleFunc("/integrity", handler.GetIntegrity).Methods("GET")
	v1.HandleFunc("/map-config", handler.GetMapConfig).Methods("GET")
	v1.HandleFunc("/stats", statsHandler.GetStats).Methods("GET")

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.Server.CORSAllowOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	})
	return c.Handler(router)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func requestLogger(logger *zap.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Debug("Request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
