package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/wayhong0928/mayday-concert-map/internal/config"
	"github.com/wayhong0928/mayday-concert-map/internal/model"
	"github.com/wayhong0928/mayday-concert-map/internal/service"
	"go.uber.org/zap"
)

// Handler handles HTTP requests
type Handler struct {
	service service.ServiceInterface
	mapCfg  config.MapConfig
	logger  *zap.Logger
}

// NewHandler creates a new handler instance
func NewHandler(service service.ServiceInterface, mapCfg config.MapConfig, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, mapCfg: mapCfg, logger: logger}
}

// ListConcerts handles GET /api/v1/concerts
func (h *Handler) ListConcerts(w http.ResponseWriter, r *http.Request) {
	response, err := h.service.ListConcerts(r.Context())
	if err != nil {
		h.serviceError(w, "Error listing concerts", err)
		return
	}
	h.writeJSON(w, http.StatusOK, response)
}

// GetConcert handles GET /api/v1/concerts/{id}
func (h *Handler) GetConcert(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	concert, err := h.service.GetConcert(r.Context(), id)
	if err != nil {
		h.serviceError(w, "Error getting concert", err, zap.String("concert_id", id))
		return
	}
	if concert == nil {
		http.Error(w, "concert not found", http.StatusNotFound)
		return
	}
	h.writeJSON(w, http.StatusOK, concert)
}

// GetSetlist handles GET /api/v1/concerts/{id}/setlist
func (h *Handler) GetSetlist(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	setlist, err := h.service.GetSetlist(r.Context(), id)
	if err != nil {
		h.serviceError(w, "Error reconstructing setlist", err, zap.String("concert_id", id))
		return
	}
	if setlist == nil {
		http.Error(w, "concert not found", http.StatusNotFound)
		return
	}
	h.writeJSON(w, http.StatusOK, setlist)
}

// ListTours handles GET /api/v1/tours
func (h *Handler) ListTours(w http.ResponseWriter, r *http.Request) {
	response, err := h.service.ListTours(r.Context())
	if err != nil {
		h.serviceError(w, "Error listing tours", err)
		return
	}
	h.writeJSON(w, http.StatusOK, response)
}

// ListVenues handles GET /api/v1/venues
func (h *Handler) ListVenues(w http.ResponseWriter, r *http.Request) {
	response, err := h.service.ListVenues(r.Context())
	if err != nil {
		h.serviceError(w, "Error listing venues", err)
		return
	}
	h.writeJSON(w, http.StatusOK, response)
}

// GetIntegrity handles GET /api/v1/integrity
func (h *Handler) GetIntegrity(w http.ResponseWriter, r *http.Request) {
	response, err := h.service.IntegrityReport(r.Context())
	if err != nil {
		h.serviceError(w, "Error getting integrity report", err)
		return
	}
	h.writeJSON(w, http.StatusOK, response)
}

// GetMapConfig handles GET /api/v1/map-config
func (h *Handler) GetMapConfig(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, model.MapConfigResponse{
		TileURL:       h.mapCfg.TileURL,
		Center:        model.Coordinate{Lat: h.mapCfg.CenterLat, Lon: h.mapCfg.CenterLon},
		Zoom:          h.mapCfg.Zoom,
		IconURL:       h.mapCfg.IconURL,
		IconRetinaURL: h.mapCfg.IconRetinaURL,
		ShadowURL:     h.mapCfg.ShadowURL,
	})
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if !h.service.Ready() {
		http.Error(w, "catalog not loaded", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *Handler) serviceError(w http.ResponseWriter, msg string, err error, fields ...zap.Field) {
	if errors.Is(err, service.ErrCatalogNotLoaded) {
		http.Error(w, "catalog not loaded", http.StatusServiceUnavailable)
		return
	}
	h.logger.Error(msg, append(fields, zap.Error(err))...)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Error encoding response", zap.Error(err))
	}
}
