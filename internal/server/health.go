package server

import (
	"net/http"

	"github.com/desertthunder/tracklab/internal/models"
)

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status   string      `json:"status"`
	Identity models.Kind `json:"identity"`
}

// HealthHandler reports whether the composition store is reachable.
type HealthHandler struct {
	store models.Store
}

// NewHealthHandler creates a [HealthHandler] for store.
func NewHealthHandler(store models.Store) *HealthHandler {
	return &HealthHandler{store: store}
}

// Routes returns the HTTP routes this handler serves.
func (h *HealthHandler) Routes() []string {
	return []string{"GET /healthz"}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable", Identity: h.store.Strategy().Kind()})
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Identity: h.store.Strategy().Kind()})
}
