package handler

import (
	"carsurvey/internal/service"
	"carsurvey/internal/transport/rest/middleware"
	"log"
	"net/http"
)

// StatisticsHandler handles host reporting endpoints
type StatisticsHandler struct {
	statsSvc *service.StatisticsService
}

// NewStatisticsHandler creates a new statistics handler
func NewStatisticsHandler(statsSvc *service.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{statsSvc: statsSvc}
}

// Get handles GET /v1/statistics
func (h *StatisticsHandler) Get(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsSvc.Compute(r.Context())
	if err != nil {
		log.Printf("Statistics for host %s failed: %v", middleware.GetHostID(r.Context()), err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// ListResponses handles GET /v1/responses
func (h *StatisticsHandler) ListResponses(w http.ResponseWriter, r *http.Request) {
	hostID := middleware.GetHostID(r.Context())
	responses, err := h.statsSvc.Responses(r.Context())
	if err != nil {
		log.Printf("Response export for host %s failed: %v", hostID, err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	log.Printf("Host %s exported %d responses", hostID, len(responses))
	writeJSON(w, http.StatusOK, map[string]interface{}{"responses": responses})
}
