package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/nursultan-qb/docvault/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivityHandler exposes the read-only audit trail.
type ActivityHandler struct {
	Service *services.ActivityService
}

// NewActivityHandler creates a new instance of ActivityHandler.
func NewActivityHandler(service *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{Service: service}
}

// GetDocumentActivitiesHandler lists the audit trail of one document.
func (h *ActivityHandler) GetDocumentActivitiesHandler(w http.ResponseWriter, r *http.Request) {
	docID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Envelope{Status: "fail", Message: "invalid document ID"})
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	activities, err := h.Service.GetDocumentActivities(r.Context(), docID, limit)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, activities)
}

// GetRecentActivitiesHandler lists recent audit records across all documents.
func (h *ActivityHandler) GetRecentActivitiesHandler(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	activities, err := h.Service.GetRecentActivities(r.Context(), limit)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, activities)
}
