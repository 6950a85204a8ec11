package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nursultan-qb/docvault/internal/models"
	"github.com/nursultan-qb/docvault/internal/repository"
	"github.com/nursultan-qb/docvault/internal/services"
	jwtutil "github.com/nursultan-qb/docvault/pkg/jwt"
	"github.com/nursultan-qb/docvault/pkg/middleware"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Envelope is the uniform response body: status is one of "success", "fail"
// (caller error) or "error" (server error).
type Envelope struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func respondJSON(w http.ResponseWriter, code int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}

func respondSuccess(w http.ResponseWriter, code int, data interface{}) {
	respondJSON(w, code, Envelope{Status: "success", Data: data})
}

// respondServiceError maps service-layer failures onto the HTTP surface:
// missing entities are 404s, validation failures 400s, everything else 500.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		respondJSON(w, http.StatusNotFound, Envelope{Status: "fail", Message: "not found"})
	case errors.Is(err, services.ErrInvalidInput):
		respondJSON(w, http.StatusBadRequest, Envelope{Status: "fail", Message: err.Error()})
	default:
		logrus.WithError(err).Error("Request failed")
		respondJSON(w, http.StatusInternalServerError, Envelope{Status: "error", Message: "internal error"})
	}
}

// actorFromRequest builds the acting identity from the auth claims and
// request metadata. Returns nil when the request is unauthenticated.
func actorFromRequest(r *http.Request) *services.Actor {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		return nil
	}
	return actorFromClaims(claims, r)
}

func actorFromClaims(claims *jwtutil.Claims, r *http.Request) *services.Actor {
	actorID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil
	}
	return &services.Actor{
		ID:        actorID,
		Role:      models.Role(claims.Role),
		IP:        r.RemoteAddr,
		UserAgent: r.UserAgent(),
	}
}
