package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/nursultan-qb/docvault/internal/services"
	"github.com/nursultan-qb/docvault/pkg/logger"
	"github.com/nursultan-qb/docvault/pkg/middleware"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationHandler handles HTTP requests for a user's notifications.
type NotificationHandler struct {
	Service *services.NotificationService
}

// NewNotificationHandler creates a new instance of NotificationHandler.
func NewNotificationHandler(service *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{Service: service}
}

// GetUserNotificationsHandler lists the caller's notifications, newest first.
func (h *NotificationHandler) GetUserNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		respondJSON(w, http.StatusUnauthorized, Envelope{Status: "fail", Message: "unauthorized"})
		return
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Envelope{Status: "fail", Message: "invalid user ID"})
		return
	}

	notifications, err := h.Service.GetUserNotifications(r.Context(), userID)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to fetch notifications")
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, notifications)
}

// MarkAsReadHandler marks a notification as read for the calling viewer only.
func (h *NotificationHandler) MarkAsReadHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		respondJSON(w, http.StatusUnauthorized, Envelope{Status: "fail", Message: "unauthorized"})
		return
	}

	notifID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Envelope{Status: "fail", Message: "invalid notification ID"})
		return
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Envelope{Status: "fail", Message: "invalid user ID"})
		return
	}

	if err := h.Service.MarkNotificationAsRead(r.Context(), notifID, userID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, Envelope{Status: "success", Message: "notification marked as read"})
}

// DeleteNotificationHandler removes a notification record.
func (h *NotificationHandler) DeleteNotificationHandler(w http.ResponseWriter, r *http.Request) {
	notifID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Envelope{Status: "fail", Message: "invalid notification ID"})
		return
	}

	if err := h.Service.DeleteNotification(r.Context(), notifID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, Envelope{Status: "success", Message: "notification deleted"})
}
