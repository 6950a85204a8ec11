package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/nursultan-qb/docvault/internal/models"
	"github.com/nursultan-qb/docvault/internal/services"
	"github.com/nursultan-qb/docvault/pkg/middleware"
)

// CommentHandler handles document comments and moderation.
type CommentHandler struct {
	Service *services.CommentService
}

// NewCommentHandler creates a new instance of CommentHandler.
func NewCommentHandler(service *services.CommentService) *CommentHandler {
	return &CommentHandler{Service: service}
}

// CreateCommentHandler attaches a comment to a document.
func (h *CommentHandler) CreateCommentHandler(w http.ResponseWriter, r *http.Request) {
	actor := actorFromRequest(r)
	if actor == nil {
		respondJSON(w, http.StatusUnauthorized, Envelope{Status: "fail", Message: "unauthorized"})
		return
	}

	var body struct {
		Body string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondJSON(w, http.StatusBadRequest, Envelope{Status: "fail", Message: "invalid request payload"})
		return
	}
	defer r.Body.Close()

	comment, err := h.Service.CreateComment(r.Context(), mux.Vars(r)["id"], actor.ID, body.Body)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusCreated, comment)
}

// GetDocumentCommentsHandler lists a document's comments. Admins also see
// hidden and removed comments.
func (h *CommentHandler) GetDocumentCommentsHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		respondJSON(w, http.StatusUnauthorized, Envelope{Status: "fail", Message: "unauthorized"})
		return
	}

	comments, err := h.Service.GetDocumentComments(r.Context(), mux.Vars(r)["id"], models.Role(claims.Role))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, comments)
}

// ModerateCommentHandler moves a comment between moderation states.
func (h *CommentHandler) ModerateCommentHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondJSON(w, http.StatusBadRequest, Envelope{Status: "fail", Message: "invalid request payload"})
		return
	}
	defer r.Body.Close()

	if err := h.Service.ModerateComment(r.Context(), mux.Vars(r)["id"], body.Status); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, Envelope{Status: "success", Message: "comment moderated"})
}

// DeleteCommentHandler permanently removes a comment.
func (h *CommentHandler) DeleteCommentHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteComment(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, Envelope{Status: "success", Message: "comment deleted"})
}
