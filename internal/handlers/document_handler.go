package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/nursultan-qb/docvault/internal/models"
	"github.com/nursultan-qb/docvault/internal/services"
	"github.com/sirupsen/logrus"
)

const maxUploadSize = 50 << 20 // 50MB

// DocumentHandler handles HTTP requests related to archived documents.
type DocumentHandler struct {
	Service *services.DocumentService
}

// NewDocumentHandler creates a new instance of DocumentHandler.
func NewDocumentHandler(service *services.DocumentService) *DocumentHandler {
	return &DocumentHandler{Service: service}
}

// CreateDocumentHandler accepts a multipart upload with document metadata and
// the file itself.
func (h *DocumentHandler) CreateDocumentHandler(w http.ResponseWriter, r *http.Request) {
	actor := actorFromRequest(r)
	if actor == nil {
		respondJSON(w, http.StatusUnauthorized, Envelope{Status: "fail", Message: "unauthorized"})
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		logrus.WithError(err).Warn("Invalid multipart upload")
		respondJSON(w, http.StatusBadRequest, Envelope{Status: "fail", Message: "invalid multipart form"})
		return
	}

	upload := services.DocumentUpload{
		Title:    r.FormValue("title"),
		Category: r.FormValue("category"),
		Author:   r.FormValue("author"),
		Summary:  r.FormValue("summary"),
		Status:   r.FormValue("status"),
	}
	if tags := r.FormValue("tags"); tags != "" {
		upload.Tags = splitTags(tags)
	}

	file, header, err := r.FormFile("file")
	if err == nil {
		defer file.Close()
		upload.File = file
		upload.FileName = header.Filename
	}

	doc, err := h.Service.CreateDocument(r.Context(), upload, *actor)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	logrus.WithFields(logrus.Fields{
		"document_id": doc.ID.Hex(),
		"actor_id":    actor.ID.Hex(),
	}).Info("Document uploaded")
	respondSuccess(w, http.StatusCreated, doc)
}

// GetDocumentHandler fetches a single document by ID.
func (h *DocumentHandler) GetDocumentHandler(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Service.GetDocument(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, doc)
}

// GetDocumentDetailHandler fetches a document joined with its assigned
// users' display names.
func (h *DocumentHandler) GetDocumentDetailHandler(w http.ResponseWriter, r *http.Request) {
	detail, err := h.Service.GetDocumentDetail(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, detail)
}

// ListDocumentsHandler lists documents with optional filters.
func (h *DocumentHandler) ListDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	filter := models.DocumentFilter{
		Status:         r.URL.Query().Get("status"),
		ArchivedStatus: r.URL.Query().Get("archived_status"),
		Category:       r.URL.Query().Get("category"),
	}
	if limit, err := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64); err == nil {
		filter.Limit = limit
	}

	docs, err := h.Service.ListDocuments(r.Context(), filter)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, docs)
}

// UpdateDocumentHandler applies a partial update through the status-transition
// workflow.
func (h *DocumentHandler) UpdateDocumentHandler(w http.ResponseWriter, r *http.Request) {
	actor := actorFromRequest(r)
	if actor == nil {
		respondJSON(w, http.StatusUnauthorized, Envelope{Status: "fail", Message: "unauthorized"})
		return
	}

	var update models.DocumentUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		logrus.WithError(err).Warn("Invalid document update payload")
		respondJSON(w, http.StatusBadRequest, Envelope{Status: "fail", Message: "invalid request payload"})
		return
	}
	defer r.Body.Close()

	doc, err := h.Service.UpdateDocument(r.Context(), mux.Vars(r)["id"], update, *actor)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, doc)
}

// AssignOfficerHandler routes a document to an officer for review.
func (h *DocumentHandler) AssignOfficerHandler(w http.ResponseWriter, r *http.Request) {
	actor := actorFromRequest(r)
	if actor == nil {
		respondJSON(w, http.StatusUnauthorized, Envelope{Status: "fail", Message: "unauthorized"})
		return
	}

	var body struct {
		OfficerID string `json:"officer_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.OfficerID == "" {
		respondJSON(w, http.StatusBadRequest, Envelope{Status: "fail", Message: "officer_id is required"})
		return
	}
	defer r.Body.Close()

	doc, err := h.Service.AssignOfficer(r.Context(), mux.Vars(r)["id"], body.OfficerID, *actor)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, doc)
}

// ReplaceFileHandler uploads a replacement file for an existing document.
func (h *DocumentHandler) ReplaceFileHandler(w http.ResponseWriter, r *http.Request) {
	actor := actorFromRequest(r)
	if actor == nil {
		respondJSON(w, http.StatusUnauthorized, Envelope{Status: "fail", Message: "unauthorized"})
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondJSON(w, http.StatusBadRequest, Envelope{Status: "fail", Message: "invalid multipart form"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Envelope{Status: "fail", Message: "file is required"})
		return
	}
	defer file.Close()

	doc, err := h.Service.ReplaceFile(r.Context(), mux.Vars(r)["id"], file, header.Filename, *actor)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, doc)
}

// DeleteDocumentHandler permanently removes a document.
func (h *DocumentHandler) DeleteDocumentHandler(w http.ResponseWriter, r *http.Request) {
	actor := actorFromRequest(r)
	if actor == nil {
		respondJSON(w, http.StatusUnauthorized, Envelope{Status: "fail", Message: "unauthorized"})
		return
	}

	if err := h.Service.DeleteDocument(r.Context(), mux.Vars(r)["id"], *actor); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, Envelope{Status: "success", Message: "document deleted"})
}

func splitTags(s string) []string {
	parts := strings.Split(s, ",")
	var tags []string
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	return tags
}
