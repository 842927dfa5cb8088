package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"srms_backend/internal/marks"
	"srms_backend/internal/server/util"
)

// maxUploadSize bounds the in-memory size of an uploaded marks table.
const maxUploadSize = 16 << 20 // 16MB

// MarksHandler holds the marks service.
type MarksHandler struct {
	Marks *marks.Service
}

// Upload handles POST /marks/upload (multipart, field "file")
func (h *MarksHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	count, err := h.Marks.Upload(r.Context(), header.Filename, file)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Marks uploaded successfully",
		"count":   count,
	})
}

// Download handles GET /marks/download/{studentId}
func (h *MarksHandler) Download(w http.ResponseWriter, r *http.Request) {
	studentID := chi.URLParam(r, "studentId")
	if studentID == "" {
		util.WriteJSONError(w, http.StatusBadRequest, "studentId is required")
		return
	}

	pdfBytes, filename, err := h.Marks.Download(r.Context(), studentID)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(pdfBytes)
}

// Analytics handles GET /marks/analytics
func (h *MarksHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := h.Marks.AnalyticsReport(r.Context())
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, analytics)
}
