package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"srms_backend/internal/assignment"
	"srms_backend/internal/server/util"
)

// AssignmentHandler holds the assignment workflow service.
type AssignmentHandler struct {
	Assignments *assignment.Service
}

// RESTCreateAssignmentRequest mirrors the JSON input for /assignments/create
type RESTCreateAssignmentRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Subject     string  `json:"subject" validate:"required"`
	MaxMarks    float64 `json:"maxMarks" validate:"required,gt=0"`
	TeacherID   string  `json:"teacherId" validate:"required"`
	DueDate     string  `json:"dueDate" validate:"required"`
}

// RESTSubmitRequest mirrors the JSON input for /assignments/submit
type RESTSubmitRequest struct {
	AssignmentID string `json:"assignmentId" validate:"required"`
	StudentID    string `json:"studentId" validate:"required"`
}

// RESTVerifyRequest mirrors the JSON input for /assignments/verify.
// ObtainedMarks defaults to 0 when omitted.
type RESTVerifyRequest struct {
	AssignmentID  string  `json:"assignmentId" validate:"required"`
	StudentID     string  `json:"studentId" validate:"required"`
	ObtainedMarks float64 `json:"obtainedMarks" validate:"gte=0"`
}

// Create handles POST /assignments/create
func (h *AssignmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var reqBody RESTCreateAssignmentRequest
	if !decodeAndValidate(w, r, &reqBody) {
		return
	}

	created, err := h.Assignments.Create(r.Context(), assignment.CreateParams{
		Title:       reqBody.Title,
		Description: reqBody.Description,
		Subject:     reqBody.Subject,
		MaxMarks:    reqBody.MaxMarks,
		TeacherID:   reqBody.TeacherID,
		DueDate:     reqBody.DueDate,
	})
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "Assignment created successfully",
		"assignment": created,
	})
}

// ListForStudent handles GET /assignments/student/{studentId}
func (h *AssignmentHandler) ListForStudent(w http.ResponseWriter, r *http.Request) {
	studentID := chi.URLParam(r, "studentId")
	if studentID == "" {
		util.WriteJSONError(w, http.StatusBadRequest, "studentId is required")
		return
	}

	views, err := h.Assignments.ListForStudent(r.Context(), studentID)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, views)
}

// Submit handles POST /assignments/submit
func (h *AssignmentHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var reqBody RESTSubmitRequest
	if !decodeAndValidate(w, r, &reqBody) {
		return
	}

	if err := h.Assignments.Submit(r.Context(), reqBody.AssignmentID, reqBody.StudentID); err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Assignment submitted successfully. Awaiting teacher review.",
	})
}

// Verify handles POST /assignments/verify
func (h *AssignmentHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var reqBody RESTVerifyRequest
	if !decodeAndValidate(w, r, &reqBody) {
		return
	}

	err := h.Assignments.Verify(r.Context(), reqBody.AssignmentID, reqBody.StudentID, reqBody.ObtainedMarks)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Submission verified and marks added to result.",
	})
}

// Status handles GET /assignments/status/{assignmentId}
func (h *AssignmentHandler) Status(w http.ResponseWriter, r *http.Request) {
	assignmentID := chi.URLParam(r, "assignmentId")
	if assignmentID == "" {
		util.WriteJSONError(w, http.StatusBadRequest, "assignmentId is required")
		return
	}

	summary, err := h.Assignments.Status(r.Context(), assignmentID)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, summary)
}

// Analytics handles GET /assignments/analytics
func (h *AssignmentHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := h.Assignments.AnalyticsReport(r.Context())
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, analytics)
}
