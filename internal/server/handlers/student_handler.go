package handlers

import (
	"encoding/json"
	"net/http"

	"srms_backend/internal/server/util"
	"srms_backend/internal/shared"
)

// StudentHandler serves the students stub endpoints.
type StudentHandler struct{}

// List handles GET /students
func (h *StudentHandler) List(w http.ResponseWriter, r *http.Request) {
	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Students API is working!",
	})
}

// Create handles POST /students. Stub: echoes the submitted record.
func (h *StudentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var student shared.Student
	if err := json.NewDecoder(r.Body).Decode(&student); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Student added successfully",
		"data":    student,
	})
}
