package handlers

import (
	"net/http"

	"srms_backend/internal/server/util"
	"srms_backend/internal/shared"
	"srms_backend/internal/users"
)

// UserHandler holds the user directory service.
type UserHandler struct {
	Users *users.Service
}

// RESTSignupRequest mirrors the expected JSON input for /users/signup
type RESTSignupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required"`
}

// Signup handles POST /users/signup
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var reqBody RESTSignupRequest
	if !decodeAndValidate(w, r, &reqBody) {
		return
	}

	user, err := h.Users.Signup(r.Context(), reqBody.Name, reqBody.Email, reqBody.Password, reqBody.Role)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "User created successfully",
		"user":    user,
	})
}

// ListStudents handles GET /users/students
func (h *UserHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	h.listByRole(w, r, shared.RoleStudent, "students")
}

// ListTeachers handles GET /users/teachers
func (h *UserHandler) ListTeachers(w http.ResponseWriter, r *http.Request) {
	h.listByRole(w, r, shared.RoleTeacher, "teachers")
}

// ListAdmins handles GET /users/admins
func (h *UserHandler) ListAdmins(w http.ResponseWriter, r *http.Request) {
	h.listByRole(w, r, shared.RoleAdmin, "admins")
}

func (h *UserHandler) listByRole(w http.ResponseWriter, r *http.Request, role, key string) {
	list, err := h.Users.ListByRole(r.Context(), role)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(list),
		key:     list,
	})
}
