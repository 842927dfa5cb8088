package handlers

import (
	"net/http"

	"srms_backend/internal/server/util"
	"srms_backend/internal/shared"
)

// Role is one entry of the static role enumeration.
type Role struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Roles is the fixed role list served to frontend dropdowns.
var Roles = []Role{
	{ID: 1, Name: shared.RoleAdmin},
	{ID: 2, Name: shared.RoleTeacher},
	{ID: 3, Name: shared.RoleStudent},
}

// RoleHandler serves the static role enumeration.
type RoleHandler struct{}

// List handles GET /roles
func (h *RoleHandler) List(w http.ResponseWriter, r *http.Request) {
	util.WriteJSON(w, http.StatusOK, map[string]interface{}{"roles": Roles})
}
