package handlers

import (
	"net/http"

	"srms_backend/internal/auth"
	"srms_backend/internal/server/util"
)

// AuthHandler holds the auth service.
type AuthHandler struct {
	Auth *auth.Service
}

// RESTLoginRequest mirrors the expected JSON input for /auth/login
type RESTLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var reqBody RESTLoginRequest
	if !decodeAndValidate(w, r, &reqBody) {
		return
	}

	token, user, err := h.Auth.Login(r.Context(), reqBody.Email, reqBody.Password)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"token":   token,
		"user": map[string]string{
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// Profile handles GET /auth/profile. The auth middleware has already
// validated the token and stored the claims in the request context.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		util.WriteJSONError(w, http.StatusUnauthorized, "Authorization token required")
		return
	}

	user, err := h.Auth.Profile(r.Context(), claims)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

// Logout handles POST /auth/logout. Tokens carry no server-side state, so a
// valid token only needs acknowledging; the client discards it.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.FromContext(r.Context()); !ok {
		util.WriteJSONError(w, http.StatusUnauthorized, "Authorization token required")
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Logout successful. Please clear the token from client side.",
	})
}
