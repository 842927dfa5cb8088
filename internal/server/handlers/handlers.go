// Package handlers contains the HTTP handlers composing the service layer.
// Handlers decode and validate request bodies, call the matching service,
// and map service errors to HTTP via util.HandleServiceError.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"

	"srms_backend/internal/server/util"
)

var validate = validator.New()

// decodeAndValidate decodes the JSON body into dst and runs struct
// validation. On failure it writes the 400 response and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			util.WriteJSONError(w, http.StatusBadRequest, "Request body is empty")
			return false
		}
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request payload")
		return false
	}

	if err := validate.Struct(dst); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return false
	}

	return true
}
