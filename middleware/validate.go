package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Diome1804/projet-todo/utils"
)

// ValidateJSON decodes a JSON payload into dst and runs the struct validator.
// On failure it writes the error response itself and returns a non-nil error
// so the handler can simply return.
func ValidateJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	ct := r.Header.Get("Content-Type")
	if ct != "" && !strings.HasPrefix(ct, "application/json") {
		utils.WriteJSON(w, http.StatusUnsupportedMediaType, utils.APIResponse{Success: false, Message: "Content-Type must be application/json"})
		return http.ErrNotSupported
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON body"})
		return err
	}
	if err := utils.ValidateStruct(dst); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Validation error", Issues: []string{err.Error()}})
		return err
	}
	return nil
}
