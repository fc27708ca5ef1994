package tasks

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Diome1804/projet-todo/repository"
	"github.com/Diome1804/projet-todo/utils"

	"github.com/gorilla/mux"
)

// coerceBool maps the loose string forms clients send ("true", "1", "yes",
// "on" and their negatives) onto a real boolean. The second return is false
// when the value is absent or unrecognized.
func coerceBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "on":
		return true, true
	case "false", "0", "no", "off":
		return false, true
	default:
		return false, false
	}
}

// grantInput is the parsed body of a grant request. CanEdit/CanDelete stay
// nil when omitted so the repository can preserve the stored flags.
type grantInput struct {
	GranteeID uint
	CanEdit   *bool
	CanDelete *bool
}

// parseGrantBody accepts either a JSON body or a urlencoded/multipart form.
// JSON booleans may also arrive as strings, which go through coerceBool.
func parseGrantBody(r *http.Request) (grantInput, error) {
	var in grantInput
	ct := r.Header.Get("Content-Type")

	if strings.HasPrefix(ct, "application/json") {
		var raw struct {
			GranteeID json.Number `json:"granteeId"`
			CanEdit   interface{} `json:"canEdit"`
			CanDelete interface{} `json:"canDelete"`
		}
		dec := json.NewDecoder(r.Body)
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return in, errors.New("invalid JSON body")
		}
		id, err := raw.GranteeID.Int64()
		if err != nil || id <= 0 {
			return in, errors.New("granteeId must be a positive integer")
		}
		in.GranteeID = uint(id)
		if in.CanEdit, err = coerceJSONBool(raw.CanEdit, "canEdit"); err != nil {
			return in, err
		}
		if in.CanDelete, err = coerceJSONBool(raw.CanDelete, "canDelete"); err != nil {
			return in, err
		}
		return in, nil
	}

	if err := r.ParseForm(); err != nil {
		return in, errors.New("invalid form body")
	}
	id, err := strconv.ParseUint(r.FormValue("granteeId"), 10, 32)
	if err != nil || id == 0 {
		return in, errors.New("granteeId must be a positive integer")
	}
	in.GranteeID = uint(id)
	if raw := r.FormValue("canEdit"); raw != "" {
		v, ok := coerceBool(raw)
		if !ok {
			return in, errors.New("canEdit must be a boolean")
		}
		in.CanEdit = &v
	}
	if raw := r.FormValue("canDelete"); raw != "" {
		v, ok := coerceBool(raw)
		if !ok {
			return in, errors.New("canDelete must be a boolean")
		}
		in.CanDelete = &v
	}
	return in, nil
}

// coerceJSONBool handles a JSON field that may be a bool, a string form of a
// bool, or absent.
func coerceJSONBool(v interface{}, field string) (*bool, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case bool:
		return &t, nil
	case string:
		b, ok := coerceBool(t)
		if !ok {
			return nil, errors.New(field + " must be a boolean")
		}
		return &b, nil
	default:
		return nil, errors.New(field + " must be a boolean")
	}
}

// POST /task/{id}/permissions — owner only. Grants or adjusts another
// user's edit/delete rights on the task; flags left out of the body keep
// their stored value, and a grant that ends with both flags false removes
// the grant entirely.
func (c *Controller) GrantHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	id := taskIDFromRequest(r)
	if id == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid task id"})
		return
	}

	in, err := parseGrantBody(r)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Validation error", Issues: []string{err.Error()}})
		return
	}
	if in.GranteeID == uid {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Cannot grant permissions to yourself"})
		return
	}

	// task existence and ownership resolve first so a non-owner cannot
	// probe which user ids exist
	task, err := c.Tasks.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Task not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	if task.UserID != uid {
		utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: "Only the owner can manage permissions"})
		return
	}

	if _, err := c.Users.FindByID(in.GranteeID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "User not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	if err := c.Tasks.GrantPermission(id, uid, in.GranteeID, in.CanEdit, in.CanDelete); err != nil {
		switch {
		case errors.Is(err, repository.ErrTaskNotFound):
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Task not found"})
		case errors.Is(err, repository.ErrNotAllowed):
			utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: "Only the owner can manage permissions"})
		default:
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		}
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Permissions updated"})
}

// DELETE /task/{id}/permissions/{userId} — owner only, idempotent.
func (c *Controller) RevokeHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	id := taskIDFromRequest(r)
	if id == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid task id"})
		return
	}
	granteeRaw := mux.Vars(r)["userId"]
	granteeID, err := strconv.ParseUint(granteeRaw, 10, 32)
	if err != nil || granteeID == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid user id"})
		return
	}

	if err := c.Tasks.RevokePermission(id, uid, uint(granteeID)); err != nil {
		switch {
		case errors.Is(err, repository.ErrTaskNotFound):
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Task not found"})
		case errors.Is(err, repository.ErrNotAllowed):
			utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: "Only the owner can manage permissions"})
		default:
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		}
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Permission revoked"})
}
