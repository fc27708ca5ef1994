package tasks

import (
	"errors"
	"net/http"

	"github.com/Diome1804/projet-todo/models"
	"github.com/Diome1804/projet-todo/repository"
	"github.com/Diome1804/projet-todo/utils"
)

// PATCH /task/{id}/completed flips the completed flag. The caller needs
// edit rights, same as a regular update.
func (c *Controller) ToggleHandler(w http.ResponseWriter, r *http.Request) {
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

	task, err := c.Tasks.ToggleCompleted(id, uid)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrTaskNotFound):
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Task not found"})
		case errors.Is(err, repository.ErrNotAllowed):
			utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: "Not authorized"})
		default:
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		}
		return
	}

	detail := "reopened"
	if task.Completed {
		detail = "completed"
	}
	c.logAction(id, uid, models.ActionComplete, detail)

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Task updated", Data: task})
}
