package tasks

import (
	"errors"
	"net/http"

	"github.com/Diome1804/projet-todo/repository"
	"github.com/Diome1804/projet-todo/utils"
)

// GET /task/{id}/available-users lists the active accounts an owner could
// delegate the task to. Only the owner may ask.
func (c *Controller) AvailableUsersHandler(w http.ResponseWriter, r *http.Request) {
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

	users, err := c.Users.FindActiveExcept(uid)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	type userDTO struct {
		ID    uint   `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	items := make([]userDTO, 0, len(users))
	for _, u := range users {
		items = append(items, userDTO{ID: u.ID, Name: u.Name, Email: u.Email})
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: items})
}
