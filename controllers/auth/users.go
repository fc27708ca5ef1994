package auth

import (
	"log"
	"net/http"
	"time"

	"github.com/Diome1804/projet-todo/utils"
)

// GET /auth/users lists every account with only its safe fields.
func (c *Controller) UsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := c.Users.FindAll()
	if err != nil {
		log.Printf("[users] list: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	type userDTO struct {
		ID        uint   `json:"id"`
		Email     string `json:"email"`
		Name      string `json:"name"`
		IsActive  bool   `json:"is_active"`
		CreatedAt string `json:"created_at"`
	}
	items := make([]userDTO, 0, len(users))
	for _, u := range users {
		items = append(items, userDTO{
			ID:        u.ID,
			Email:     u.Email,
			Name:      u.Name,
			IsActive:  u.IsActive,
			CreatedAt: u.CreatedAt.Format(time.RFC3339),
		})
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: items})
}
