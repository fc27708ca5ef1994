package auth

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/Diome1804/projet-todo/middleware"
	"github.com/Diome1804/projet-todo/repository"
	"github.com/Diome1804/projet-todo/utils"

	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,emailok"`
	Password string `json:"password" validate:"required,pwdstrong"`
	Name     string `json:"name" validate:"required,namemin"`
}

// POST /auth/register
func (c *Controller) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	user, err := c.Users.Create(req.Email, string(hashed), req.Name)
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Email already in use"})
			return
		}
		log.Printf("[register] create user: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Account created",
		Data: map[string]interface{}{
			"user": map[string]interface{}{
				"id":    user.ID,
				"email": user.Email,
				"name":  user.Name,
			},
		},
	})
}
