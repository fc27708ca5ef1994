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

type ForgotPasswordRequest struct {
	Email            string `json:"email" validate:"required,emailok"`
	SecurityQuestion string `json:"security_question" validate:"required"`
	SecurityAnswer   string `json:"security_answer" validate:"required"`
	NewPassword      string `json:"new_password" validate:"required,pwdstrong"`
}

// POST /auth/forgot-password
//
// The security question/answer pair is collected and validated for shape but
// not verified against stored data; the accounts here carry no security
// answers. TODO: persist per-user security answers and verify before reset.
func (c *Controller) ForgotPasswordHandler(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	user, err := c.Users.FindByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "User not found"})
			return
		}
		log.Printf("[forgot-password] lookup: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	if !user.IsActive {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "User not found"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	if err := c.Users.UpdatePassword(user.ID, string(hashed)); err != nil {
		log.Printf("[forgot-password] update: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Password updated"})
}
