package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Diome1804/projet-todo/repository"
	"github.com/Diome1804/projet-todo/utils"
)

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// POST /auth/refresh exchanges a valid refresh token for a new access token
// and a rotated refresh token.
func (c *Controller) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON body"})
		return
	}
	if req.RefreshToken == "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "refresh_token is required"})
		return
	}

	newID, userID, err := c.Tokens.Rotate(req.RefreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrTokenInvalid) {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Invalid refresh token"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	ttl := accessTokenTTL()
	accessToken, _, err := utils.GenerateAccessToken(userID, ttl)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Token refreshed",
		Data: map[string]interface{}{
			"token":         accessToken,
			"token_expire":  time.Now().Add(ttl).UTC().Format(time.RFC3339),
			"refresh_token": newID,
		},
	})
}
