package auth

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/Diome1804/projet-todo/utils"
)

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// POST /auth/logout revokes the caller's refresh token and blacklists the
// presented access token until its natural expiry. Both steps are
// best-effort: logout always answers 200 for an authenticated caller.
func (c *Controller) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	var req LogoutRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	if req.RefreshToken != "" {
		_ = c.Tokens.Revoke(req.RefreshToken)
	}

	// blacklist the access token's jti for the remainder of its lifetime
	authz := r.Header.Get("Authorization")
	if strings.HasPrefix(authz, "Bearer ") {
		tokenStr := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
		if claims, err := utils.ValidateAccessToken(tokenStr); err == nil {
			jti, _ := claims["jti"].(string)
			ttl := time.Hour
			if exp, ok := claims["exp"].(float64); ok {
				if remain := time.Until(time.Unix(int64(exp), 0)); remain > 0 {
					ttl = remain
				}
			}
			_ = utils.RevokeJTI(jti, ttl)
		}
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Logged out"})
}
