package auth

import (
	"os"
	"strconv"
	"time"

	"github.com/Diome1804/projet-todo/repository"

	"gorm.io/gorm"
)

// Controller serves registration, login and token lifecycle endpoints.
type Controller struct {
	Users  *repository.UserRepository
	Tokens *repository.TokenRepository
}

func NewController(db *gorm.DB) *Controller {
	return &Controller{
		Users:  repository.NewUserRepository(db),
		Tokens: repository.NewTokenRepository(db),
	}
}

// accessTokenTTL reads TOKEN_TTL_MINUTES, defaulting to one hour.
func accessTokenTTL() time.Duration {
	if s := os.Getenv("TOKEN_TTL_MINUTES"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			return time.Duration(v) * time.Minute
		}
	}
	return time.Hour
}
