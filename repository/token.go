package repository

import (
	"errors"
	"time"

	"github.com/Diome1804/projet-todo/models"

	"gorm.io/gorm"
)

// ErrTokenInvalid covers unknown, revoked and expired refresh tokens alike so
// responses never reveal which case was hit.
var ErrTokenInvalid = errors.New("invalid refresh token")

const refreshTTLDays = 7

// TokenRepository persists refresh tokens. Access tokens are stateless JWTs;
// only the long-lived refresh side touches the database.
type TokenRepository struct {
	DB *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{DB: db}
}

// CreateRefreshToken mints and stores a refresh token, returning its opaque id.
func (r *TokenRepository) CreateRefreshToken(userID uint) (string, error) {
	rt, err := models.NewRefreshToken(userID, refreshTTLDays)
	if err != nil {
		return "", err
	}
	if err := r.DB.Create(rt).Error; err != nil {
		return "", err
	}
	return rt.ID, nil
}

// Rotate revokes the given refresh token and issues a replacement for the
// same user in one transaction.
func (r *TokenRepository) Rotate(id string) (string, uint, error) {
	var newID string
	var userID uint

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var rt models.RefreshToken
		if err := tx.Where("id = ?", id).First(&rt).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTokenInvalid
			}
			return err
		}
		if rt.Revoked || time.Now().After(rt.ExpiresAt) {
			return ErrTokenInvalid
		}

		if err := tx.Model(&rt).Update("revoked", true).Error; err != nil {
			return err
		}

		next, err := models.NewRefreshToken(rt.UserID, refreshTTLDays)
		if err != nil {
			return err
		}
		if err := tx.Create(next).Error; err != nil {
			return err
		}
		newID = next.ID
		userID = rt.UserID
		return nil
	})
	if err != nil {
		return "", 0, err
	}
	return newID, userID, nil
}

// Revoke marks a refresh token revoked. Revoking an unknown token is a no-op.
func (r *TokenRepository) Revoke(id string) error {
	return r.DB.Model(&models.RefreshToken{}).Where("id = ?", id).Update("revoked", true).Error
}
