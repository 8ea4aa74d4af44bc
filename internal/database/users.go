package database

import (
	"context"
	"strings"

	"gdccrm/internal/apperr"
	"gdccrm/internal/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const invalidCredentials = "Invalid login credentials. Please try again."

// Authenticate checks an email/password pair. Unknown email and wrong
// password give the same Auth error.
func (g *Gateway) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	err := g.db.WithContext(ctx).Where("email = ?", strings.TrimSpace(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Auth(invalidCredentials)
	}
	if err != nil {
		return nil, apperr.Backend("Failed to sign in", errors.Wrap(err, "select user"))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperr.Auth(invalidCredentials)
	}
	return &user, nil
}

func (g *Gateway) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("User not found")
	}
	if err != nil {
		return nil, apperr.Backend("Failed to load user", errors.Wrap(err, "select user"))
	}
	return &user, nil
}
