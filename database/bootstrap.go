package database

import (
	"context"
	"errors"
	"fmt"

	"gallery-app/internal/domain/users"
	"gallery-app/internal/infra/passwords"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// EnsureAdmin creates the bootstrap admin account unless a user with the
// same username exists.
func EnsureAdmin(ctx context.Context, db *gorm.DB, hasher passwords.Hasher, username, password string) error {
	if username == "" || password == "" {
		return fmt.Errorf("admin credentials not configured")
	}

	var existing users.User
	err := db.WithContext(ctx).Where("username = ?", username).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := users.User{
		ID:           uuid.NewString(),
		Name:         "Administrator",
		Username:     username,
		PasswordHash: hash,
		Role:         users.RoleAdmin,
	}
	if err := db.WithContext(ctx).Create(&admin).Error; err != nil {
		return err
	}
	log.Info().Str("username", username).Msg("bootstrap admin created")
	return nil
}
