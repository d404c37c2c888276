package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"
	"github.com/nastly29/home-organizer/internal/database"
	"github.com/nastly29/home-organizer/internal/models"
)

const maxDisplayNameLength = 255

type UserService struct {
	db *database.DB
}

func NewUserService(db *database.DB) *UserService {
	return &UserService{db: db}
}

// EnsureProfile creates the profile for a verified identity on first call.
// Later calls only update the display name, and only when one is given.
func (s *UserService) EnsureProfile(ctx context.Context, uid, email, displayName string) (*models.User, error) {
	displayName = strings.TrimSpace(displayName)
	if utf8.RuneCountInString(displayName) > maxDisplayNameLength {
		return nil, ErrDisplayNameTooLong
	}

	var user models.User
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO users (uid, email, display_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (uid) DO UPDATE SET
			display_name = CASE WHEN EXCLUDED.display_name <> '' THEN EXCLUDED.display_name ELSE users.display_name END,
			updated_at = NOW()
		RETURNING uid, email, display_name, created_at, updated_at
	`, uid, email, displayName).Scan(&user.UID, &user.Email, &user.DisplayName, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure profile: %w", err)
	}
	return &user, nil
}

func (s *UserService) GetByUID(ctx context.Context, uid string) (*models.User, error) {
	var user models.User
	err := s.db.Pool.QueryRow(ctx, `
		SELECT uid, email, display_name, created_at, updated_at
		FROM users WHERE uid = $1
	`, uid).Scan(&user.UID, &user.Email, &user.DisplayName, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &user, nil
}
