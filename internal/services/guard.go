package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/nastly29/home-organizer/internal/database"
	"github.com/nastly29/home-organizer/internal/models"
)

// Guard answers membership questions from the user_teams index. It reads
// outside any transaction; writers re-check inside their own.
type Guard struct {
	db *database.DB
}

func NewGuard(db *database.DB) *Guard {
	return &Guard{db: db}
}

func (g *Guard) CheckMembership(ctx context.Context, teamID uuid.UUID, uid string) (*models.Membership, error) {
	var role string
	m := models.Membership{UID: uid, TeamID: teamID}
	err := g.db.Pool.QueryRow(ctx, `
		SELECT role, joined_at FROM user_teams WHERE uid = $1 AND team_id = $2
	`, uid, teamID).Scan(&role, &m.JoinedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotMember
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read membership: %w", err)
	}

	m.Role, err = models.ParseRole(role)
	if err != nil {
		return nil, fmt.Errorf("membership %s/%s: %w", teamID, uid, err)
	}
	return &m, nil
}

// RequireRole is CheckMembership plus a role match; a member holding a
// different role gets ErrForbidden.
func (g *Guard) RequireRole(ctx context.Context, teamID uuid.UUID, uid string, role models.Role) (*models.Membership, error) {
	m, err := g.CheckMembership(ctx, teamID, uid)
	if err != nil {
		return nil, err
	}
	if m.Role != role {
		return nil, ErrForbidden
	}
	return m, nil
}
