package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/nastly29/home-organizer/internal/database"
	"github.com/nastly29/home-organizer/internal/models"
)

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// CreateUser inserts a profile with a generated uid, email and display name
func (f *Fixtures) CreateUser(t *testing.T, opts ...UserOption) *models.User {
	t.Helper()
	f.counter++

	user := &models.User{
		UID:         fmt.Sprintf("uid-%d", f.counter),
		Email:       fmt.Sprintf("user%d@example.com", f.counter),
		DisplayName: fmt.Sprintf("Test User %d", f.counter),
	}
	for _, opt := range opts {
		opt(user)
	}

	err := f.db.Pool.QueryRow(context.Background(), `
		INSERT INTO users (uid, email, display_name)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`, user.UID, user.Email, user.DisplayName).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user
}

// UserOption configures a test user
type UserOption func(*models.User)

func WithUID(uid string) UserOption {
	return func(u *models.User) {
		u.UID = uid
	}
}

func WithDisplayName(name string) UserOption {
	return func(u *models.User) {
		u.DisplayName = name
	}
}

// CreateDanglingLink inserts a user_teams row pointing at a team that does
// not exist, as left behind by an interrupted team deletion.
func (f *Fixtures) CreateDanglingLink(t *testing.T, uid string) uuid.UUID {
	t.Helper()
	teamID := uuid.New()
	_, err := f.db.Pool.Exec(context.Background(), `
		INSERT INTO user_teams (uid, team_id, role) VALUES ($1, $2, 'member')
	`, uid, teamID)
	if err != nil {
		t.Fatalf("failed to create dangling link: %v", err)
	}
	return teamID
}

// CountLinks returns the number of user_teams rows for uid
func (f *Fixtures) CountLinks(t *testing.T, uid string) int {
	t.Helper()
	var n int
	err := f.db.Pool.QueryRow(context.Background(), `SELECT COUNT(*) FROM user_teams WHERE uid = $1`, uid).Scan(&n)
	if err != nil {
		t.Fatalf("failed to count links: %v", err)
	}
	return n
}

// CountOwners returns the number of owner rows in a team's member set
func (f *Fixtures) CountOwners(t *testing.T, teamID uuid.UUID) int {
	t.Helper()
	var n int
	err := f.db.Pool.QueryRow(context.Background(), `
		SELECT COUNT(*) FROM team_members WHERE team_id = $1 AND role = 'owner'
	`, teamID).Scan(&n)
	if err != nil {
		t.Fatalf("failed to count owners: %v", err)
	}
	return n
}
