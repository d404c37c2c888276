package services

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/nastly29/home-organizer/internal/database"
	"github.com/nastly29/home-organizer/internal/models"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

var serializable = pgx.TxOptions{IsoLevel: pgx.Serializable}

func setupDB(t *testing.T) (*database.DB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return &database.DB{Pool: mock, TxMaxAttempts: 1}, mock
}

func kyiv(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Kyiv")
	require.NoError(t, err)
	return loc
}

func teamRows(teams ...*models.Team) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{"id", "name", "owner_id", "members_count", "chat_invite_link", "created_at", "updated_at"})
	for _, tm := range teams {
		rows.AddRow(tm.ID, tm.Name, tm.OwnerID, tm.MembersCount, tm.ChatInviteLink, tm.CreatedAt, tm.UpdatedAt)
	}
	return rows
}

func roleRow(role models.Role) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"role"}).AddRow(role.String())
}

func uidRows(uids ...string) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{"uid"})
	for _, uid := range uids {
		rows.AddRow(uid)
	}
	return rows
}

func taskRows(tasks ...*models.Task) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{
		"id", "team_id", "title", "due_date", "due_time", "deadline_at", "assignees", "created_by",
		"completed", "completed_at", "completed_by", "created_at", "updated_at",
	})
	for _, tk := range tasks {
		rows.AddRow(tk.ID, tk.TeamID, tk.Title, tk.DueDate, tk.DueTime, tk.DeadlineAt, tk.Assignees, tk.CreatedBy,
			tk.Completed, tk.CompletedAt, tk.CompletedBy, tk.CreatedAt, tk.UpdatedAt)
	}
	return rows
}

const memberCheck = `SELECT 1 FROM team_members WHERE team_id = .+ AND uid = .+ FOR SHARE`

func expectMember(mock pgxmock.PgxPoolIface, teamID uuid.UUID, uid string) {
	mock.ExpectQuery(memberCheck).
		WithArgs(teamID, uid).
		WillReturnRows(pgxmock.NewRows([]string{"?column?"}).AddRow(1))
}

func expectNotMember(mock pgxmock.PgxPoolIface, teamID uuid.UUID, uid string) {
	mock.ExpectQuery(memberCheck).
		WithArgs(teamID, uid).
		WillReturnError(pgx.ErrNoRows)
}
