package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/nastly29/home-organizer/internal/models"
)

// Every membership link is stored twice: team_members keyed by team and
// user_teams keyed by user. The helpers below are the only writers of either
// table and always touch both inside the caller's transaction.

const teamColumns = `id, name, owner_id, members_count, chat_invite_link, created_at, updated_at`

func scanTeam(row pgx.Row) (*models.Team, error) {
	var t models.Team
	err := row.Scan(&t.ID, &t.Name, &t.OwnerID, &t.MembersCount, &t.ChatInviteLink, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func lockTeam(ctx context.Context, tx pgx.Tx, teamID uuid.UUID) (*models.Team, error) {
	team, err := scanTeam(tx.QueryRow(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = $1 FOR UPDATE`, teamID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock team: %w", err)
	}
	return team, nil
}

// linkRole returns the role of uid in the team, or ok=false when there is no
// link.
func linkRole(ctx context.Context, tx pgx.Tx, teamID uuid.UUID, uid string) (models.Role, bool, error) {
	var raw string
	err := tx.QueryRow(ctx, `
		SELECT role FROM user_teams WHERE uid = $1 AND team_id = $2 FOR UPDATE
	`, uid, teamID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read link: %w", err)
	}
	role, err := models.ParseRole(raw)
	if err != nil {
		return "", false, err
	}
	return role, true, nil
}

// requireMemberTx re-checks membership inside a write transaction. The shared
// row lock makes a concurrent removal of uid conflict with the writer.
func requireMemberTx(ctx context.Context, tx pgx.Tx, teamID uuid.UUID, uid string) error {
	var one int
	err := tx.QueryRow(ctx, `
		SELECT 1 FROM team_members WHERE team_id = $1 AND uid = $2 FOR SHARE
	`, teamID, uid).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotMember
	}
	if err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}
	return nil
}

func insertLink(ctx context.Context, tx pgx.Tx, teamID uuid.UUID, uid string, role models.Role) error {
	if _, err := tx.Exec(ctx, `
		INSERT INTO team_members (team_id, uid, role) VALUES ($1, $2, $3)
	`, teamID, uid, role.String()); err != nil {
		return fmt.Errorf("failed to insert team member: %w", err)
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO user_teams (uid, team_id, role) VALUES ($1, $2, $3)
	`, uid, teamID, role.String()); err != nil {
		return fmt.Errorf("failed to insert user team link: %w", err)
	}
	return nil
}

func setLinkRole(ctx context.Context, tx pgx.Tx, teamID uuid.UUID, uid string, role models.Role) error {
	if _, err := tx.Exec(ctx, `
		UPDATE team_members SET role = $3 WHERE team_id = $1 AND uid = $2
	`, teamID, uid, role.String()); err != nil {
		return fmt.Errorf("failed to update team member role: %w", err)
	}
	if _, err := tx.Exec(ctx, `
		UPDATE user_teams SET role = $3 WHERE team_id = $1 AND uid = $2
	`, teamID, uid, role.String()); err != nil {
		return fmt.Errorf("failed to update user team role: %w", err)
	}
	return nil
}

func deleteLink(ctx context.Context, tx pgx.Tx, teamID uuid.UUID, uid string) error {
	if _, err := tx.Exec(ctx, `
		DELETE FROM team_members WHERE team_id = $1 AND uid = $2
	`, teamID, uid); err != nil {
		return fmt.Errorf("failed to delete team member: %w", err)
	}
	if _, err := tx.Exec(ctx, `
		DELETE FROM user_teams WHERE team_id = $1 AND uid = $2
	`, teamID, uid); err != nil {
		return fmt.Errorf("failed to delete user team link: %w", err)
	}
	return nil
}

func adjustMembersCount(ctx context.Context, tx pgx.Tx, teamID uuid.UUID, delta int) (*models.Team, error) {
	team, err := scanTeam(tx.QueryRow(ctx, `
		UPDATE teams SET members_count = members_count + $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+teamColumns, teamID, delta))
	if err != nil {
		return nil, fmt.Errorf("failed to update members count: %w", err)
	}
	return team, nil
}

// memberSet returns which of uids currently have a team_members row.
func memberSet(ctx context.Context, tx pgx.Tx, teamID uuid.UUID, uids []string) (map[string]bool, error) {
	rows, err := tx.Query(ctx, `
		SELECT uid FROM team_members WHERE team_id = $1 AND uid = ANY($2)
	`, teamID, uids)
	if err != nil {
		return nil, fmt.Errorf("failed to read members: %w", err)
	}
	defer rows.Close()

	found := make(map[string]bool, len(uids))
	for rows.Next() {
		var uid string
		if err := rows.Scan(&uid); err != nil {
			return nil, err
		}
		found[uid] = true
	}
	return found, rows.Err()
}
