package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/nastly29/home-organizer/internal/database"
	"github.com/nastly29/home-organizer/internal/metrics"
	"github.com/nastly29/home-organizer/internal/models"
)

const (
	minTeamNameLength = 2
	maxChatLinkLength = 700
	linkDeleteBatch   = 400
)

type TeamService struct {
	db *database.DB
}

func NewTeamService(db *database.DB) *TeamService {
	return &TeamService{db: db}
}

func normalizeTeamName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) < minTeamNameLength {
		return "", ErrInvalidName
	}
	return name, nil
}

func (s *TeamService) Create(ctx context.Context, name, uid string) (*models.Team, error) {
	name, err := normalizeTeamName(name)
	if err != nil {
		return nil, err
	}

	var team *models.Team
	err = s.db.InTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		t, err := scanTeam(tx.QueryRow(ctx, `
			INSERT INTO teams (name, owner_id, members_count)
			VALUES ($1, $2, 1)
			RETURNING `+teamColumns, name, uid))
		if err != nil {
			return fmt.Errorf("failed to create team: %w", err)
		}
		if err := insertLink(ctx, tx, t.ID, uid, models.RoleOwner); err != nil {
			return err
		}
		team = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("team created", "team_id", team.ID, "uid", uid)
	return team, nil
}

// Join adds uid as a member. Joining a team twice is a no-op that returns the
// current team.
func (s *TeamService) Join(ctx context.Context, teamID uuid.UUID, uid string) (*models.Team, error) {
	var team *models.Team
	joined := false
	err := s.db.InTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		joined = false
		t, err := lockTeam(ctx, tx, teamID)
		if err != nil {
			return err
		}
		_, ok, err := linkRole(ctx, tx, teamID, uid)
		if err != nil {
			return err
		}
		if ok {
			team = t
			return nil
		}

		if err := insertLink(ctx, tx, teamID, uid, models.RoleMember); err != nil {
			return err
		}
		team, err = adjustMembersCount(ctx, tx, teamID, 1)
		joined = true
		return err
	})
	if err != nil {
		return nil, err
	}

	if joined {
		slog.Info("member joined", "team_id", teamID, "uid", uid)
	}
	return team, nil
}

func (s *TeamService) Leave(ctx context.Context, teamID uuid.UUID, uid string) error {
	err := s.db.InTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := lockTeam(ctx, tx, teamID); err != nil {
			return err
		}
		role, ok, err := linkRole(ctx, tx, teamID, uid)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotMember
		}
		if role == models.RoleOwner {
			return ErrOwnerCannotLeave
		}

		if err := deleteLink(ctx, tx, teamID, uid); err != nil {
			return err
		}
		_, err = adjustMembersCount(ctx, tx, teamID, -1)
		return err
	})
	if err != nil {
		return err
	}

	slog.Info("member left", "team_id", teamID, "uid", uid)
	return nil
}

// TransferOwnership makes newOwnerUID the owner and demotes currentUID to a
// plain member. The former owner stays in the team.
func (s *TeamService) TransferOwnership(ctx context.Context, teamID uuid.UUID, currentUID, newOwnerUID string) error {
	if currentUID == newOwnerUID {
		return ErrInvalidTarget
	}

	err := s.db.InTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := lockTeam(ctx, tx, teamID); err != nil {
			return err
		}
		role, ok, err := linkRole(ctx, tx, teamID, currentUID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotMember
		}
		if role != models.RoleOwner {
			return ErrForbidden
		}
		if _, ok, err = linkRole(ctx, tx, teamID, newOwnerUID); err != nil {
			return err
		}
		if !ok {
			return ErrNewOwnerNotMember
		}

		if err := setLinkRole(ctx, tx, teamID, currentUID, models.RoleMember); err != nil {
			return err
		}
		if err := setLinkRole(ctx, tx, teamID, newOwnerUID, models.RoleOwner); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
			UPDATE teams SET owner_id = $2, updated_at = NOW() WHERE id = $1
		`, teamID, newOwnerUID); err != nil {
			return fmt.Errorf("failed to update team owner: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("ownership transferred", "team_id", teamID, "from", currentUID, "to", newOwnerUID)
	return nil
}

func (s *TeamService) RemoveMember(ctx context.Context, teamID uuid.UUID, actingUID, targetUID string) error {
	err := s.db.InTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := lockTeam(ctx, tx, teamID); err != nil {
			return err
		}
		role, ok, err := linkRole(ctx, tx, teamID, actingUID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotMember
		}
		if targetUID == actingUID {
			if role == models.RoleOwner {
				return ErrCannotRemoveSelf
			}
			return ErrForbidden
		}
		targetRole, found, err := linkRole(ctx, tx, teamID, targetUID)
		if err != nil {
			return err
		}
		// The owner is never removable, whoever asks. A previous owner who
		// just transferred learns that rather than a bare Forbidden.
		if found && targetRole == models.RoleOwner {
			return ErrCannotRemoveOwner
		}
		if role != models.RoleOwner {
			return ErrForbidden
		}
		if !found {
			return ErrMemberNotFound
		}

		if err := deleteLink(ctx, tx, teamID, targetUID); err != nil {
			return err
		}
		_, err = adjustMembersCount(ctx, tx, teamID, -1)
		return err
	})
	if err != nil {
		return err
	}

	slog.Info("member removed", "team_id", teamID, "uid", targetUID, "by", actingUID)
	return nil
}

func (s *TeamService) Rename(ctx context.Context, teamID uuid.UUID, actingUID, name string) (*models.Team, error) {
	name, err := normalizeTeamName(name)
	if err != nil {
		return nil, err
	}

	var team *models.Team
	err = s.db.InTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := requireOwnerTx(ctx, tx, teamID, actingUID); err != nil {
			return err
		}
		t, err := scanTeam(tx.QueryRow(ctx, `
			UPDATE teams SET name = $2, updated_at = NOW()
			WHERE id = $1
			RETURNING `+teamColumns, teamID, name))
		if err != nil {
			return fmt.Errorf("failed to rename team: %w", err)
		}
		team = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return team, nil
}

// Delete removes the team, its member rows and every record scoped to it in
// one transaction, then drops the members' user_teams links in batches. A
// crash between the two steps leaves dangling links; GetUserTeams skips them
// and ReconcileOrphanLinks removes them.
func (s *TeamService) Delete(ctx context.Context, teamID uuid.UUID, actingUID string) error {
	var uids []string
	err := s.db.InTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		uids = nil
		if err := requireOwnerTx(ctx, tx, teamID, actingUID); err != nil {
			return err
		}

		rows, err := tx.Query(ctx, `SELECT uid FROM team_members WHERE team_id = $1`, teamID)
		if err != nil {
			return fmt.Errorf("failed to list team members: %w", err)
		}
		uids, err = pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return fmt.Errorf("failed to list team members: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM teams WHERE id = $1`, teamID); err != nil {
			return fmt.Errorf("failed to delete team: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for start := 0; start < len(uids); start += linkDeleteBatch {
		end := min(start+linkDeleteBatch, len(uids))
		if _, err := s.db.Pool.Exec(ctx, `
			DELETE FROM user_teams WHERE team_id = $1 AND uid = ANY($2)
		`, teamID, uids[start:end]); err != nil {
			slog.Warn("team deleted with leftover links", "team_id", teamID, "error", err)
			return fmt.Errorf("failed to delete member links: %w", err)
		}
	}

	slog.Info("team deleted", "team_id", teamID, "members", len(uids))
	return nil
}

func requireOwnerTx(ctx context.Context, tx pgx.Tx, teamID uuid.UUID, uid string) error {
	if _, err := lockTeam(ctx, tx, teamID); err != nil {
		return err
	}
	role, ok, err := linkRole(ctx, tx, teamID, uid)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotMember
	}
	if role != models.RoleOwner {
		return ErrForbidden
	}
	return nil
}

func (s *TeamService) GetByID(ctx context.Context, teamID uuid.UUID) (*models.Team, error) {
	team, err := scanTeam(s.db.Pool.QueryRow(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = $1`, teamID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return team, nil
}

// GetUserTeams lists the teams uid belongs to, newest membership first.
// Links whose team no longer exists are skipped.
func (s *TeamService) GetUserTeams(ctx context.Context, uid string) ([]models.TeamWithRole, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT team_id, role, joined_at FROM user_teams
		WHERE uid = $1
		ORDER BY joined_at DESC
	`, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to list user teams: %w", err)
	}
	defer rows.Close()

	var links []models.Membership
	for rows.Next() {
		var m models.Membership
		var role string
		if err := rows.Scan(&m.TeamID, &role, &m.JoinedAt); err != nil {
			return nil, err
		}
		if m.Role, err = models.ParseRole(role); err != nil {
			return nil, err
		}
		links = append(links, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return []models.TeamWithRole{}, nil
	}

	ids := make([]uuid.UUID, len(links))
	for i, l := range links {
		ids[i] = l.TeamID
	}
	trows, err := s.db.Pool.Query(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load teams: %w", err)
	}
	defer trows.Close()

	byID := make(map[uuid.UUID]*models.Team, len(ids))
	for trows.Next() {
		t, err := scanTeam(trows)
		if err != nil {
			return nil, err
		}
		byID[t.ID] = t
	}
	if err := trows.Err(); err != nil {
		return nil, err
	}

	teams := make([]models.TeamWithRole, 0, len(links))
	for _, l := range links {
		t, ok := byID[l.TeamID]
		if !ok {
			slog.Debug("skipping orphaned team link", "team_id", l.TeamID, "uid", uid)
			continue
		}
		teams = append(teams, models.TeamWithRole{Team: *t, Role: l.Role, JoinedAt: l.JoinedAt})
	}
	return teams, nil
}

func (s *TeamService) GetMembers(ctx context.Context, teamID uuid.UUID) ([]models.TeamMember, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT tm.uid, tm.role, tm.joined_at, COALESCE(u.display_name, ''), COALESCE(u.email, '')
		FROM team_members tm
		LEFT JOIN users u ON u.uid = tm.uid
		WHERE tm.team_id = $1
		ORDER BY tm.joined_at
	`, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	members := []models.TeamMember{}
	for rows.Next() {
		m := models.TeamMember{TeamID: teamID}
		var role string
		if err := rows.Scan(&m.UID, &role, &m.JoinedAt, &m.DisplayName, &m.Email); err != nil {
			return nil, err
		}
		if m.Role, err = models.ParseRole(role); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *TeamService) GetChatLink(ctx context.Context, teamID uuid.UUID) (string, error) {
	var link string
	err := s.db.Pool.QueryRow(ctx, `SELECT chat_invite_link FROM teams WHERE id = $1`, teamID).Scan(&link)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrTeamNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get chat link: %w", err)
	}
	return link, nil
}

func (s *TeamService) UpdateChatLink(ctx context.Context, teamID uuid.UUID, actingUID, link string) (string, error) {
	link = strings.TrimSpace(link)
	if utf8.RuneCountInString(link) > maxChatLinkLength {
		return "", ErrLinkTooLong
	}

	err := s.db.InTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := requireOwnerTx(ctx, tx, teamID, actingUID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
			UPDATE teams SET chat_invite_link = $2, chat_invite_updated_at = NOW(), updated_at = NOW()
			WHERE id = $1
		`, teamID, link); err != nil {
			return fmt.Errorf("failed to update chat link: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return link, nil
}

// ReconcileOrphanLinks deletes user_teams rows whose team is gone and returns
// how many were removed.
func (s *TeamService) ReconcileOrphanLinks(ctx context.Context) (int64, error) {
	tag, err := s.db.Pool.Exec(ctx, `
		DELETE FROM user_teams ut
		WHERE NOT EXISTS (SELECT 1 FROM teams t WHERE t.id = ut.team_id)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep orphan links: %w", err)
	}

	n := tag.RowsAffected()
	if n > 0 {
		metrics.OrphanLinksSwept.Add(float64(n))
		slog.Info("orphan team links swept", "count", n)
	}
	return n, nil
}
