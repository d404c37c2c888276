package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/nastly29/home-organizer/internal/database"
	"github.com/nastly29/home-organizer/internal/models"
)

const financeColumns = `id, team_id, spender_uid, spent_date, spent_at, amount, note, created_by, created_at, updated_at`

type FinanceInput struct {
	SpenderUID string
	SpentDate  string
	Amount     float64
	Note       string
}

// FinanceUpdate holds a partial edit. Setting SpenderUID is always rejected.
type FinanceUpdate struct {
	SpenderUID *string
	SpentDate  *string
	Amount     *float64
	Note       *string
}

type FinanceService struct {
	db  *database.DB
	loc *time.Location
}

func NewFinanceService(db *database.DB, loc *time.Location) *FinanceService {
	return &FinanceService{db: db, loc: loc}
}

func scanFinance(row pgx.Row) (*models.Finance, error) {
	var f models.Finance
	err := row.Scan(&f.ID, &f.TeamID, &f.SpenderUID, &f.SpentDate, &f.SpentAt, &f.Amount, &f.Note,
		&f.CreatedBy, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func validAmount(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func (s *FinanceService) spentAt(spentDate string) (time.Time, error) {
	if spentDate == "" {
		return time.Time{}, ErrDateRequired
	}
	t, err := time.ParseInLocation(dateLayout, spentDate, s.loc)
	if err != nil {
		return time.Time{}, ErrDateInvalid
	}
	return t, nil
}

// List returns the team's expenses, newest first. With mine set only
// expenses paid by uid are returned.
func (s *FinanceService) List(ctx context.Context, teamID uuid.UUID, uid string, mine bool) ([]models.Finance, error) {
	query := `SELECT ` + financeColumns + ` FROM finances WHERE team_id = $1`
	args := []any{teamID}
	if mine {
		query += ` AND spender_uid = $2`
		args = append(args, uid)
	}
	query += ` ORDER BY spent_at DESC, created_at DESC`

	rows, err := s.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list finances: %w", err)
	}
	defer rows.Close()

	items := []models.Finance{}
	for rows.Next() {
		f, err := scanFinance(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *f)
	}
	return items, rows.Err()
}

func (s *FinanceService) Create(ctx context.Context, teamID uuid.UUID, uid string, in FinanceInput) (*models.Finance, error) {
	spender := strings.TrimSpace(in.SpenderUID)
	if spender == "" {
		return nil, ErrSpenderRequired
	}
	spentDate := strings.TrimSpace(in.SpentDate)
	spentAt, err := s.spentAt(spentDate)
	if err != nil {
		return nil, err
	}
	if !validAmount(in.Amount) {
		return nil, ErrAmountInvalid
	}

	var item *models.Finance
	err = s.db.InTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		found, err := memberSet(ctx, tx, teamID, []string{uid, spender})
		if err != nil {
			return err
		}
		if !found[uid] {
			return ErrNotMember
		}
		if !found[spender] {
			return ErrSpenderNotMember
		}

		f, err := scanFinance(tx.QueryRow(ctx, `
			INSERT INTO finances (team_id, spender_uid, spent_date, spent_at, amount, note, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING `+financeColumns, teamID, spender, spentDate, spentAt, in.Amount, strings.TrimSpace(in.Note), uid))
		if err != nil {
			return fmt.Errorf("failed to create finance record: %w", err)
		}
		item = f
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func lockFinance(ctx context.Context, tx pgx.Tx, teamID, id uuid.UUID) (*models.Finance, error) {
	f, err := scanFinance(tx.QueryRow(ctx, `
		SELECT `+financeColumns+` FROM finances WHERE id = $1 AND team_id = $2 FOR UPDATE
	`, id, teamID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load finance record: %w", err)
	}
	return f, nil
}

// Update edits an expense. Only the spender may edit, even when someone else
// created the record.
func (s *FinanceService) Update(ctx context.Context, teamID, id uuid.UUID, uid string, upd FinanceUpdate) (*models.Finance, error) {
	var item *models.Finance
	err := s.db.InTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := requireMemberTx(ctx, tx, teamID, uid); err != nil {
			return err
		}
		f, err := lockFinance(ctx, tx, teamID, id)
		if err != nil {
			return err
		}
		if f.SpenderUID != uid {
			return ErrForbidden
		}
		if upd.SpenderUID != nil {
			return ErrSpenderChangeForbidden
		}

		if upd.SpentDate != nil {
			f.SpentDate = strings.TrimSpace(*upd.SpentDate)
			if f.SpentAt, err = s.spentAt(f.SpentDate); err != nil {
				return err
			}
		}
		if upd.Amount != nil {
			if !validAmount(*upd.Amount) {
				return ErrAmountInvalid
			}
			f.Amount = *upd.Amount
		}
		if upd.Note != nil {
			f.Note = strings.TrimSpace(*upd.Note)
		}

		err = tx.QueryRow(ctx, `
			UPDATE finances SET spent_date = $3, spent_at = $4, amount = $5, note = $6, updated_at = NOW()
			WHERE id = $1 AND team_id = $2
			RETURNING updated_at
		`, id, teamID, f.SpentDate, f.SpentAt, f.Amount, f.Note).Scan(&f.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to update finance record: %w", err)
		}
		item = f
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *FinanceService) Delete(ctx context.Context, teamID, id uuid.UUID, uid string) error {
	return s.db.InTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := requireMemberTx(ctx, tx, teamID, uid); err != nil {
			return err
		}
		f, err := lockFinance(ctx, tx, teamID, id)
		if err != nil {
			return err
		}
		if f.SpenderUID != uid {
			return ErrForbidden
		}
		if _, err := tx.Exec(ctx, `DELETE FROM finances WHERE id = $1 AND team_id = $2`, id, teamID); err != nil {
			return fmt.Errorf("failed to delete finance record: %w", err)
		}
		return nil
	})
}
