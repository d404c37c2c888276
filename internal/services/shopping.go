package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/nastly29/home-organizer/internal/database"
	"github.com/nastly29/home-organizer/internal/models"
)

const (
	shoppingColumns = `id, team_id, title, category, note, qty_value, qty_unit, created_by, created_at, updated_at`
	defaultCategory = "other"
)

type ShoppingInput struct {
	Title    string
	Category string
	Note     string
	QtyValue *float64
	QtyUnit  string
}

// normalize drops a non-positive quantity together with its unit.
func (in ShoppingInput) normalize() (ShoppingInput, error) {
	out := ShoppingInput{
		Title:    strings.TrimSpace(in.Title),
		Category: strings.TrimSpace(in.Category),
		Note:     strings.TrimSpace(in.Note),
	}
	if utf8.RuneCountInString(out.Title) < minTitleLength {
		return out, ErrTitleRequired
	}
	if out.Category == "" {
		out.Category = defaultCategory
	}
	if in.QtyValue != nil && *in.QtyValue > 0 && !math.IsInf(*in.QtyValue, 0) {
		v := *in.QtyValue
		out.QtyValue = &v
		out.QtyUnit = strings.TrimSpace(in.QtyUnit)
	}
	return out, nil
}

type ShoppingService struct {
	db *database.DB
}

func NewShoppingService(db *database.DB) *ShoppingService {
	return &ShoppingService{db: db}
}

func scanShoppingItem(row pgx.Row) (*models.ShoppingItem, error) {
	var it models.ShoppingItem
	err := row.Scan(&it.ID, &it.TeamID, &it.Title, &it.Category, &it.Note, &it.QtyValue, &it.QtyUnit,
		&it.CreatedBy, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// List returns open items, newest first. An empty category or "all" lists
// every category.
func (s *ShoppingService) List(ctx context.Context, teamID uuid.UUID, category string) ([]models.ShoppingItem, error) {
	query := `SELECT ` + shoppingColumns + ` FROM shopping_items WHERE team_id = $1`
	args := []any{teamID}
	if category = strings.TrimSpace(category); category != "" && category != "all" {
		query += ` AND category = $2`
		args = append(args, category)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list shopping items: %w", err)
	}
	defer rows.Close()

	items := []models.ShoppingItem{}
	for rows.Next() {
		it, err := scanShoppingItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

func (s *ShoppingService) Create(ctx context.Context, teamID uuid.UUID, uid string, in ShoppingInput) (*models.ShoppingItem, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}

	var item *models.ShoppingItem
	err = s.db.InTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := requireMemberTx(ctx, tx, teamID, uid); err != nil {
			return err
		}
		it, err := scanShoppingItem(tx.QueryRow(ctx, `
			INSERT INTO shopping_items (team_id, title, category, note, qty_value, qty_unit, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING `+shoppingColumns, teamID, in.Title, in.Category, in.Note, in.QtyValue, in.QtyUnit, uid))
		if err != nil {
			return fmt.Errorf("failed to create shopping item: %w", err)
		}
		item = it
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func lockShoppingAuthor(ctx context.Context, tx pgx.Tx, teamID, id uuid.UUID) (string, error) {
	var createdBy string
	err := tx.QueryRow(ctx, `
		SELECT created_by FROM shopping_items WHERE id = $1 AND team_id = $2 FOR UPDATE
	`, id, teamID).Scan(&createdBy)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrShoppingNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to load shopping item: %w", err)
	}
	return createdBy, nil
}

// Update replaces the editable fields of an item. Only its author may edit.
func (s *ShoppingService) Update(ctx context.Context, teamID, id uuid.UUID, uid string, in ShoppingInput) (*models.ShoppingItem, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}

	var item *models.ShoppingItem
	err = s.db.InTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := requireMemberTx(ctx, tx, teamID, uid); err != nil {
			return err
		}
		author, err := lockShoppingAuthor(ctx, tx, teamID, id)
		if err != nil {
			return err
		}
		if author != uid {
			return ErrNotAuthor
		}
		it, err := scanShoppingItem(tx.QueryRow(ctx, `
			UPDATE shopping_items SET title = $3, category = $4, note = $5, qty_value = $6, qty_unit = $7, updated_at = NOW()
			WHERE id = $1 AND team_id = $2
			RETURNING `+shoppingColumns, id, teamID, in.Title, in.Category, in.Note, in.QtyValue, in.QtyUnit))
		if err != nil {
			return fmt.Errorf("failed to update shopping item: %w", err)
		}
		item = it
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *ShoppingService) Delete(ctx context.Context, teamID, id uuid.UUID, uid string) error {
	return s.db.InTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := requireMemberTx(ctx, tx, teamID, uid); err != nil {
			return err
		}
		author, err := lockShoppingAuthor(ctx, tx, teamID, id)
		if err != nil {
			return err
		}
		if author != uid {
			return ErrNotAuthor
		}
		if _, err := tx.Exec(ctx, `DELETE FROM shopping_items WHERE id = $1 AND team_id = $2`, id, teamID); err != nil {
			return fmt.Errorf("failed to delete shopping item: %w", err)
		}
		return nil
	})
}

// Confirm marks an item as bought, which removes it from the list. Any
// member may confirm.
func (s *ShoppingService) Confirm(ctx context.Context, teamID, id uuid.UUID, uid string) error {
	return s.db.InTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := requireMemberTx(ctx, tx, teamID, uid); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM shopping_items WHERE id = $1 AND team_id = $2`, id, teamID)
		if err != nil {
			return fmt.Errorf("failed to confirm shopping item: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrShoppingNotFound
		}
		return nil
	})
}
