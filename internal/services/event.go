package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/nastly29/home-organizer/internal/database"
	"github.com/nastly29/home-organizer/internal/models"
)

const eventColumns = `id, team_id, title, date, time, place, note, created_by, created_at, updated_at`

type EventInput struct {
	Title string
	Date  string
	Time  string
	Place string
	Note  string
}

func (in EventInput) normalize() (EventInput, error) {
	out := EventInput{
		Title: strings.TrimSpace(in.Title),
		Date:  strings.TrimSpace(in.Date),
		Time:  strings.TrimSpace(in.Time),
		Place: strings.TrimSpace(in.Place),
		Note:  strings.TrimSpace(in.Note),
	}
	var err error
	if out.Title, err = validateTitle(out.Title); err != nil {
		return out, err
	}
	if !validDate(out.Date) {
		return out, ErrEventDateRequired
	}
	if out.Time != "" && !validTime(out.Time) {
		return out, ErrTimeInvalid
	}
	return out, nil
}

// EventService manages the team calendar. Any member may change any event.
type EventService struct {
	db *database.DB
}

func NewEventService(db *database.DB) *EventService {
	return &EventService{db: db}
}

func scanEvent(row pgx.Row) (*models.Event, error) {
	var e models.Event
	err := row.Scan(&e.ID, &e.TeamID, &e.Title, &e.Date, &e.Time, &e.Place, &e.Note, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// MonthRange returns the first and last day of a YYYY-MM month.
func MonthRange(month string) (string, string, error) {
	first, err := time.Parse("2006-01", strings.TrimSpace(month))
	if err != nil {
		return "", "", ErrMonthRequired
	}
	last := first.AddDate(0, 1, -1)
	return first.Format(dateLayout), last.Format(dateLayout), nil
}

func (s *EventService) List(ctx context.Context, teamID uuid.UUID, month string) ([]models.Event, error) {
	from, to, err := MonthRange(month)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+eventColumns+` FROM events
		WHERE team_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date, time
	`, teamID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

func (s *EventService) Create(ctx context.Context, teamID uuid.UUID, uid string, in EventInput) (*models.Event, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}

	var event *models.Event
	err = s.db.InTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := requireMemberTx(ctx, tx, teamID, uid); err != nil {
			return err
		}
		e, err := scanEvent(tx.QueryRow(ctx, `
			INSERT INTO events (team_id, title, date, time, place, note, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING `+eventColumns, teamID, in.Title, in.Date, in.Time, in.Place, in.Note, uid))
		if err != nil {
			return fmt.Errorf("failed to create event: %w", err)
		}
		event = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return event, nil
}

// Update replaces an event's fields. Any member may edit.
func (s *EventService) Update(ctx context.Context, teamID, id uuid.UUID, uid string, in EventInput) (*models.Event, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}

	var event *models.Event
	err = s.db.InTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := requireMemberTx(ctx, tx, teamID, uid); err != nil {
			return err
		}
		e, err := scanEvent(tx.QueryRow(ctx, `
			UPDATE events SET title = $3, date = $4, time = $5, place = $6, note = $7, updated_at = NOW()
			WHERE id = $1 AND team_id = $2
			RETURNING `+eventColumns, id, teamID, in.Title, in.Date, in.Time, in.Place, in.Note))
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrEventNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to update event: %w", err)
		}
		event = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventService) Delete(ctx context.Context, teamID, id uuid.UUID, uid string) error {
	return s.db.InTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := requireMemberTx(ctx, tx, teamID, uid); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM events WHERE id = $1 AND team_id = $2`, id, teamID)
		if err != nil {
			return fmt.Errorf("failed to delete event: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrEventNotFound
		}
		return nil
	})
}
