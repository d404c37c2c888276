package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/nastly29/home-organizer/internal/database"
	"github.com/nastly29/home-organizer/internal/models"
)

const minTitleLength = 2

const taskColumns = `id, team_id, title, due_date, due_time, deadline_at, assignees, created_by,
	completed, completed_at, completed_by, created_at, updated_at`

type TaskInput struct {
	Title     string
	DueDate   string
	DueTime   string
	Assignees []string
}

// TaskUpdate holds an edit. Nil fields keep their stored value.
type TaskUpdate struct {
	Title     *string
	DueDate   *string
	DueTime   *string
	Assignees []string
}

type TaskService struct {
	db  *database.DB
	loc *time.Location
	now func() time.Time
}

func NewTaskService(db *database.DB, loc *time.Location) *TaskService {
	return &TaskService{db: db, loc: loc, now: time.Now}
}

func scanTask(row pgx.Row) (*models.Task, error) {
	var t models.Task
	err := row.Scan(
		&t.ID, &t.TeamID, &t.Title, &t.DueDate, &t.DueTime, &t.DeadlineAt, &t.Assignees, &t.CreatedBy,
		&t.Completed, &t.CompletedAt, &t.CompletedBy, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if utf8.RuneCountInString(title) < minTitleLength {
		return "", ErrTitleTooShort
	}
	return title, nil
}

// checkAssignees verifies, inside tx, that actingUID and every assignee are
// current members of the team.
func checkAssignees(ctx context.Context, tx pgx.Tx, teamID uuid.UUID, actingUID string, assignees []string) error {
	found, err := memberSet(ctx, tx, teamID, append([]string{actingUID}, assignees...))
	if err != nil {
		return err
	}
	if !found[actingUID] {
		return ErrNotMember
	}
	for _, uid := range assignees {
		if !found[uid] {
			return ErrAssigneeNotMember
		}
	}
	return nil
}

func (s *TaskService) List(ctx context.Context, teamID uuid.UUID, uid string, filter TaskFilter) ([]models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE team_id = $1 AND completed = $2`
	rows, err := s.db.Pool.Query(ctx, query, teamID, filter == FilterCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return FilterTasks(tasks, filter, uid, s.now()), nil
}

func (s *TaskService) Create(ctx context.Context, teamID uuid.UUID, uid string, in TaskInput) (*models.Task, error) {
	title, err := validateTitle(in.Title)
	if err != nil {
		return nil, err
	}
	dueDate := strings.TrimSpace(in.DueDate)
	dueTime := strings.TrimSpace(in.DueTime)
	deadline, err := DeadlineAt(dueDate, dueTime, s.loc)
	if err != nil {
		return nil, err
	}
	assignees := normalizeAssignees(in.Assignees)
	if len(assignees) == 0 {
		return nil, ErrAssigneesRequired
	}

	task := &models.Task{
		TeamID:     teamID,
		Title:      title,
		DueDate:    dueDate,
		DueTime:    dueTime,
		DeadlineAt: deadline,
		Assignees:  assignees,
		CreatedBy:  uid,
	}
	err = s.db.InTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := checkAssignees(ctx, tx, teamID, uid, assignees); err != nil {
			return err
		}
		err := tx.QueryRow(ctx, `
			INSERT INTO tasks (team_id, title, due_date, due_time, deadline_at, assignees, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at, updated_at
		`, teamID, title, dueDate, dueTime, deadline, assignees, uid).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func lockTask(ctx context.Context, tx pgx.Tx, teamID, taskID uuid.UUID) (*models.Task, error) {
	t, err := scanTask(tx.QueryRow(ctx, `
		SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND team_id = $2 FOR UPDATE
	`, taskID, teamID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load task: %w", err)
	}
	return t, nil
}

// Update edits a task. Only the creator may edit. When either the date or the
// time is supplied the deadline is recomputed, taking the other part from the
// stored task.
func (s *TaskService) Update(ctx context.Context, teamID, taskID uuid.UUID, uid string, upd TaskUpdate) (*models.Task, error) {
	var task *models.Task
	err := s.db.InTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		t, err := lockTask(ctx, tx, teamID, taskID)
		if err != nil {
			return err
		}
		if t.CreatedBy != uid {
			return ErrOnlyAuthorCanEdit
		}

		if upd.Title != nil {
			if t.Title, err = validateTitle(*upd.Title); err != nil {
				return err
			}
		}
		if upd.DueDate != nil || upd.DueTime != nil {
			if upd.DueDate != nil {
				t.DueDate = strings.TrimSpace(*upd.DueDate)
			}
			if upd.DueTime != nil {
				t.DueTime = strings.TrimSpace(*upd.DueTime)
			}
			if t.DeadlineAt, err = DeadlineAt(t.DueDate, t.DueTime, s.loc); err != nil {
				return err
			}
		}
		var assignees []string
		if upd.Assignees != nil {
			assignees = normalizeAssignees(upd.Assignees)
			if len(assignees) == 0 {
				return ErrAssigneesRequired
			}
			t.Assignees = assignees
		}
		if err := checkAssignees(ctx, tx, teamID, uid, assignees); err != nil {
			return err
		}

		err = tx.QueryRow(ctx, `
			UPDATE tasks SET title = $3, due_date = $4, due_time = $5, deadline_at = $6, assignees = $7, updated_at = NOW()
			WHERE id = $1 AND team_id = $2
			RETURNING updated_at
		`, taskID, teamID, t.Title, t.DueDate, t.DueTime, t.DeadlineAt, t.Assignees).Scan(&t.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}
		task = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, teamID, taskID uuid.UUID, uid string) error {
	return s.db.InTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := requireMemberTx(ctx, tx, teamID, uid); err != nil {
			return err
		}
		t, err := lockTask(ctx, tx, teamID, taskID)
		if err != nil {
			return err
		}
		if t.CreatedBy != uid {
			return ErrOnlyAuthorCanDelete
		}
		if _, err := tx.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND team_id = $2`, taskID, teamID); err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}
		return nil
	})
}

// ToggleComplete flips the completion state. Only an assignee may toggle.
func (s *TaskService) ToggleComplete(ctx context.Context, teamID, taskID uuid.UUID, uid string) (*models.Task, error) {
	var task *models.Task
	err := s.db.InTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := requireMemberTx(ctx, tx, teamID, uid); err != nil {
			return err
		}
		t, err := lockTask(ctx, tx, teamID, taskID)
		if err != nil {
			return err
		}
		if !t.IsAssignee(uid) {
			return ErrOnlyAssigneeCanToggle
		}

		t.Completed = !t.Completed
		if t.Completed {
			now := s.now()
			by := uid
			t.CompletedAt, t.CompletedBy = &now, &by
		} else {
			t.CompletedAt, t.CompletedBy = nil, nil
		}

		err = tx.QueryRow(ctx, `
			UPDATE tasks SET completed = $3, completed_at = $4, completed_by = $5, updated_at = NOW()
			WHERE id = $1 AND team_id = $2
			RETURNING updated_at
		`, taskID, teamID, t.Completed, t.CompletedAt, t.CompletedBy).Scan(&t.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to toggle task: %w", err)
		}
		task = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}
