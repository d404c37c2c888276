package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nastly29/home-organizer/internal/database"
	"github.com/nastly29/home-organizer/internal/models"
	"golang.org/x/sync/errgroup"
)

// Window is the civil time frame the dashboard buckets records into.
type Window struct {
	Today      string
	NowTime    string
	WeekStart  string
	WeekEnd    string
	Month      string
	MonthStart string
	MonthEnd   string
}

// ComputeWindow returns today, the Monday-to-Sunday week containing today and
// the calendar month containing today, all in loc.
func ComputeWindow(now time.Time, loc *time.Location) Window {
	local := now.In(loc)
	y, m, d := local.Date()
	offset := (int(local.Weekday()) + 6) % 7
	monday := time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
	sunday := monday.AddDate(0, 0, 6)
	first := time.Date(y, m, 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, -1)

	return Window{
		Today:      local.Format(dateLayout),
		NowTime:    local.Format(timeLayout),
		WeekStart:  monday.Format(dateLayout),
		WeekEnd:    sunday.Format(dateLayout),
		Month:      local.Format("2006-01"),
		MonthStart: first.Format(dateLayout),
		MonthEnd:   last.Format(dateLayout),
	}
}

// IsOverdue classifies an open task by its civil due date and time. Undated
// tasks and tasks due today without a time are never overdue.
func IsOverdue(dueDate, dueTime string, w Window) bool {
	dueDate = strings.TrimSpace(dueDate)
	if dueDate == "" {
		return false
	}
	if dueDate != w.Today {
		return dueDate < w.Today
	}
	dueTime = strings.TrimSpace(dueTime)
	return dueTime != "" && dueTime < w.NowTime
}

type openTask struct {
	DueDate   string
	DueTime   string
	Assignees []string
}

func summarizeTasks(tasks []openTask, uid string, w Window) models.TaskSummary {
	var sum models.TaskSummary
	for _, t := range tasks {
		if strings.TrimSpace(t.DueDate) == "" {
			continue
		}
		if IsOverdue(t.DueDate, t.DueTime, w) {
			sum.OverdueOpen++
			continue
		}
		if t.DueDate >= w.WeekStart && t.DueDate <= w.WeekEnd {
			sum.WeekOpenTotal++
			if slices.Contains(t.Assignees, uid) {
				sum.WeekOpenMine++
			}
		}
	}
	return sum
}

type DashboardService struct {
	db  *database.DB
	loc *time.Location
	now func() time.Time
}

func NewDashboardService(db *database.DB, loc *time.Location) *DashboardService {
	return &DashboardService{db: db, loc: loc, now: time.Now}
}

// Build scans the team's tasks, shopping list, finances and events in
// parallel. The reads are not transactional and may straddle a concurrent
// write.
func (s *DashboardService) Build(ctx context.Context, teamID uuid.UUID, uid string) (*models.Dashboard, error) {
	w := ComputeWindow(s.now(), s.loc)
	dash := &models.Dashboard{
		Now: models.DashboardWindow{
			Today:     w.Today,
			NowTime:   w.NowTime,
			WeekStart: w.WeekStart,
			WeekEnd:   w.WeekEnd,
			Month:     w.Month,
			Timezone:  s.loc.String(),
		},
		Events: models.EventSummary{TodayTitles: []string{}},
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := s.db.Pool.Query(ctx, `
			SELECT due_date, due_time, assignees FROM tasks
			WHERE team_id = $1 AND completed = FALSE
		`, teamID)
		if err != nil {
			return fmt.Errorf("failed to scan tasks: %w", err)
		}
		defer rows.Close()

		var tasks []openTask
		for rows.Next() {
			var t openTask
			if err := rows.Scan(&t.DueDate, &t.DueTime, &t.Assignees); err != nil {
				return err
			}
			tasks = append(tasks, t)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		dash.Tasks = summarizeTasks(tasks, uid, w)
		return nil
	})

	g.Go(func() error {
		err := s.db.Pool.QueryRow(ctx, `
			SELECT COUNT(*) FROM shopping_items WHERE team_id = $1
		`, teamID).Scan(&dash.Shopping.OpenCount)
		if err != nil {
			return fmt.Errorf("failed to count shopping items: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		rows, err := s.db.Pool.Query(ctx, `
			SELECT spender_uid, amount FROM finances
			WHERE team_id = $1 AND spent_date >= $2 AND spent_date <= $3
		`, teamID, w.MonthStart, w.MonthEnd)
		if err != nil {
			return fmt.Errorf("failed to scan finances: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var spender string
			var amount float64
			if err := rows.Scan(&spender, &amount); err != nil {
				return err
			}
			dash.Finances.MonthTotal += amount
			if spender == uid {
				dash.Finances.MonthMine += amount
			}
		}
		return rows.Err()
	})

	g.Go(func() error {
		rows, err := s.db.Pool.Query(ctx, `
			SELECT date, title FROM events
			WHERE team_id = $1 AND date >= $2 AND date <= $3
			ORDER BY date, time
		`, teamID, w.WeekStart, w.WeekEnd)
		if err != nil {
			return fmt.Errorf("failed to scan events: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var date, title string
			if err := rows.Scan(&date, &title); err != nil {
				return err
			}
			dash.Events.WeekCount++
			if date == w.Today && title != "" {
				dash.Events.TodayTitles = append(dash.Events.TodayTitles, title)
			}
		}
		return rows.Err()
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return dash, nil
}
