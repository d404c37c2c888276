package services

import (
	"slices"
	"strings"
	"time"

	"github.com/nastly29/home-organizer/internal/models"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

func validDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

func validTime(s string) bool {
	_, err := time.Parse(timeLayout, s)
	return err == nil && len(s) == len(timeLayout)
}

// DeadlineAt derives the instant a task is due. An empty date means the task
// is undated; an empty time means the end of the day.
func DeadlineAt(dueDate, dueTime string, loc *time.Location) (*time.Time, error) {
	dueDate = strings.TrimSpace(dueDate)
	dueTime = strings.TrimSpace(dueTime)
	if dueDate == "" {
		if dueTime != "" && !validTime(dueTime) {
			return nil, ErrTimeInvalid
		}
		return nil, nil
	}
	if !validDate(dueDate) {
		return nil, ErrDateInvalid
	}

	clock := "23:59:59"
	if dueTime != "" {
		if !validTime(dueTime) {
			return nil, ErrTimeInvalid
		}
		clock = dueTime + ":00"
	}

	t, err := time.ParseInLocation(dateLayout+"T15:04:05", dueDate+"T"+clock, loc)
	if err != nil {
		return nil, ErrDateInvalid
	}
	return &t, nil
}

type TaskFilter string

const (
	FilterAll       TaskFilter = "all"
	FilterMine      TaskFilter = "mine"
	FilterOverdue   TaskFilter = "overdue"
	FilterCompleted TaskFilter = "completed"
)

func ParseTaskFilter(s string) (TaskFilter, error) {
	switch f := TaskFilter(strings.TrimSpace(s)); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterMine, FilterOverdue, FilterCompleted:
		return f, nil
	}
	return "", ErrInvalidFilter
}

func isOverdueAt(t *models.Task, now time.Time) bool {
	return !t.Completed && t.DeadlineAt != nil && t.DeadlineAt.Before(now)
}

// byDeadline puts undated tasks first and orders the rest by ascending
// deadline. Used with a stable sort so undated tasks keep their input order.
func byDeadline(a, b models.Task) int {
	switch {
	case a.DeadlineAt == nil && b.DeadlineAt == nil:
		return 0
	case a.DeadlineAt == nil:
		return -1
	case b.DeadlineAt == nil:
		return 1
	}
	return a.DeadlineAt.Compare(*b.DeadlineAt)
}

func byCompletedDesc(a, b models.Task) int {
	switch {
	case a.CompletedAt == nil && b.CompletedAt == nil:
		return 0
	case a.CompletedAt == nil:
		return 1
	case b.CompletedAt == nil:
		return -1
	}
	return b.CompletedAt.Compare(*a.CompletedAt)
}

// FilterTasks selects and orders tasks for one listing mode. The open modes
// partition tasks: a task with a deadline before now appears under overdue
// and never under all or mine.
func FilterTasks(tasks []models.Task, filter TaskFilter, uid string, now time.Time) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		var keep bool
		switch filter {
		case FilterAll:
			keep = !t.Completed && !isOverdueAt(&t, now)
		case FilterMine:
			keep = !t.Completed && !isOverdueAt(&t, now) && t.IsAssignee(uid)
		case FilterOverdue:
			keep = isOverdueAt(&t, now)
		case FilterCompleted:
			keep = t.Completed
		}
		if keep {
			out = append(out, t)
		}
	}

	if filter == FilterCompleted {
		slices.SortStableFunc(out, byCompletedDesc)
	} else {
		slices.SortStableFunc(out, byDeadline)
	}
	return out
}

// normalizeAssignees trims, drops empties and removes duplicates while
// keeping the first occurrence order.
func normalizeAssignees(in []string) []string {
	out := make([]string, 0, len(in))
	for _, uid := range in {
		uid = strings.TrimSpace(uid)
		if uid == "" || slices.Contains(out, uid) {
			continue
		}
		out = append(out, uid)
	}
	return out
}
