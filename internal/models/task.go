package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

type Task struct {
	ID          uuid.UUID  `json:"id"`
	TeamID      uuid.UUID  `json:"teamId"`
	Title       string     `json:"title"`
	DueDate     string     `json:"dueDate"`
	DueTime     string     `json:"dueTime"`
	DeadlineAt  *time.Time `json:"deadlineAt"`
	Assignees   []string   `json:"assignees"`
	CreatedBy   string     `json:"createdBy"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt"`
	CompletedBy *string    `json:"completedBy"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (t *Task) IsAssignee(uid string) bool {
	return slices.Contains(t.Assignees, uid)
}
