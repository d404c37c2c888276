package dto

import "github.com/nastly29/home-organizer/internal/models"

type CreateTaskRequest struct {
	Title     string   `json:"title"`
	DueDate   string   `json:"dueDate"`
	DueTime   string   `json:"dueTime"`
	Assignees []string `json:"assignees"`
}

// UpdateTaskRequest leaves absent fields untouched.
type UpdateTaskRequest struct {
	Title     *string  `json:"title"`
	DueDate   *string  `json:"dueDate"`
	DueTime   *string  `json:"dueTime"`
	Assignees []string `json:"assignees"`
}

type TaskResponse struct {
	Task *models.Task `json:"task"`
}

type TasksResponse struct {
	Tasks []models.Task `json:"tasks"`
}
