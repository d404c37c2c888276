package handlers

import (
	"context"
	"net/http"

	"github.com/m1z23r/drift/pkg/drift"
	"github.com/nastly29/home-organizer/internal/services"
	"github.com/nastly29/home-organizer/internal/sse"
	"github.com/nastly29/home-organizer/pkg/dto"
)

type TaskHandler struct {
	taskService TaskServiceInterface
	guard       GuardInterface
	notifier    Notifier
}

func NewTaskHandler(taskService TaskServiceInterface, guard GuardInterface, notifier Notifier) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		guard:       guard,
		notifier:    notifier,
	}
}

func (h *TaskHandler) List(c *drift.Context) {
	teamID, uid, _, ok := teamMember(c, h.guard)
	if !ok {
		return
	}

	filter, err := services.ParseTaskFilter(c.QueryParam("filter"))
	if err != nil {
		respondError(c, err)
		return
	}

	tasks, err := h.taskService.List(context.Background(), teamID, uid, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(http.StatusOK, dto.TasksResponse{Tasks: tasks})
}

func (h *TaskHandler) Create(c *drift.Context) {
	teamID, uid, _, ok := teamMember(c, h.guard)
	if !ok {
		return
	}

	var req dto.CreateTaskRequest
	if err := c.BindJSON(&req); err != nil {
		badRequest(c, codeInvalidBody)
		return
	}

	task, err := h.taskService.Create(context.Background(), teamID, uid, services.TaskInput{
		Title:     req.Title,
		DueDate:   req.DueDate,
		DueTime:   req.DueTime,
		Assignees: req.Assignees,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.notifier.Publish(teamID, sse.TasksChanged, uid)

	_ = c.JSON(http.StatusCreated, dto.TaskResponse{Task: task})
}

func (h *TaskHandler) Update(c *drift.Context) {
	teamID, uid, _, ok := teamMember(c, h.guard)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "taskId")
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	if err := c.BindJSON(&req); err != nil {
		badRequest(c, codeInvalidBody)
		return
	}

	task, err := h.taskService.Update(context.Background(), teamID, taskID, uid, services.TaskUpdate{
		Title:     req.Title,
		DueDate:   req.DueDate,
		DueTime:   req.DueTime,
		Assignees: req.Assignees,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.notifier.Publish(teamID, sse.TasksChanged, uid)

	_ = c.JSON(http.StatusOK, dto.TaskResponse{Task: task})
}

func (h *TaskHandler) Delete(c *drift.Context) {
	teamID, uid, _, ok := teamMember(c, h.guard)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "taskId")
	if !ok {
		return
	}

	if err := h.taskService.Delete(context.Background(), teamID, taskID, uid); err != nil {
		respondError(c, err)
		return
	}

	h.notifier.Publish(teamID, sse.TasksChanged, uid)

	_ = c.JSON(http.StatusOK, dto.OKResponse{OK: true})
}

func (h *TaskHandler) ToggleComplete(c *drift.Context) {
	teamID, uid, _, ok := teamMember(c, h.guard)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "taskId")
	if !ok {
		return
	}

	task, err := h.taskService.ToggleComplete(context.Background(), teamID, taskID, uid)
	if err != nil {
		respondError(c, err)
		return
	}

	h.notifier.Publish(teamID, sse.TasksChanged, uid)

	_ = c.JSON(http.StatusOK, dto.TaskResponse{Task: task})
}
