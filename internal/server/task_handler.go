package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"taskpad/internal/repository"
	"taskpad/internal/service"
)

// TaskHandler handles HTTP requests for tasks.
type TaskHandler struct {
	svc *service.TaskService
	log *logrus.Logger
}

func NewTaskHandler(svc *service.TaskService, log *logrus.Logger) *TaskHandler {
	return &TaskHandler{svc: svc, log: log}
}

// Request bodies use the short flag names (completed, important); stored
// records come back with isCompleted / isImportant.
type createTaskRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=50"`
	Description string `json:"description" binding:"required,min=10,max=200"`
	Date        string `json:"date" binding:"required"`
	Completed   bool   `json:"completed"`
	Important   bool   `json:"important"`
}

type updateTaskRequest struct {
	ID          string `json:"id" binding:"required"`
	Title       string `json:"title" binding:"required,min=1,max=50"`
	Description string `json:"description" binding:"required,min=10,max=200"`
	Date        string `json:"date" binding:"required"`
	Completed   bool   `json:"completed"`
	Important   bool   `json:"important"`
}

type setCompletedRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

// List returns every stored task, newest first.
func (h *TaskHandler) List(c *gin.Context) {
	tasks, err := h.svc.ListTasks(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("failed to list tasks")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list tasks"})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// Get returns a single task by id.
func (h *TaskHandler) Get(c *gin.Context) {
	task, err := h.svc.GetTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		h.log.WithError(err).Error("failed to get task")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get task"})
		return
	}
	c.JSON(http.StatusOK, task)
}

// Create stores a new task owned by the authenticated caller.
func (h *TaskHandler) Create(c *gin.Context) {
	caller, ok := CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.svc.CreateTask(c.Request.Context(), caller, service.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		IsCompleted: req.Completed,
		IsImportant: req.Important,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.WithError(err).Error("failed to create task")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create task"})
		return
	}

	c.JSON(http.StatusCreated, task)
}

// Update replaces all mutable fields of an existing task.
func (h *TaskHandler) Update(c *gin.Context) {
	caller, ok := CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.svc.UpdateTask(c.Request.Context(), caller, req.ID, service.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		IsCompleted: req.Completed,
		IsImportant: req.Important,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		default:
			h.log.WithError(err).Error("failed to update task")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update task"})
		}
		return
	}

	c.JSON(http.StatusOK, task)
}

// SetCompleted flips only the completion flag of a task.
func (h *TaskHandler) SetCompleted(c *gin.Context) {
	if _, ok := CallerID(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req setCompletedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.svc.SetCompleted(c.Request.Context(), c.Param("id"), *req.Completed)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		h.log.WithError(err).Error("failed to set completed flag")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update task"})
		return
	}

	c.JSON(http.StatusOK, task)
}

// Delete removes a task and returns its prior state. A missing id surfaces
// as a generic server error, matching the store's delete contract.
func (h *TaskHandler) Delete(c *gin.Context) {
	if _, ok := CallerID(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	task, err := h.svc.DeleteTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.log.WithError(err).Error("failed to delete task")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete task"})
		return
	}

	c.JSON(http.StatusOK, task)
}
