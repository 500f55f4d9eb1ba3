package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bikrans/platform-api/internal/config"
	"github.com/bikrans/platform-api/internal/dto"
	apierrors "github.com/bikrans/platform-api/internal/errors"
	"github.com/bikrans/platform-api/internal/logger"
	"github.com/bikrans/platform-api/internal/middleware"
	"github.com/bikrans/platform-api/internal/services"
	"github.com/bikrans/platform-api/internal/upload"
	"github.com/bikrans/platform-api/internal/utils"
)

// TaskAdminHandler serves the admin/manager task console.
type TaskAdminHandler struct {
	taskService *services.TaskService
	saver       *upload.Saver
	policy      config.UploadPolicy
}

// NewTaskAdminHandler creates a new TaskAdminHandler.
func NewTaskAdminHandler(taskService *services.TaskService, saver *upload.Saver, policy config.UploadPolicy) *TaskAdminHandler {
	return &TaskAdminHandler{taskService: taskService, saver: saver, policy: policy}
}

// List returns a filtered, paginated task page.
func (h *TaskAdminHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	input := services.ListTasksInput{
		Type:   c.Query("type"),
		Status: c.Query("status"),
		Page:   params.Page,
		Limit:  params.Limit,
	}
	if raw := c.Query("assigned_user_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			input.AssignedUserID = &id
		}
	}

	tasks, pagination, err := h.taskService.ListTasks(input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks":      dto.ToTaskDTOs(tasks),
		"pagination": pagination,
	})
}

// Create creates a task.
func (h *TaskAdminHandler) Create(c *gin.Context) {
	type CreateRequest struct {
		Title          string  `json:"title"`
		Description    *string `json:"description"`
		URL            *string `json:"url"`
		Type           string  `json:"type"`
		AssignedUserID uint64  `json:"assigned_user_id"`
		DueDate        *string `json:"due_date"`
		Priority       string  `json:"priority"`
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	userID, _ := middleware.GetUserID(c)

	input := services.CreateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		URL:            req.URL,
		Type:           req.Type,
		AssignedUserID: req.AssignedUserID,
		CreatedBy:      userID,
		Priority:       req.Priority,
	}
	if req.DueDate != nil && *req.DueDate != "" {
		due, err := services.ParseDueDate(*req.DueDate)
		if err != nil {
			apierrors.BadRequest(c, "Invalid due date")
			return
		}
		input.DueDate = &due
	}

	task, err := h.taskService.CreateTask(input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// Get returns any task with attachments and comments.
func (h *TaskAdminHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.GetTaskDetail(id)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// Update applies a partial update. Unknown fields are rejected.
func (h *TaskAdminHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var fields map[string]json.RawMessage
	if err := c.ShouldBindJSON(&fields); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	decoded := make(map[string]interface{}, len(fields))
	for key, raw := range fields {
		var v interface{}
		if err := json.Unmarshal(raw, &v); err != nil {
			apierrors.BadRequest(c, "Invalid request body")
			return
		}
		decoded[key] = v
	}

	task, err := h.taskService.UpdateTask(id, decoded)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// Delete removes a task together with its attachments and comments.
func (h *TaskAdminHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(id); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

// AddAttachment uploads a file against any task.
func (h *TaskAdminHandler) AddAttachment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetUserRole(c)

	attachTaskFile(c, h.taskService, h.saver, h.policy, id, userID, role)
}

// DeleteAttachment removes any attachment.
func (h *TaskAdminHandler) DeleteAttachment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	attachmentID, ok := parseID(c, "attachmentId")
	if !ok {
		return
	}
	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetUserRole(c)

	att, err := h.taskService.DeleteAttachment(id, attachmentID, userID, role)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	if err := h.saver.Remove(att.FilePath); err != nil {
		logger.Warn(c.Request.Context(), "failed to remove attachment file", zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{"message": "Attachment deleted"})
}

// AddComment appends a comment to any task.
func (h *TaskAdminHandler) AddComment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetUserRole(c)

	addTaskComment(c, h.taskService, id, userID, role)
}

// ListComments returns a task's comments.
func (h *TaskAdminHandler) ListComments(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetUserRole(c)

	comments, err := h.taskService.ListComments(id, userID, role)
	if err != nil {
		respondTaskError(c, err)
		return
	}
	out := make([]dto.CommentDTO, 0, len(comments))
	for _, comment := range comments {
		out = append(out, dto.ToCommentDTO(comment))
	}
	c.JSON(http.StatusOK, out)
}

func parseID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		apierrors.BadRequest(c, "Invalid id")
		return 0, false
	}
	return id, true
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrAttachmentNotFound):
		apierrors.NotFound(c, "Attachment not found")
	case errors.Is(err, services.ErrTasksTableMissing):
		logger.Error(c.Request.Context(), "task error", zap.Error(err))
		apierrors.InternalError(c, "Tasks table not found. Run database migrations.")
	case errors.Is(err, services.ErrTaskFieldsRequired),
		errors.Is(err, services.ErrInvalidTaskType),
		errors.Is(err, services.ErrInvalidTaskStatus),
		errors.Is(err, services.ErrUnknownTaskField),
		errors.Is(err, services.ErrCommentRequired):
		apierrors.BadRequest(c, err.Error())
	default:
		logger.Error(c.Request.Context(), "task error", zap.Error(err))
		apierrors.InternalError(c, "")
	}
}
