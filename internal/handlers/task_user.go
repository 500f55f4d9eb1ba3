package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bikrans/platform-api/internal/config"
	"github.com/bikrans/platform-api/internal/dto"
	apierrors "github.com/bikrans/platform-api/internal/errors"
	"github.com/bikrans/platform-api/internal/logger"
	"github.com/bikrans/platform-api/internal/middleware"
	"github.com/bikrans/platform-api/internal/models"
	"github.com/bikrans/platform-api/internal/services"
	"github.com/bikrans/platform-api/internal/upload"
	"github.com/bikrans/platform-api/internal/utils"
)

// TaskUserHandler serves the member's own task area.
type TaskUserHandler struct {
	taskService *services.TaskService
	saver       *upload.Saver
	policy      config.UploadPolicy
}

// NewTaskUserHandler creates a new TaskUserHandler.
func NewTaskUserHandler(taskService *services.TaskService, saver *upload.Saver, policy config.UploadPolicy) *TaskUserHandler {
	return &TaskUserHandler{taskService: taskService, saver: saver, policy: policy}
}

// MyTasks lists the caller's assigned tasks.
func (h *TaskUserHandler) MyTasks(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	params := utils.GetPaginationParams(c)

	tasks, pagination, err := h.taskService.ListAssignedTasks(userID, services.ListTasksInput{
		Type:   c.Query("type"),
		Status: c.Query("status"),
		Page:   params.Page,
		Limit:  params.Limit,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks":      dto.ToTaskDTOs(tasks),
		"pagination": pagination,
	})
}

// Get returns one of the caller's tasks with attachments and comments. A task
// assigned to someone else reads as not found.
func (h *TaskUserHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID, _ := middleware.GetUserID(c)

	task, err := h.taskService.GetAssignedTaskDetail(id, userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateStatus lets the assignee set any of the six statuses on their task.
func (h *TaskUserHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID, _ := middleware.GetUserID(c)

	type StatusRequest struct {
		Status string `json:"status" binding:"required"`
	}
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Valid status required")
		return
	}

	task, err := h.taskService.UpdateOwnStatus(id, userID, req.Status)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// AddAttachment uploads a file against the caller's own task.
func (h *TaskUserHandler) AddAttachment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetUserRole(c)

	attachTaskFile(c, h.taskService, h.saver, h.policy, id, userID, role)
}

// ListAttachments lists the attachments on the caller's own task.
func (h *TaskUserHandler) ListAttachments(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetUserRole(c)

	attachments, err := h.taskService.ListAttachments(id, userID, role)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	out := make([]dto.AttachmentDTO, 0, len(attachments))
	for _, att := range attachments {
		out = append(out, dto.ToAttachmentDTO(att))
	}
	c.JSON(http.StatusOK, out)
}

// DeleteAttachment removes one of the caller's own uploads.
func (h *TaskUserHandler) DeleteAttachment(c *gin.Context) {
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

// AddComment appends a comment to the caller's own task.
func (h *TaskUserHandler) AddComment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetUserRole(c)

	addTaskComment(c, h.taskService, id, userID, role)
}

// ListComments lists the comments on the caller's own task.
func (h *TaskUserHandler) ListComments(c *gin.Context) {
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

// attachTaskFile stores the multipart file and records the attachment. On a
// scope or storage failure the already-written file is removed again.
func attachTaskFile(c *gin.Context, taskService *services.TaskService, saver *upload.Saver, policy config.UploadPolicy, taskID, userID uint64, role models.UserRole) {
	header, err := c.FormFile("file")
	if err != nil {
		apierrors.BadRequest(c, "File is required")
		return
	}

	stored, err := saver.Save(header, policy)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	att, err := taskService.AddAttachment(taskID, userID, role, services.AttachmentInput{
		FileName: stored.FileName,
		FilePath: stored.PublicPath,
		MIMEType: stored.MIMEType,
		Size:     stored.Size,
	})
	if err != nil {
		if rmErr := saver.Remove(stored.PublicPath); rmErr != nil {
			logger.Warn(c.Request.Context(), "failed to remove orphaned upload", zap.Error(rmErr))
		}
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToAttachmentDTO(*att))
}

func addTaskComment(c *gin.Context, taskService *services.TaskService, taskID, userID uint64, role models.UserRole) {
	type CommentRequest struct {
		Message string `json:"message"`
	}
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Message is required")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		apierrors.BadRequest(c, "Message is required")
		return
	}

	comment, err := taskService.AddComment(taskID, userID, role, req.Message)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCommentDTO(*comment))
}
