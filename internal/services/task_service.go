package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bikrans/platform-api/internal/models"
	"github.com/bikrans/platform-api/internal/repository"
	"github.com/bikrans/platform-api/internal/utils"
	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrTaskFieldsRequired = errors.New("title, type, and assigned user are required")
	ErrInvalidTaskType    = errors.New("invalid task type")
	ErrInvalidTaskStatus  = errors.New("valid status required")
	ErrUnknownTaskField   = errors.New("unknown task field")
	ErrAttachmentNotFound = errors.New("attachment not found")
	ErrCommentRequired    = errors.New("message is required")
	ErrTasksTableMissing  = errors.New("tasks table not found")
)

// missingTableError reports whether err is the storage error for a table that
// was never migrated (MySQL 1146, sqlite "no such table").
func missingTableError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1146
	}
	return strings.Contains(err.Error(), "no such table")
}

// TaskService mediates every task read and mutation, applying the status rules
// and per-role visibility before anything reaches storage.
type TaskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	Type           string
	Status         string
	AssignedUserID *uint64
	Page           int
	Limit          int
}

// ListTasks returns a page of tasks for the admin view, newest first.
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, utils.PaginationResponse, error) {
	params := utils.ClampPagination(input.Page, input.Limit)

	filter := repository.TaskFilter{Pagination: params}
	if input.Type != "" {
		t := models.TaskType(input.Type)
		filter.Type = &t
	}
	if input.Status != "" {
		st := models.TaskStatus(input.Status)
		filter.Status = &st
	}
	filter.AssignedUserID = input.AssignedUserID

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		if missingTableError(err) {
			return nil, utils.PaginationResponse{}, ErrTasksTableMissing
		}
		return nil, utils.PaginationResponse{}, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, utils.NewPaginationResponse(params, total), nil
}

// ListAssignedTasks returns the assignee-scoped page: only tasks assigned to
// userID are ever visible, whatever the filter says.
func (s *TaskService) ListAssignedTasks(userID uint64, input ListTasksInput) ([]models.Task, utils.PaginationResponse, error) {
	input.AssignedUserID = &userID
	return s.ListTasks(input)
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title          string
	Description    *string
	URL            *string
	Type           string
	AssignedUserID uint64
	CreatedBy      uint64
	DueDate        *time.Time
	Priority       string
}

// CreateTask validates and creates a task, returning it with the assignee loaded.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if input.Title == "" || input.Type == "" || input.AssignedUserID == 0 {
		return nil, ErrTaskFieldsRequired
	}
	if !models.ValidTaskType(input.Type) {
		return nil, ErrInvalidTaskType
	}

	priority := models.PriorityMedium
	if models.ValidPriority(input.Priority) {
		priority = models.TaskPriority(input.Priority)
	}

	task := &models.Task{
		Title:          input.Title,
		Description:    input.Description,
		URL:            trimToNil(input.URL),
		Type:           models.TaskType(input.Type),
		Status:         models.TaskStatusPending,
		AssignedUserID: input.AssignedUserID,
		CreatedBy:      input.CreatedBy,
		DueDate:        input.DueDate,
		Priority:       priority,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	created, err := s.taskRepo.FindByID(task.ID, "AssignedUser")
	if err != nil {
		return nil, fmt.Errorf("failed to reload task: %w", err)
	}
	return created, nil
}

// GetTaskDetail returns any task by id with attachments and comments, oldest
// first. Admin/manager view.
func (s *TaskService) GetTaskDetail(id uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(id,
		"AssignedUser", "Creator",
		"Attachments", "Attachments.Uploader",
		"Comments", "Comments.User",
	)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// GetAssignedTaskDetail returns the same shape as GetTaskDetail but only when
// the task is assigned to userID; anything else is a plain not-found.
func (s *TaskService) GetAssignedTaskDetail(id, userID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindAssigned(id, userID,
		"Creator",
		"Attachments", "Attachments.Uploader",
		"Comments", "Comments.User",
	)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// taskUpdateColumns is the full set of fields an admin update may touch.
var taskUpdateColumns = map[string]struct{}{
	"title":            {},
	"description":      {},
	"url":              {},
	"type":             {},
	"status":           {},
	"assigned_user_id": {},
	"due_date":         {},
	"priority":         {},
}

// UpdateTask applies a partial update for the admin/manager view. Unknown
// fields are rejected; enum fields with out-of-range values are skipped, which
// means a request carrying none of the recognized values simply returns the
// current row.
func (s *TaskService) UpdateTask(id uint64, fields map[string]interface{}) (*models.Task, error) {
	if _, err := s.taskRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	for key := range fields {
		if _, ok := taskUpdateColumns[key]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownTaskField, key)
		}
	}

	updates := map[string]interface{}{}

	if v, ok := fields["title"]; ok {
		if title, ok := v.(string); ok {
			updates["title"] = title
		}
	}
	if v, ok := fields["description"]; ok {
		updates["description"] = stringOrNil(v)
	}
	if v, ok := fields["url"]; ok {
		if url, ok := v.(string); ok && strings.TrimSpace(url) != "" {
			updates["url"] = strings.TrimSpace(url)
		} else {
			updates["url"] = nil
		}
	}
	if v, ok := fields["type"]; ok {
		if t, ok := v.(string); ok && models.ValidTaskType(t) {
			updates["type"] = t
		}
	}
	if v, ok := fields["status"]; ok {
		// Any of the six statuses may be written at any time; there is
		// deliberately no adjacency rule on transitions.
		if st, ok := v.(string); ok && models.ValidTaskStatus(st) {
			updates["status"] = st
		}
	}
	if v, ok := fields["assigned_user_id"]; ok {
		switch id := v.(type) {
		case float64:
			updates["assigned_user_id"] = uint64(id)
		case uint64:
			updates["assigned_user_id"] = id
		}
	}
	if v, ok := fields["due_date"]; ok {
		if v == nil {
			updates["due_date"] = nil
		} else if raw, ok := v.(string); ok {
			if due, err := ParseDueDate(raw); err == nil {
				updates["due_date"] = due
			}
		}
	}
	if v, ok := fields["priority"]; ok {
		if p, ok := v.(string); ok && models.ValidPriority(p) {
			updates["priority"] = p
		}
	}

	if len(updates) > 0 {
		if err := s.taskRepo.UpdateFields(id, updates); err != nil {
			return nil, fmt.Errorf("failed to update task: %w", err)
		}
	}

	task, err := s.taskRepo.FindByID(id, "AssignedUser")
	if err != nil {
		return nil, fmt.Errorf("failed to reload task: %w", err)
	}
	return task, nil
}

// UpdateOwnStatus lets the assignee set the status of their own task. The
// status may be any of the six values; the task must be assigned to userID.
func (s *TaskService) UpdateOwnStatus(id, userID uint64, status string) (*models.Task, error) {
	if !models.ValidTaskStatus(status) {
		return nil, ErrInvalidTaskStatus
	}

	if _, err := s.taskRepo.FindAssigned(id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if err := s.taskRepo.UpdateFields(id, map[string]interface{}{"status": status}); err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}

	task, err := s.taskRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload task: %w", err)
	}
	return task, nil
}

// DeleteTask removes a task and its attachments and comments. Admin only.
func (s *TaskService) DeleteTask(id uint64) error {
	if _, err := s.taskRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if err := s.taskRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// AttachmentInput describes a stored upload about to be recorded.
type AttachmentInput struct {
	FileName string
	FilePath string
	MIMEType string
	Size     int64
}

// AddAttachment records an uploaded file against a task. Admin/manager may
// attach to any task; the assignee only to their own (a foreign task is a
// not-found, not a forbidden).
func (s *TaskService) AddAttachment(taskID, actorID uint64, role models.UserRole, input AttachmentInput) (*models.TaskAttachment, error) {
	if err := s.ensureTaskScope(taskID, actorID, role); err != nil {
		return nil, err
	}

	att := &models.TaskAttachment{
		TaskID:     taskID,
		UploadedBy: actorID,
		FileName:   input.FileName,
		FilePath:   input.FilePath,
		FileType:   models.FileTypeFromMIME(input.MIMEType),
		FileSize:   input.Size,
	}
	if err := s.taskRepo.CreateAttachment(att); err != nil {
		return nil, fmt.Errorf("failed to add attachment: %w", err)
	}

	// Return the newest row for the task rather than re-fetching the parent.
	latest, err := s.taskRepo.LatestAttachment(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload attachment: %w", err)
	}
	return latest, nil
}

// ListAttachments returns a task's attachments for the assignee view.
func (s *TaskService) ListAttachments(taskID, actorID uint64, role models.UserRole) ([]models.TaskAttachment, error) {
	if err := s.ensureTaskScope(taskID, actorID, role); err != nil {
		return nil, err
	}
	attachments, err := s.taskRepo.ListAttachments(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}
	return attachments, nil
}

// DeleteAttachment removes an attachment. Admin/manager may delete any;
// the assignee only one they uploaded themselves on their own task.
func (s *TaskService) DeleteAttachment(taskID, attachmentID, actorID uint64, role models.UserRole) (*models.TaskAttachment, error) {
	if err := s.ensureTaskScope(taskID, actorID, role); err != nil {
		return nil, err
	}

	att, err := s.taskRepo.FindAttachment(attachmentID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttachmentNotFound
		}
		return nil, fmt.Errorf("failed to find attachment: %w", err)
	}

	if !role.IsPrivileged() && att.UploadedBy != actorID {
		return nil, ErrAttachmentNotFound
	}

	if err := s.taskRepo.DeleteAttachment(att.ID); err != nil {
		return nil, fmt.Errorf("failed to delete attachment: %w", err)
	}
	return att, nil
}

// AddComment appends a comment to a task. Comments are append-only.
func (s *TaskService) AddComment(taskID, actorID uint64, role models.UserRole, message string) (*models.TaskComment, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrCommentRequired
	}

	if err := s.ensureTaskScope(taskID, actorID, role); err != nil {
		return nil, err
	}

	comment := &models.TaskComment{
		TaskID:  taskID,
		UserID:  actorID,
		Message: message,
	}
	if err := s.taskRepo.CreateComment(comment); err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	latest, err := s.taskRepo.LatestComment(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload comment: %w", err)
	}
	return latest, nil
}

// ListComments returns a task's comments for the assignee view.
func (s *TaskService) ListComments(taskID, actorID uint64, role models.UserRole) ([]models.TaskComment, error) {
	if err := s.ensureTaskScope(taskID, actorID, role); err != nil {
		return nil, err
	}
	comments, err := s.taskRepo.ListComments(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// ensureTaskScope verifies the actor may touch the task: privileged roles see
// every task, the assignee only their own. Out-of-scope reads as not-found.
func (s *TaskService) ensureTaskScope(taskID, actorID uint64, role models.UserRole) error {
	var err error
	if role.IsPrivileged() {
		_, err = s.taskRepo.FindByID(taskID)
	} else {
		_, err = s.taskRepo.FindAssigned(taskID, actorID)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}
	return nil
}

func trimToNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func stringOrNil(v interface{}) interface{} {
	if s, ok := v.(string); ok {
		return s
	}
	return nil
}

// ParseDueDate accepts RFC3339 or a bare yyyy-mm-dd date.
func ParseDueDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
