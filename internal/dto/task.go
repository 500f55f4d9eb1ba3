package dto

import (
	"time"

	"github.com/bikrans/platform-api/internal/models"
)

// AttachmentDTO represents a task attachment in API responses
type AttachmentDTO struct {
	ID         uint64    `json:"id"`
	TaskID     uint64    `json:"task_id"`
	FileName   string    `json:"file_name"`
	FilePath   string    `json:"file_path"`
	FileType   string    `json:"file_type"`
	FileSize   int64     `json:"file_size"`
	UploadedBy uint64    `json:"uploaded_by"`
	Uploader   *UserRef  `json:"uploader,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// CommentDTO represents a task comment in API responses
type CommentDTO struct {
	ID        uint64    `json:"id"`
	TaskID    uint64    `json:"task_id"`
	UserID    uint64    `json:"user_id"`
	Message   string    `json:"message"`
	User      *UserRef  `json:"user,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID             uint64          `json:"id"`
	Title          string          `json:"title"`
	Description    *string         `json:"description"`
	URL            *string         `json:"url,omitempty"`
	Type           string          `json:"type"`
	Status         string          `json:"status"`
	Priority       string          `json:"priority"`
	AssignedUserID uint64          `json:"assigned_user_id"`
	CreatedBy      uint64          `json:"created_by"`
	DueDate        *time.Time      `json:"due_date"`
	AssignedUser   *UserRef        `json:"assigned_user,omitempty"`
	Creator        *UserRef        `json:"creator,omitempty"`
	Attachments    []AttachmentDTO `json:"attachments,omitempty"`
	Comments       []CommentDTO    `json:"comments,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ToAttachmentDTO converts an attachment model
func ToAttachmentDTO(att models.TaskAttachment) AttachmentDTO {
	d := AttachmentDTO{
		ID:         att.ID,
		TaskID:     att.TaskID,
		FileName:   att.FileName,
		FilePath:   att.FilePath,
		FileType:   string(att.FileType),
		FileSize:   att.FileSize,
		UploadedBy: att.UploadedBy,
		CreatedAt:  att.CreatedAt,
	}
	if att.Uploader.ID != 0 {
		ref := ToUserRef(att.Uploader)
		d.Uploader = &ref
	}
	return d
}

// ToCommentDTO converts a comment model
func ToCommentDTO(comment models.TaskComment) CommentDTO {
	d := CommentDTO{
		ID:        comment.ID,
		TaskID:    comment.TaskID,
		UserID:    comment.UserID,
		Message:   comment.Message,
		CreatedAt: comment.CreatedAt,
	}
	if comment.User.ID != 0 {
		ref := ToUserRef(comment.User)
		d.User = &ref
	}
	return d
}

// ToTaskDTO converts a task model with whatever relations are loaded
func ToTaskDTO(task models.Task) TaskDTO {
	d := TaskDTO{
		ID:             task.ID,
		Title:          task.Title,
		Description:    task.Description,
		URL:            task.URL,
		Type:           string(task.Type),
		Status:         string(task.Status),
		Priority:       string(task.Priority),
		AssignedUserID: task.AssignedUserID,
		CreatedBy:      task.CreatedBy,
		DueDate:        task.DueDate,
		CreatedAt:      task.CreatedAt,
		UpdatedAt:      task.UpdatedAt,
	}
	if task.AssignedUser.ID != 0 {
		ref := ToUserRef(task.AssignedUser)
		d.AssignedUser = &ref
	}
	if task.Creator.ID != 0 {
		ref := ToUserRef(task.Creator)
		d.Creator = &ref
	}
	for _, att := range task.Attachments {
		d.Attachments = append(d.Attachments, ToAttachmentDTO(att))
	}
	for _, comment := range task.Comments {
		d.Comments = append(d.Comments, ToCommentDTO(comment))
	}
	return d
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	out := make([]TaskDTO, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, ToTaskDTO(t))
	}
	return out
}
