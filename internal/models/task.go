package models

import "time"

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusSubmitted  TaskStatus = "submitted"
	TaskStatusRevision   TaskStatus = "revision"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

type TaskType string

const (
	TaskTypeTikTokVideo       TaskType = "tiktok_video"
	TaskTypeFacebookModerator TaskType = "facebook_moderator"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

type Task struct {
	ID             uint64       `gorm:"primarykey" json:"id"`
	Title          string       `gorm:"type:varchar(255);not null" json:"title"`
	Description    *string      `gorm:"type:text" json:"description"`
	URL            *string      `gorm:"type:varchar(500)" json:"url"`
	Type           TaskType     `gorm:"type:varchar(30);not null;index" json:"type"`
	Status         TaskStatus   `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	AssignedUserID uint64       `gorm:"not null;index" json:"assigned_user_id"`
	CreatedBy      uint64       `gorm:"not null;index" json:"created_by"`
	DueDate        *time.Time   `json:"due_date"`
	Priority       TaskPriority `gorm:"type:varchar(10);not null;default:'medium'" json:"priority"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`

	// Relations
	AssignedUser User             `gorm:"foreignKey:AssignedUserID" json:"assigned_user,omitempty"`
	Creator      User             `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Attachments  []TaskAttachment `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"attachments,omitempty"`
	Comments     []TaskComment    `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
}

// ValidTaskStatus reports whether status is one of the six task statuses.
// Any of them may be set at any time, there is no adjacency rule.
func ValidTaskStatus(status string) bool {
	switch TaskStatus(status) {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusSubmitted,
		TaskStatusRevision, TaskStatusCompleted, TaskStatusCancelled:
		return true
	}
	return false
}

// ValidTaskType reports whether t is a known task type.
func ValidTaskType(t string) bool {
	switch TaskType(t) {
	case TaskTypeTikTokVideo, TaskTypeFacebookModerator:
		return true
	}
	return false
}

// ValidPriority reports whether p is a known priority.
func ValidPriority(p string) bool {
	switch TaskPriority(p) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}
