package repository

import (
	"time"

	"github.com/bikrans/platform-api/internal/models"
	"github.com/bikrans/platform-api/internal/utils"
)

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	Type           *models.TaskType
	Status         *models.TaskStatus
	AssignedUserID *uint64
	Pagination     utils.PaginationParams
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// FindAssigned finds a task only when it is assigned to userID
	FindAssigned(id, userID uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination, newest first
	List(filter TaskFilter) ([]models.Task, int64, error)

	Update(task *models.Task) error

	// UpdateFields applies a column map to a task row
	UpdateFields(id uint64, fields map[string]interface{}) error

	// Delete removes a task together with its attachments and comments
	Delete(id uint64) error

	CreateAttachment(att *models.TaskAttachment) error
	FindAttachment(id, taskID uint64) (*models.TaskAttachment, error)
	ListAttachments(taskID uint64) ([]models.TaskAttachment, error)

	// LatestAttachment returns the newest attachment row for a task
	LatestAttachment(taskID uint64) (*models.TaskAttachment, error)

	DeleteAttachment(id uint64) error

	CreateComment(comment *models.TaskComment) error
	ListComments(taskID uint64) ([]models.TaskComment, error)

	// LatestComment returns the newest comment row for a task
	LatestComment(taskID uint64) (*models.TaskComment, error)
}

// UserFilter holds filtering options for listing users. Empty strings mean
// "no filter".
type UserFilter struct {
	Search     string
	Role       string
	Status     string
	Pagination utils.PaginationParams
}

// DayCount is one day of an aggregate time series.
type DayCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// GroupCount is an aggregate bucketed by a column value.
type GroupCount struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(user *models.User) error
	FindByID(id uint64) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	FindByPhone(phone string) (*models.User, error)
	PhoneExists(phone string) (bool, error)
	EmailOrPhoneExists(email, phone string) (bool, error)
	List(filter UserFilter) ([]models.User, int64, error)

	// Count counts users matching the filter (pagination ignored)
	Count(filter UserFilter) (int64, error)

	// Recent returns the n newest users
	Recent(n int) ([]models.User, error)

	// SignupsByDay returns per-day signup counts since the given time
	SignupsByDay(since time.Time) ([]DayCount, error)

	// CountByColumn groups users by a column ("role" or "status")
	CountByColumn(column string) ([]GroupCount, error)

	Update(user *models.User) error
	UpdateFields(id uint64, fields map[string]interface{}) error
	Delete(id uint64) error
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	Create(project *models.Project) error
	FindByID(id uint64) (*models.Project, error)
	FindByCode(code string) (*models.Project, error)
	List() ([]models.Project, error)
	Update(project *models.Project) error
	Delete(id uint64) error

	// AddMember enrolls a user into a project, ignoring duplicates
	AddMember(userID, projectID uint64) error

	// ListByUserID returns the projects a user belongs to
	ListByUserID(userID uint64) ([]models.Project, error)
}
