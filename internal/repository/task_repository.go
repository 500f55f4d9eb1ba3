package repository

import (
	"github.com/bikrans/platform-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// taskPreload registers a preload, keeping attachments and comments in
// creation order so detail views always read oldest first.
func taskPreload(query *gorm.DB, name string) *gorm.DB {
	switch name {
	case "Attachments", "Comments":
		return query.Preload(name, func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		})
	}
	return query.Preload(name)
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = taskPreload(query, p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// FindAssigned finds a task only when it is assigned to userID. A task that
// exists but belongs to someone else behaves exactly like a missing task.
func (r *GormTaskRepository) FindAssigned(id, userID uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = taskPreload(query, p)
	}

	if err := query.Where("tasks.id = ? AND tasks.assigned_user_id = ?", id, userID).
		First(&task).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves tasks with filtering and pagination, newest first
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{})

	if filter.Type != nil {
		query = query.Where("tasks.type = ?", *filter.Type)
	}
	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}
	if filter.AssignedUserID != nil {
		query = query.Where("tasks.assigned_user_id = ?", *filter.AssignedUserID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("tasks.created_at DESC").
		Offset(filter.Pagination.Offset).
		Limit(filter.Pagination.Limit).
		Preload("AssignedUser").
		Preload("Creator").
		Find(&tasks).Error
	if err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// UpdateFields applies a column map to a task row
func (r *GormTaskRepository) UpdateFields(id uint64, fields map[string]interface{}) error {
	return r.db.Model(&models.Task{}).Where("id = ?", id).Updates(fields).Error
}

// Delete removes a task together with its attachments and comments
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskAttachment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskComment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Task{}, id).Error
	})
}

// CreateAttachment creates a new task attachment
func (r *GormTaskRepository) CreateAttachment(att *models.TaskAttachment) error {
	return r.db.Create(att).Error
}

// FindAttachment finds an attachment scoped to its task
func (r *GormTaskRepository) FindAttachment(id, taskID uint64) (*models.TaskAttachment, error) {
	var att models.TaskAttachment
	if err := r.db.Where("id = ? AND task_id = ?", id, taskID).First(&att).Error; err != nil {
		return nil, err
	}
	return &att, nil
}

// ListAttachments returns a task's attachments oldest first
func (r *GormTaskRepository) ListAttachments(taskID uint64) ([]models.TaskAttachment, error) {
	var attachments []models.TaskAttachment
	err := r.db.Where("task_id = ?", taskID).
		Order("created_at ASC").
		Preload("Uploader").
		Find(&attachments).Error
	return attachments, err
}

// LatestAttachment returns the newest attachment row for a task
func (r *GormTaskRepository) LatestAttachment(taskID uint64) (*models.TaskAttachment, error) {
	var att models.TaskAttachment
	err := r.db.Where("task_id = ?", taskID).
		Order("id DESC").
		Preload("Uploader").
		First(&att).Error
	if err != nil {
		return nil, err
	}
	return &att, nil
}

// DeleteAttachment deletes an attachment row
func (r *GormTaskRepository) DeleteAttachment(id uint64) error {
	return r.db.Delete(&models.TaskAttachment{}, id).Error
}

// CreateComment creates a new task comment
func (r *GormTaskRepository) CreateComment(comment *models.TaskComment) error {
	return r.db.Create(comment).Error
}

// ListComments returns a task's comments oldest first
func (r *GormTaskRepository) ListComments(taskID uint64) ([]models.TaskComment, error) {
	var comments []models.TaskComment
	err := r.db.Where("task_id = ?", taskID).
		Order("created_at ASC").
		Preload("User").
		Find(&comments).Error
	return comments, err
}

// LatestComment returns the newest comment row for a task
func (r *GormTaskRepository) LatestComment(taskID uint64) (*models.TaskComment, error) {
	var comment models.TaskComment
	err := r.db.Where("task_id = ?", taskID).
		Order("id DESC").
		Preload("User").
		First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}
