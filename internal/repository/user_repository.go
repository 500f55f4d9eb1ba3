package repository

import (
	"fmt"
	"time"

	"github.com/bikrans/platform-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByPhone finds a user by phone number
func (r *GormUserRepository) FindByPhone(phone string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("phone = ?", phone).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// PhoneExists reports whether a user with the phone number exists
func (r *GormUserRepository) PhoneExists(phone string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("phone = ?", phone).Count(&count).Error
	return count > 0, err
}

// EmailOrPhoneExists reports whether either identifier is taken
func (r *GormUserRepository) EmailOrPhoneExists(email, phone string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).
		Where("email = ? OR phone = ?", email, phone).
		Count(&count).Error
	return count > 0, err
}

func (r *GormUserRepository) filtered(filter UserFilter) *gorm.DB {
	query := r.db.Model(&models.User{})
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR email LIKE ? OR phone LIKE ?", like, like, like)
	}
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	return query
}

// List retrieves users with filtering and pagination, newest first
func (r *GormUserRepository) List(filter UserFilter) ([]models.User, int64, error) {
	var users []models.User

	query := r.filtered(filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC").
		Offset(filter.Pagination.Offset).
		Limit(filter.Pagination.Limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// Count counts users matching the filter
func (r *GormUserRepository) Count(filter UserFilter) (int64, error) {
	var count int64
	err := r.filtered(filter).Count(&count).Error
	return count, err
}

// Recent returns the n newest users
func (r *GormUserRepository) Recent(n int) ([]models.User, error) {
	var users []models.User
	err := r.db.Order("created_at DESC").Limit(n).Find(&users).Error
	return users, err
}

// SignupsByDay returns per-day signup counts since the given time
func (r *GormUserRepository) SignupsByDay(since time.Time) ([]DayCount, error) {
	var points []DayCount
	err := r.db.Model(&models.User{}).
		Select("DATE(created_at) AS date, COUNT(*) AS count").
		Where("created_at >= ?", since).
		Group("DATE(created_at)").
		Order("date").
		Scan(&points).Error
	return points, err
}

// CountByColumn groups users by a column ("role" or "status")
func (r *GormUserRepository) CountByColumn(column string) ([]GroupCount, error) {
	if column != "role" && column != "status" {
		return nil, fmt.Errorf("unsupported group column: %s", column)
	}
	var counts []GroupCount
	err := r.db.Model(&models.User{}).
		Select(column + " AS `key`, COUNT(*) AS count").
		Group(column).
		Scan(&counts).Error
	return counts, err
}

// Update updates a user
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// UpdateFields applies a column map to a user row
func (r *GormUserRepository) UpdateFields(id uint64, fields map[string]interface{}) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Updates(fields).Error
}

// Delete removes a user and their project memberships
func (r *GormUserRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.UserProject{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, id).Error
	})
}
