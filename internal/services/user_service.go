package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bikrans/platform-api/internal/constants"
	"github.com/bikrans/platform-api/internal/models"
	"github.com/bikrans/platform-api/internal/repository"
	"github.com/bikrans/platform-api/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailOrPhoneTaken  = errors.New("email or phone already exists")
	ErrInvalidRole        = errors.New("invalid role")
	ErrSelfDelete         = errors.New("cannot delete yourself")
	ErrNoUpdatableFields  = errors.New("no valid fields to update")
	ErrInvalidEmail       = errors.New("valid email required")
)

// UserService backs the admin console's user management.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// DashboardStats summarizes the member base for the admin dashboard.
type DashboardStats struct {
	TotalUsers  int64 `json:"totalUsers"`
	ActiveUsers int64 `json:"activeUsers"`
	Admins      int64 `json:"admins"`
	Managers    int64 `json:"managers"`
}

// Dashboard returns headline counts plus the five newest signups.
func (s *UserService) Dashboard() (*DashboardStats, []models.User, error) {
	stats := &DashboardStats{}
	var err error
	if stats.TotalUsers, err = s.userRepo.Count(repository.UserFilter{}); err != nil {
		return nil, nil, fmt.Errorf("failed to count users: %w", err)
	}
	if stats.ActiveUsers, err = s.userRepo.Count(repository.UserFilter{Status: string(models.StatusActive)}); err != nil {
		return nil, nil, fmt.Errorf("failed to count active users: %w", err)
	}
	if stats.Admins, err = s.userRepo.Count(repository.UserFilter{Role: string(models.RoleAdmin)}); err != nil {
		return nil, nil, fmt.Errorf("failed to count admins: %w", err)
	}
	if stats.Managers, err = s.userRepo.Count(repository.UserFilter{Role: string(models.RoleManager)}); err != nil {
		return nil, nil, fmt.Errorf("failed to count managers: %w", err)
	}

	recent, err := s.userRepo.Recent(5)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load recent users: %w", err)
	}
	return stats, recent, nil
}

// ListUsersInput carries the admin list filters.
type ListUsersInput struct {
	Search string
	Role   string
	Status string
	Page   int
	Limit  int
}

// ListUsers returns a filtered, paginated page of users, newest first.
func (s *UserService) ListUsers(input ListUsersInput) ([]models.User, utils.PaginationResponse, error) {
	params := utils.ClampPagination(input.Page, input.Limit)
	filter := repository.UserFilter{
		Search:     input.Search,
		Role:       input.Role,
		Status:     input.Status,
		Pagination: params,
	}
	users, total, err := s.userRepo.List(filter)
	if err != nil {
		return nil, utils.PaginationResponse{}, fmt.Errorf("failed to list users: %w", err)
	}
	return users, utils.NewPaginationResponse(params, total), nil
}

// GetUser returns a single user by id.
func (s *UserService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// GetLoginPIN returns a member's plaintext PIN. This is the only read path
// that exposes it.
func (s *UserService) GetLoginPIN(id uint64) (string, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return "", err
	}
	if user.LoginPIN == nil {
		return "", nil
	}
	return *user.LoginPIN, nil
}

// CreateUserInput carries an admin-created account.
type CreateUserInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Role     string
}

// CreateUser creates an account with an explicit role. The password is also
// stored as the login PIN so support staff can read it back.
func (s *UserService) CreateUser(input CreateUserInput) (*models.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	if len(input.Name) < constants.MinNameLength {
		return nil, ErrNameTooShort
	}
	if !strings.Contains(input.Email, "@") {
		return nil, ErrInvalidEmail
	}
	if !utils.ValidPhone(input.Phone) {
		return nil, ErrInvalidPhone
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	role := models.RoleUser
	if input.Role != "" {
		if !models.ValidRole(input.Role) {
			return nil, ErrInvalidRole
		}
		role = models.UserRole(input.Role)
	}

	exists, err := s.userRepo.EmailOrPhoneExists(input.Email, input.Phone)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return nil, ErrEmailOrPhoneTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	pin := input.Password
	user := &models.User{
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		Password: string(hash),
		LoginPIN: &pin,
		Role:     role,
		Status:   models.StatusActive,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// UpdateUserInput carries the admin partial profile update. Nil means
// "leave unchanged".
type UpdateUserInput struct {
	Name   *string
	Email  *string
	Phone  *string
	Status *string
}

// UpdateUser applies the provided fields. An out-of-range status is skipped;
// a request carrying nothing updatable is rejected.
func (s *UserService) UpdateUser(id uint64, input UpdateUserInput) (*models.User, error) {
	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Email != nil {
		updates["email"] = *input.Email
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if input.Status != nil {
		switch models.UserStatus(*input.Status) {
		case models.StatusActive, models.StatusInactive, models.StatusSuspended:
			updates["status"] = *input.Status
		}
	}
	if len(updates) == 0 {
		return nil, ErrNoUpdatableFields
	}

	if err := s.userRepo.UpdateFields(id, updates); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return s.GetUser(id)
}

// UpdateRole sets a user's role.
func (s *UserService) UpdateRole(id uint64, role string) (*models.User, error) {
	if !models.ValidRole(role) {
		return nil, ErrInvalidRole
	}
	if _, err := s.GetUser(id); err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateFields(id, map[string]interface{}{"role": role}); err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	return s.GetUser(id)
}

// DeleteUser removes an account. An admin cannot delete their own account.
func (s *UserService) DeleteUser(id, actorID uint64) error {
	if id == actorID {
		return ErrSelfDelete
	}
	if _, err := s.GetUser(id); err != nil {
		return err
	}
	if err := s.userRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// Analytics reports the last seven days of signups plus role and status
// distributions.
type Analytics struct {
	UserGrowth []repository.DayCount   `json:"userGrowth"`
	ByRole     []repository.GroupCount `json:"byRole"`
	ByStatus   []repository.GroupCount `json:"byStatus"`
}

// GetAnalytics aggregates signup counts since seven days ago.
func (s *UserService) GetAnalytics() (*Analytics, error) {
	since := time.Now().AddDate(0, 0, -7).Truncate(24 * time.Hour)
	growth, err := s.userRepo.SignupsByDay(since)
	if err != nil {
		return nil, fmt.Errorf("failed to load signup growth: %w", err)
	}
	byRole, err := s.userRepo.CountByColumn("role")
	if err != nil {
		return nil, fmt.Errorf("failed to count by role: %w", err)
	}
	byStatus, err := s.userRepo.CountByColumn("status")
	if err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}
	return &Analytics{UserGrowth: growth, ByRole: byRole, ByStatus: byStatus}, nil
}
