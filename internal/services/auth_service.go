package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bikrans/platform-api/internal/constants"
	"github.com/bikrans/platform-api/internal/models"
	"github.com/bikrans/platform-api/internal/repository"
	"github.com/bikrans/platform-api/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPhoneTaken         = errors.New("phone number already registered")
	ErrAuthFieldsRequired = errors.New("name, phone, and password are required")
	ErrInvalidPhone       = errors.New("valid 11-digit Bangladeshi phone required")
	ErrNameTooShort       = errors.New("name must be at least 2 characters")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrAccountDisabled    = errors.New("account is not active")
)

// AuthService handles member registration and login.
type AuthService struct {
	userRepo    repository.UserRepository
	projectRepo repository.ProjectRepository
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, projectRepo repository.ProjectRepository) *AuthService {
	return &AuthService{userRepo: userRepo, projectRepo: projectRepo}
}

// RegisterInput carries a self-service registration.
type RegisterInput struct {
	Name           string
	Email          string
	Phone          string
	Password       string
	Gender         *string
	WhatsappNumber *string
	ProjectCode    string
}

// Register creates a member account. When no email is given one is derived
// from the phone number. The raw password doubles as the login PIN kept for
// support staff. A project code, if given and known, enrolls the new member;
// an unknown code is ignored.
func (s *AuthService) Register(input RegisterInput) (*models.User, []models.Project, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Phone = strings.TrimSpace(input.Phone)

	if input.Name == "" || input.Phone == "" || input.Password == "" {
		return nil, nil, ErrAuthFieldsRequired
	}
	if len(input.Name) < constants.MinNameLength {
		return nil, nil, ErrNameTooShort
	}
	if !utils.ValidPhone(input.Phone) {
		return nil, nil, ErrInvalidPhone
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, nil, ErrPasswordTooShort
	}

	exists, err := s.userRepo.PhoneExists(input.Phone)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check phone: %w", err)
	}
	if exists {
		return nil, nil, ErrPhoneTaken
	}

	email := input.Email
	if email == "" {
		email = input.Phone + "@bikrans.local"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	pin := input.Password
	user := &models.User{
		Name:           input.Name,
		Email:          email,
		Phone:          input.Phone,
		Password:       string(hash),
		LoginPIN:       &pin,
		Role:           models.RoleUser,
		Status:         models.StatusActive,
		Gender:         input.Gender,
		WhatsappNumber: input.WhatsappNumber,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	if input.ProjectCode != "" {
		if project, err := s.projectRepo.FindByCode(input.ProjectCode); err == nil {
			if err := s.projectRepo.AddMember(user.ID, project.ID); err != nil {
				return nil, nil, fmt.Errorf("failed to enroll user: %w", err)
			}
		}
	}

	projects, err := s.projectRepo.ListByUserID(user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load projects: %w", err)
	}
	return user, projects, nil
}

// CampaignRegisterInput carries a campaign funnel signup.
type CampaignRegisterInput struct {
	Name           string
	Phone          string
	Age            *int
	Gender         *string
	WhatsappNumber *string
}

// CampaignRegisterResult is the signup outcome handed back to the funnel.
type CampaignRegisterResult struct {
	User     *models.User
	Projects []models.Project
	PIN      string
}

// CampaignRegister creates a member with a generated 6-digit PIN and enrolls
// them in the campaign project when it exists. The PIN is returned once so
// the funnel can show it to the new member.
func (s *AuthService) CampaignRegister(input CampaignRegisterInput) (*CampaignRegisterResult, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Phone = strings.TrimSpace(input.Phone)

	if input.Name == "" || len(input.Name) < constants.MinNameLength {
		return nil, ErrNameTooShort
	}
	if !utils.ValidPhone(input.Phone) {
		return nil, ErrInvalidPhone
	}
	if input.Age != nil && (*input.Age < 1 || *input.Age > 120) {
		return nil, errors.New("age must be between 1 and 120")
	}

	exists, err := s.userRepo.PhoneExists(input.Phone)
	if err != nil {
		return nil, fmt.Errorf("failed to check phone: %w", err)
	}
	if exists {
		return nil, ErrPhoneTaken
	}

	pin, err := utils.GeneratePIN()
	if err != nil {
		return nil, fmt.Errorf("failed to generate pin: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash pin: %w", err)
	}

	user := &models.User{
		Name:           input.Name,
		Email:          input.Phone + "@bikrans.campaign",
		Phone:          input.Phone,
		Password:       string(hash),
		LoginPIN:       &pin,
		Role:           models.RoleUser,
		Status:         models.StatusActive,
		Age:            input.Age,
		Gender:         input.Gender,
		WhatsappNumber: input.WhatsappNumber,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// Campaign signups join the campaign project when it has been set up.
	if project, err := s.projectRepo.FindByCode(models.CampaignProjectCode); err == nil {
		if err := s.projectRepo.AddMember(user.ID, project.ID); err != nil {
			return nil, fmt.Errorf("failed to enroll user: %w", err)
		}
	}

	projects, err := s.projectRepo.ListByUserID(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}
	return &CampaignRegisterResult{User: user, Projects: projects, PIN: pin}, nil
}

// Login authenticates by email or phone plus password. A wrong identifier and
// a wrong password are indistinguishable to the caller.
func (s *AuthService) Login(identifier, password string) (*models.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	var user *models.User
	var err error
	if strings.Contains(identifier, "@") {
		user, err = s.userRepo.FindByEmail(identifier)
	} else {
		user, err = s.userRepo.FindByPhone(identifier)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if user.Status != models.StatusActive {
		return nil, ErrAccountDisabled
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// CheckPhone reports whether a member account already uses the phone number.
func (s *AuthService) CheckPhone(phone string) (bool, error) {
	phone = strings.TrimSpace(phone)
	if !utils.ValidPhone(phone) {
		return false, ErrInvalidPhone
	}
	exists, err := s.userRepo.PhoneExists(phone)
	if err != nil {
		return false, fmt.Errorf("failed to check phone: %w", err)
	}
	return exists, nil
}

// GetMe returns the authenticated user's profile with project memberships.
func (s *AuthService) GetMe(userID uint64) (*models.User, []models.Project, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, fmt.Errorf("failed to find user: %w", err)
	}
	projects, err := s.projectRepo.ListByUserID(userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load projects: %w", err)
	}
	return user, projects, nil
}
