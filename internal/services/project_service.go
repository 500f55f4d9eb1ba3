package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bikrans/platform-api/internal/models"
	"github.com/bikrans/platform-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound        = errors.New("project not found")
	ErrProjectCodeTaken       = errors.New("project code already exists")
	ErrProjectFieldsRequired  = errors.New("code and name are required")
	ErrProjectNameRequired    = errors.New("name is required")
)

// ProjectService backs admin project management and the registration flow's
// read-only project directory.
type ProjectService struct {
	projectRepo repository.ProjectRepository
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo repository.ProjectRepository) *ProjectService {
	return &ProjectService{projectRepo: projectRepo}
}

// ListProjects returns all projects, newest first.
func (s *ProjectService) ListProjects() ([]models.Project, error) {
	projects, err := s.projectRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// GetProject returns a project by id.
func (s *ProjectService) GetProject(id uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// GetProjectByCode returns a project by its unique code.
func (s *ProjectService) GetProjectByCode(code string) (*models.Project, error) {
	project, err := s.projectRepo.FindByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// CreateProject creates a project with a unique code.
func (s *ProjectService) CreateProject(code, name string) (*models.Project, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	if code == "" || name == "" {
		return nil, ErrProjectFieldsRequired
	}

	if _, err := s.projectRepo.FindByCode(code); err == nil {
		return nil, ErrProjectCodeTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check project code: %w", err)
	}

	project := &models.Project{Code: code, Name: name}
	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return project, nil
}

// UpdateProjectInput carries the editable project fields. The code itself is
// immutable once created.
type UpdateProjectInput struct {
	Name       string
	YoutubeURL *string
	MCQ1       *models.MCQ
	MCQ2       *models.MCQ
	MCQ3       *models.MCQ
}

// UpdateProject renames a project and replaces its gating video and MCQ set.
func (s *ProjectService) UpdateProject(id uint64, input UpdateProjectInput) (*models.Project, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, ErrProjectNameRequired
	}

	project, err := s.GetProject(id)
	if err != nil {
		return nil, err
	}

	project.Name = input.Name
	project.YoutubeURL = input.YoutubeURL
	if input.MCQ1 != nil {
		project.MCQ1 = *input.MCQ1
	}
	if input.MCQ2 != nil {
		project.MCQ2 = *input.MCQ2
	}
	if input.MCQ3 != nil {
		project.MCQ3 = *input.MCQ3
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return project, nil
}

// DeleteProject removes a project and its memberships.
func (s *ProjectService) DeleteProject(id uint64) error {
	if _, err := s.GetProject(id); err != nil {
		return err
	}
	if err := s.projectRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}
