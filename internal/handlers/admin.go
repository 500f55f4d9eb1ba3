package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bikrans/platform-api/internal/dto"
	apierrors "github.com/bikrans/platform-api/internal/errors"
	"github.com/bikrans/platform-api/internal/logger"
	"github.com/bikrans/platform-api/internal/middleware"
	"github.com/bikrans/platform-api/internal/models"
	"github.com/bikrans/platform-api/internal/services"
	"github.com/bikrans/platform-api/internal/utils"
)

// AdminHandler serves the admin console: dashboard, user management,
// analytics, and projects.
type AdminHandler struct {
	userService    *services.UserService
	projectService *services.ProjectService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(userService *services.UserService, projectService *services.ProjectService) *AdminHandler {
	return &AdminHandler{userService: userService, projectService: projectService}
}

// Dashboard returns the headline stats and newest signups.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, recent, err := h.userService.Dashboard()
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats":       stats,
		"recentUsers": dto.ToUserDTOs(recent),
	})
}

// ListUsers returns a filtered user page. The login PIN is never part of
// list rows; it has its own endpoint.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	users, pagination, err := h.userService.ListUsers(services.ListUsersInput{
		Search: c.Query("search"),
		Role:   c.Query("role"),
		Status: c.Query("status"),
		Page:   params.Page,
		Limit:  params.Limit,
	})
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":      dto.ToUserDTOs(users),
		"pagination": pagination,
	})
}

// GetUserPIN returns a single member's plaintext login PIN.
func (h *AdminHandler) GetUserPIN(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	pin, err := h.userService.GetLoginPIN(id)
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"login_pin": pin})
}

// CreateUser creates an account with an explicit role.
func (h *AdminHandler) CreateUser(c *gin.Context) {
	type CreateUserRequest struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Phone    string `json:"phone" binding:"required"`
		Password string `json:"password" binding:"required"`
		Role     string `json:"role"`
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.CreateUser(services.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// UpdateUser applies a partial profile update.
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	type UpdateUserRequest struct {
		Name   *string `json:"name"`
		Email  *string `json:"email"`
		Phone  *string `json:"phone"`
		Status *string `json:"status"`
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateUser(id, services.UpdateUserInput{
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Status: req.Status,
	})
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// DeleteUser removes an account. Self-deletion is rejected.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	actorID, _ := middleware.GetUserID(c)

	if err := h.userService.DeleteUser(id, actorID); err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

// UpdateUserRole sets a user's role.
func (h *AdminHandler) UpdateUserRole(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	type RoleRequest struct {
		Role string `json:"role" binding:"required"`
	}
	var req RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid role")
		return
	}

	user, err := h.userService.UpdateRole(id, req.Role)
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// Analytics returns signup growth and distribution aggregates.
func (h *AdminHandler) Analytics(c *gin.Context) {
	analytics, err := h.userService.GetAnalytics()
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, analytics)
}

// ListProjects returns every project with its full MCQ set.
func (h *AdminHandler) ListProjects(c *gin.Context) {
	projects, err := h.projectService.ListProjects()
	if err != nil {
		respondAdminError(c, err)
		return
	}

	out := make([]dto.ProjectDTO, 0, len(projects))
	for _, p := range projects {
		out = append(out, dto.ToProjectDTO(p))
	}
	c.JSON(http.StatusOK, out)
}

// CreateProject creates a project with a unique code.
func (h *AdminHandler) CreateProject(c *gin.Context) {
	type CreateProjectRequest struct {
		Code string `json:"code" binding:"required"`
		Name string `json:"name" binding:"required"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Code and name are required")
		return
	}

	project, err := h.projectService.CreateProject(req.Code, req.Name)
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

// UpdateProject renames a project and replaces its video and MCQ set.
func (h *AdminHandler) UpdateProject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	type UpdateProjectRequest struct {
		Name       string      `json:"name" binding:"required"`
		YoutubeURL *string     `json:"youtube_url"`
		MCQ1       *models.MCQ `json:"mcq1"`
		MCQ2       *models.MCQ `json:"mcq2"`
		MCQ3       *models.MCQ `json:"mcq3"`
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Name is required")
		return
	}

	project, err := h.projectService.UpdateProject(id, services.UpdateProjectInput{
		Name:       req.Name,
		YoutubeURL: req.YoutubeURL,
		MCQ1:       req.MCQ1,
		MCQ2:       req.MCQ2,
		MCQ3:       req.MCQ3,
	})
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// DeleteProject removes a project and its memberships.
func (h *AdminHandler) DeleteProject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.projectService.DeleteProject(id); err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

func respondAdminError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, "Project not found")
	case errors.Is(err, services.ErrEmailOrPhoneTaken):
		apierrors.Conflict(c, "Email or phone already exists")
	case errors.Is(err, services.ErrProjectCodeTaken):
		apierrors.Conflict(c, "Project code already exists")
	case errors.Is(err, services.ErrSelfDelete),
		errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrNoUpdatableFields),
		errors.Is(err, services.ErrInvalidEmail),
		errors.Is(err, services.ErrNameTooShort),
		errors.Is(err, services.ErrInvalidPhone),
		errors.Is(err, services.ErrPasswordTooShort),
		errors.Is(err, services.ErrProjectFieldsRequired),
		errors.Is(err, services.ErrProjectNameRequired):
		apierrors.BadRequest(c, err.Error())
	default:
		logger.Error(c.Request.Context(), "admin error", zap.Error(err))
		apierrors.InternalError(c, "")
	}
}
