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
	"github.com/bikrans/platform-api/internal/services"
	"github.com/bikrans/platform-api/internal/token"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
	tokens      *token.Service
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, tokens *token.Service) *AuthHandler {
	return &AuthHandler{authService: authService, tokens: tokens}
}

// Register creates a member account and returns the auto-login token.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		Name           string  `json:"name" binding:"required"`
		Email          string  `json:"email"`
		Phone          string  `json:"phone" binding:"required"`
		Password       string  `json:"password" binding:"required"`
		Gender         *string `json:"gender"`
		WhatsappNumber *string `json:"whatsapp_number"`
		ProjectCode    string  `json:"project_code"`
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, projects, err := h.authService.Register(services.RegisterInput{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Password:       req.Password,
		Gender:         req.Gender,
		WhatsappNumber: req.WhatsappNumber,
		ProjectCode:    req.ProjectCode,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	tokenString, err := h.tokens.Generate(user)
	if err != nil {
		logger.Error(c.Request.Context(), "failed to issue token", zap.Error(err))
		apierrors.InternalError(c, "Registration failed")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": tokenString,
		"user":  dto.ToUserDTOWithProjects(*user, projects),
	})
}

// CampaignRegister creates a member from the campaign funnel with a
// generated PIN.
func (h *AuthHandler) CampaignRegister(c *gin.Context) {
	type CampaignRequest struct {
		Name           string  `json:"name" binding:"required"`
		Phone          string  `json:"phone" binding:"required"`
		Age            *int    `json:"age"`
		Gender         *string `json:"gender"`
		WhatsappNumber *string `json:"whatsapp_number"`
	}

	var req CampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.authService.CampaignRegister(services.CampaignRegisterInput{
		Name:           req.Name,
		Phone:          req.Phone,
		Age:            req.Age,
		Gender:         req.Gender,
		WhatsappNumber: req.WhatsappNumber,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	tokenString, err := h.tokens.Generate(result.User)
	if err != nil {
		logger.Error(c.Request.Context(), "failed to issue token", zap.Error(err))
		apierrors.InternalError(c, "Registration failed")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "নিবন্ধন সম্পন্ন হয়েছে",
		"token":   tokenString,
		"user":    dto.ToUserDTOWithProjects(*result.User, result.Projects),
		"pin":     result.PIN,
	})
}

// Login authenticates by email or phone plus password.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	identifier := req.Email
	if identifier == "" {
		identifier = req.Phone
	}

	user, err := h.authService.Login(identifier, req.Password)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	tokenString, err := h.tokens.Generate(user)
	if err != nil {
		logger.Error(c.Request.Context(), "failed to issue token", zap.Error(err))
		apierrors.InternalError(c, "Login failed")
		return
	}

	_, projects, err := h.authService.GetMe(user.ID)
	if err != nil {
		apierrors.InternalError(c, "Login failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": tokenString,
		"user":  dto.ToUserDTOWithProjects(*user, projects),
	})
}

// CheckPhone reports whether a phone number already has an account.
func (h *AuthHandler) CheckPhone(c *gin.Context) {
	type CheckPhoneRequest struct {
		Phone string `json:"phone" binding:"required"`
	}

	var req CheckPhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	exists, err := h.authService.CheckPhone(req.Phone)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"exists": exists})
}

// Logout acknowledges the logout. Tokens are stateless; the client discards
// its copy.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me returns the authenticated user's profile, own login PIN included.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	user, projects, err := h.authService.GetMe(userID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	payload := dto.ToUserDTOWithProjects(*user, projects)
	response := gin.H{
		"id":              payload.ID,
		"name":            payload.Name,
		"email":           payload.Email,
		"phone":           payload.Phone,
		"role":            payload.Role,
		"status":          payload.Status,
		"age":             payload.Age,
		"gender":          payload.Gender,
		"whatsapp_number": payload.WhatsappNumber,
		"created_at":      payload.CreatedAt,
		"projects":        payload.Projects,
	}
	if user.LoginPIN != nil {
		response["login_pin"] = *user.LoginPIN
	}
	c.JSON(http.StatusOK, response)
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.RespondWithError(c, http.StatusUnauthorized,
			apierrors.NewAPIError(apierrors.ErrCodeInvalidCredentials, "Invalid credentials"))
	case errors.Is(err, services.ErrAccountDisabled):
		apierrors.Forbidden(c, "Account is not active")
	case errors.Is(err, services.ErrPhoneTaken):
		apierrors.Conflict(c, "Phone number already registered")
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	case errors.Is(err, services.ErrAuthFieldsRequired),
		errors.Is(err, services.ErrInvalidPhone),
		errors.Is(err, services.ErrNameTooShort),
		errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, err.Error())
	default:
		logger.Error(c.Request.Context(), "auth error", zap.Error(err))
		apierrors.InternalError(c, "")
	}
}
