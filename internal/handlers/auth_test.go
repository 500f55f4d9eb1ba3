package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bikrans/platform-api/internal/constants"
	"github.com/bikrans/platform-api/internal/database"
	"github.com/bikrans/platform-api/internal/models"
	"github.com/bikrans/platform-api/internal/repository"
	"github.com/bikrans/platform-api/internal/services"
	"github.com/bikrans/platform-api/internal/token"
)

type authTestEnv struct {
	db          *gorm.DB
	handler     *AuthHandler
	authService *services.AuthService
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.UserProject{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	authService := services.NewAuthService(userRepo, projectRepo)
	handler := NewAuthHandler(authService, token.NewService("test-secret"))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	gin.SetMode(gin.TestMode)

	return authTestEnv{
		db:          db,
		handler:     handler,
		authService: authService,
	}
}

func postJSON(t *testing.T, r *gin.Engine, url string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Register(t *testing.T) {
	env := setupAuthTestEnv(t)

	r := gin.New()
	r.POST("/api/auth/register", env.handler.Register)

	w := postJSON(t, r, "/api/auth/register", map[string]string{
		"name":     "Rahim Uddin",
		"phone":    "01712345678",
		"password": "secret123",
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var response struct {
		Token string `json:"token"`
		User  struct {
			Email string `json:"email"`
			Phone string `json:"phone"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotEmpty(t, response.Token)
	require.Equal(t, "01712345678", response.User.Phone)
	require.Equal(t, "01712345678@bikrans.local", response.User.Email)
	require.Equal(t, "user", response.User.Role)
}

func TestAuthHandler_Register_DuplicatePhone(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, _, err := env.authService.Register(services.RegisterInput{
		Name:     "First",
		Phone:    "01712345678",
		Password: "secret123",
	})
	require.NoError(t, err)

	r := gin.New()
	r.POST("/api/auth/register", env.handler.Register)

	w := postJSON(t, r, "/api/auth/register", map[string]string{
		"name":     "Second",
		"phone":    "01712345678",
		"password": "othersecret",
	})

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandler_Register_InvalidPhone(t *testing.T) {
	env := setupAuthTestEnv(t)

	r := gin.New()
	r.POST("/api/auth/register", env.handler.Register)

	w := postJSON(t, r, "/api/auth/register", map[string]string{
		"name":     "Rahim Uddin",
		"phone":    "12345",
		"password": "secret123",
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Register_ProjectEnrollment(t *testing.T) {
	env := setupAuthTestEnv(t)

	require.NoError(t, env.db.Create(&models.Project{Code: "TIKTOK", Name: "TikTok Creators"}).Error)

	r := gin.New()
	r.POST("/api/auth/register", env.handler.Register)

	w := postJSON(t, r, "/api/auth/register", map[string]string{
		"name":         "Rahim Uddin",
		"phone":        "01712345678",
		"password":     "secret123",
		"project_code": "TIKTOK",
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var response struct {
		User struct {
			Projects []struct {
				Code string `json:"code"`
			} `json:"projects"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.User.Projects, 1)
	require.Equal(t, "TIKTOK", response.User.Projects[0].Code)
}

func TestAuthHandler_Register_UnknownProjectCodeIgnored(t *testing.T) {
	env := setupAuthTestEnv(t)

	r := gin.New()
	r.POST("/api/auth/register", env.handler.Register)

	w := postJSON(t, r, "/api/auth/register", map[string]string{
		"name":         "Rahim Uddin",
		"phone":        "01712345678",
		"password":     "secret123",
		"project_code": "NOPE",
	})

	require.Equal(t, http.StatusCreated, w.Code)
}

func TestAuthHandler_CampaignRegister(t *testing.T) {
	env := setupAuthTestEnv(t)

	require.NoError(t, env.db.Create(&models.Project{Code: models.CampaignProjectCode, Name: "Campaign"}).Error)

	r := gin.New()
	r.POST("/api/auth/campaign-register", env.handler.CampaignRegister)

	w := postJSON(t, r, "/api/auth/campaign-register", map[string]interface{}{
		"name":  "Karima Begum",
		"phone": "01812345678",
		"age":   24,
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var response struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
		PIN     string `json:"pin"`
		User    struct {
			Email    string `json:"email"`
			Projects []struct {
				Code string `json:"code"`
			} `json:"projects"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.True(t, response.Success)
	require.NotEmpty(t, response.Token)
	require.Regexp(t, `^\d{6}$`, response.PIN)
	require.Equal(t, "01812345678@bikrans.campaign", response.User.Email)
	require.Len(t, response.User.Projects, 1)
	require.Equal(t, models.CampaignProjectCode, response.User.Projects[0].Code)

	// The generated PIN must work as the login password.
	user, err := env.authService.Login("01812345678", response.PIN)
	require.NoError(t, err)
	require.Equal(t, "Karima Begum", user.Name)
}

func TestAuthHandler_Login_ByPhoneAndEmail(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, _, err := env.authService.Register(services.RegisterInput{
		Name:     "Rahim Uddin",
		Email:    "rahim@example.com",
		Phone:    "01712345678",
		Password: "secret123",
	})
	require.NoError(t, err)

	r := gin.New()
	r.POST("/api/auth/login", env.handler.Login)

	w := postJSON(t, r, "/api/auth/login", map[string]string{
		"phone":    "01712345678",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, r, "/api/auth/login", map[string]string{
		"email":    "rahim@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotEmpty(t, response.Token)
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, _, err := env.authService.Register(services.RegisterInput{
		Name:     "Rahim Uddin",
		Phone:    "01712345678",
		Password: "secret123",
	})
	require.NoError(t, err)

	r := gin.New()
	r.POST("/api/auth/login", env.handler.Login)

	w := postJSON(t, r, "/api/auth/login", map[string]string{
		"phone":    "01712345678",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Login_DisabledAccount(t *testing.T) {
	env := setupAuthTestEnv(t)

	user, _, err := env.authService.Register(services.RegisterInput{
		Name:     "Rahim Uddin",
		Phone:    "01712345678",
		Password: "secret123",
	})
	require.NoError(t, err)

	require.NoError(t, env.db.Model(&models.User{}).
		Where("id = ?", user.ID).
		Update("status", models.StatusSuspended).Error)

	r := gin.New()
	r.POST("/api/auth/login", env.handler.Login)

	w := postJSON(t, r, "/api/auth/login", map[string]string{
		"phone":    "01712345678",
		"password": "secret123",
	})
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthHandler_CheckPhone(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, _, err := env.authService.Register(services.RegisterInput{
		Name:     "Rahim Uddin",
		Phone:    "01712345678",
		Password: "secret123",
	})
	require.NoError(t, err)

	r := gin.New()
	r.POST("/api/auth/check-phone", env.handler.CheckPhone)

	w := postJSON(t, r, "/api/auth/check-phone", map[string]string{"phone": "01712345678"})
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Exists bool `json:"exists"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.True(t, response.Exists)

	w = postJSON(t, r, "/api/auth/check-phone", map[string]string{"phone": "01999999999"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.False(t, response.Exists)
}

func TestAuthHandler_Me_IncludesOwnPIN(t *testing.T) {
	env := setupAuthTestEnv(t)

	user, _, err := env.authService.Register(services.RegisterInput{
		Name:     "Rahim Uddin",
		Phone:    "01712345678",
		Password: "secret123",
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	c.Set(constants.ContextKeyUserID, user.ID)

	env.handler.Me(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "01712345678", response["phone"])
	require.Equal(t, "secret123", response["login_pin"])
}
