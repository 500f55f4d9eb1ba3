package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bikrans/platform-api/internal/config"
	"github.com/bikrans/platform-api/internal/constants"
	"github.com/bikrans/platform-api/internal/database"
	"github.com/bikrans/platform-api/internal/logger"
	"github.com/bikrans/platform-api/internal/models"
	"github.com/bikrans/platform-api/internal/repository"
	"github.com/bikrans/platform-api/internal/services"
	"github.com/bikrans/platform-api/internal/upload"
)

type TaskHandlerTestSuite struct {
	suite.Suite
	db          *gorm.DB
	uploadsRoot string
	admin       *TaskAdminHandler
	user        *TaskUserHandler
	router      *gin.Engine
}

func (suite *TaskHandlerTestSuite) SetupTest() {
	logger.Init("test")

	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.TaskAttachment{},
		&models.TaskComment{},
	)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	taskService := services.NewTaskService(repository.NewTaskRepository(suite.db))

	suite.uploadsRoot = suite.T().TempDir()
	saver := upload.NewSaver(suite.uploadsRoot)
	policy := config.UploadPolicy{
		MaxSize:      1 << 20,
		SubDir:       "tasks",
		AllowedTypes: []string{"application/octet-stream", "text/plain"},
	}

	suite.admin = NewTaskAdminHandler(taskService, saver, policy)
	suite.user = NewTaskUserHandler(taskService, saver, policy)

	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
}

func (suite *TaskHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *TaskHandlerTestSuite) createUser(phone string, role models.UserRole) *models.User {
	user := &models.User{
		Name:     "Member " + phone,
		Email:    phone + "@bikrans.local",
		Phone:    phone,
		Password: "hashed",
		Role:     role,
		Status:   models.StatusActive,
	}
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

func (suite *TaskHandlerTestSuite) createTask(title string, assigneeID, creatorID uint64) *models.Task {
	task := &models.Task{
		Title:          title,
		Type:           models.TaskTypeTikTokVideo,
		Status:         models.TaskStatusPending,
		AssignedUserID: assigneeID,
		CreatedBy:      creatorID,
		Priority:       models.PriorityMedium,
	}
	suite.Require().NoError(suite.db.Create(task).Error)
	return task
}

// asIdentity injects the auth context the middleware would have set.
func asIdentity(userID uint64, role models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(constants.ContextKeyUserID, userID)
		c.Set(constants.ContextKeyUserRole, string(role))
		c.Next()
	}
}

func (suite *TaskHandlerTestSuite) request(method, url string, payload interface{}) *httptest.ResponseRecorder {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		suite.Require().NoError(err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, url, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *TaskHandlerTestSuite) TestCreateTask() {
	admin := suite.createUser("01711111111", models.RoleAdmin)
	member := suite.createUser("01722222222", models.RoleUser)

	suite.router.POST("/api/admin/tasks", asIdentity(admin.ID, admin.Role), suite.admin.Create)

	w := suite.request(http.MethodPost, "/api/admin/tasks", map[string]interface{}{
		"title":            "Publish launch video",
		"type":             "tiktok_video",
		"assigned_user_id": member.ID,
		"due_date":         "2026-09-15",
	})

	suite.Equal(http.StatusCreated, w.Code)

	var response struct {
		ID       uint64 `json:"id"`
		Status   string `json:"status"`
		Priority string `json:"priority"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Equal("pending", response.Status)
	suite.Equal("medium", response.Priority)

	var task models.Task
	suite.Require().NoError(suite.db.First(&task, response.ID).Error)
	suite.Require().NotNil(task.DueDate)
	suite.Equal("2026-09-15", task.DueDate.Format("2006-01-02"))
}

func (suite *TaskHandlerTestSuite) TestCreateTask_MissingFields() {
	admin := suite.createUser("01711111111", models.RoleAdmin)

	suite.router.POST("/api/admin/tasks", asIdentity(admin.ID, admin.Role), suite.admin.Create)

	w := suite.request(http.MethodPost, "/api/admin/tasks", map[string]interface{}{
		"type": "tiktok_video",
	})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_InvalidType() {
	admin := suite.createUser("01711111111", models.RoleAdmin)
	member := suite.createUser("01722222222", models.RoleUser)

	suite.router.POST("/api/admin/tasks", asIdentity(admin.ID, admin.Role), suite.admin.Create)

	w := suite.request(http.MethodPost, "/api/admin/tasks", map[string]interface{}{
		"title":            "Bad type",
		"type":             "youtube_short",
		"assigned_user_id": member.ID,
	})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestListTasks_Filtered() {
	admin := suite.createUser("01711111111", models.RoleAdmin)
	member := suite.createUser("01722222222", models.RoleUser)
	other := suite.createUser("01733333333", models.RoleUser)
	suite.createTask("A", member.ID, admin.ID)
	suite.createTask("B", other.ID, admin.ID)

	suite.router.GET("/api/admin/tasks", asIdentity(admin.ID, admin.Role), suite.admin.List)

	w := suite.request(http.MethodGet, "/api/admin/tasks?assigned_user_id="+itoa(member.ID), nil)
	suite.Equal(http.StatusOK, w.Code)

	var response struct {
		Tasks []struct {
			Title string `json:"title"`
		} `json:"tasks"`
		Pagination struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Len(response.Tasks, 1)
	suite.Equal("A", response.Tasks[0].Title)
	suite.Equal(int64(1), response.Pagination.Total)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask() {
	admin := suite.createUser("01711111111", models.RoleAdmin)
	member := suite.createUser("01722222222", models.RoleUser)
	task := suite.createTask("Original", member.ID, admin.ID)

	suite.router.PUT("/api/admin/tasks/:id", asIdentity(admin.ID, admin.Role), suite.admin.Update)

	w := suite.request(http.MethodPut, "/api/admin/tasks/"+itoa(task.ID), map[string]interface{}{
		"title":  "Renamed",
		"status": "completed",
	})
	suite.Equal(http.StatusOK, w.Code)

	var updated models.Task
	suite.Require().NoError(suite.db.First(&updated, task.ID).Error)
	suite.Equal("Renamed", updated.Title)
	suite.Equal(models.TaskStatusCompleted, updated.Status)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_UnknownFieldRejected() {
	admin := suite.createUser("01711111111", models.RoleAdmin)
	member := suite.createUser("01722222222", models.RoleUser)
	task := suite.createTask("Original", member.ID, admin.ID)

	suite.router.PUT("/api/admin/tasks/:id", asIdentity(admin.ID, admin.Role), suite.admin.Update)

	w := suite.request(http.MethodPut, "/api/admin/tasks/"+itoa(task.ID), map[string]interface{}{
		"created_by": 42,
	})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_InvalidStatusSkipped() {
	admin := suite.createUser("01711111111", models.RoleAdmin)
	member := suite.createUser("01722222222", models.RoleUser)
	task := suite.createTask("Original", member.ID, admin.ID)

	suite.router.PUT("/api/admin/tasks/:id", asIdentity(admin.ID, admin.Role), suite.admin.Update)

	w := suite.request(http.MethodPut, "/api/admin/tasks/"+itoa(task.ID), map[string]interface{}{
		"title":  "Renamed",
		"status": "archived",
	})
	suite.Equal(http.StatusOK, w.Code)

	var updated models.Task
	suite.Require().NoError(suite.db.First(&updated, task.ID).Error)
	suite.Equal("Renamed", updated.Title)
	suite.Equal(models.TaskStatusPending, updated.Status)
}

func (suite *TaskHandlerTestSuite) TestDeleteTask() {
	admin := suite.createUser("01711111111", models.RoleAdmin)
	member := suite.createUser("01722222222", models.RoleUser)
	task := suite.createTask("Doomed", member.ID, admin.ID)

	suite.router.DELETE("/api/admin/tasks/:id", asIdentity(admin.ID, admin.Role), suite.admin.Delete)

	w := suite.request(http.MethodDelete, "/api/admin/tasks/"+itoa(task.ID), nil)
	suite.Equal(http.StatusOK, w.Code)

	var count int64
	suite.db.Model(&models.Task{}).Where("id = ?", task.ID).Count(&count)
	suite.Equal(int64(0), count)
}

func (suite *TaskHandlerTestSuite) TestMyTasks_OnlyOwn() {
	admin := suite.createUser("01711111111", models.RoleAdmin)
	member := suite.createUser("01722222222", models.RoleUser)
	other := suite.createUser("01733333333", models.RoleUser)
	suite.createTask("Mine", member.ID, admin.ID)
	suite.createTask("Not mine", other.ID, admin.ID)

	suite.router.GET("/api/tasks/my-tasks", asIdentity(member.ID, member.Role), suite.user.MyTasks)

	w := suite.request(http.MethodGet, "/api/tasks/my-tasks", nil)
	suite.Equal(http.StatusOK, w.Code)

	var response struct {
		Tasks []struct {
			Title string `json:"title"`
		} `json:"tasks"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Len(response.Tasks, 1)
	suite.Equal("Mine", response.Tasks[0].Title)
}

func (suite *TaskHandlerTestSuite) TestGetTask_NotAssignee() {
	admin := suite.createUser("01711111111", models.RoleAdmin)
	member := suite.createUser("01722222222", models.RoleUser)
	other := suite.createUser("01733333333", models.RoleUser)
	task := suite.createTask("Private", member.ID, admin.ID)

	suite.router.GET("/api/tasks/:id", asIdentity(other.ID, other.Role), suite.user.Get)

	w := suite.request(http.MethodGet, "/api/tasks/"+itoa(task.ID), nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestUpdateOwnStatus() {
	admin := suite.createUser("01711111111", models.RoleAdmin)
	member := suite.createUser("01722222222", models.RoleUser)
	task := suite.createTask("Work", member.ID, admin.ID)

	suite.router.PUT("/api/tasks/:id/status", asIdentity(member.ID, member.Role), suite.user.UpdateStatus)

	w := suite.request(http.MethodPut, "/api/tasks/"+itoa(task.ID)+"/status", map[string]string{
		"status": "submitted",
	})
	suite.Equal(http.StatusOK, w.Code)

	var updated models.Task
	suite.Require().NoError(suite.db.First(&updated, task.ID).Error)
	suite.Equal(models.TaskStatusSubmitted, updated.Status)
}

func (suite *TaskHandlerTestSuite) TestUpdateOwnStatus_InvalidStatus() {
	admin := suite.createUser("01711111111", models.RoleAdmin)
	member := suite.createUser("01722222222", models.RoleUser)
	task := suite.createTask("Work", member.ID, admin.ID)

	suite.router.PUT("/api/tasks/:id/status", asIdentity(member.ID, member.Role), suite.user.UpdateStatus)

	w := suite.request(http.MethodPut, "/api/tasks/"+itoa(task.ID)+"/status", map[string]string{
		"status": "archived",
	})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestComments() {
	admin := suite.createUser("01711111111", models.RoleAdmin)
	member := suite.createUser("01722222222", models.RoleUser)
	task := suite.createTask("Work", member.ID, admin.ID)

	suite.router.POST("/api/tasks/:id/comments", asIdentity(member.ID, member.Role), suite.user.AddComment)
	suite.router.GET("/api/admin/tasks/:id/comments", asIdentity(admin.ID, admin.Role), suite.admin.ListComments)

	w := suite.request(http.MethodPost, "/api/tasks/"+itoa(task.ID)+"/comments", map[string]string{
		"message": "Draft uploaded, please review",
	})
	suite.Equal(http.StatusCreated, w.Code)

	w = suite.request(http.MethodGet, "/api/admin/tasks/"+itoa(task.ID)+"/comments", nil)
	suite.Equal(http.StatusOK, w.Code)

	var comments []struct {
		Message string `json:"message"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &comments))
	suite.Require().Len(comments, 1)
	suite.Equal("Draft uploaded, please review", comments[0].Message)
}

func (suite *TaskHandlerTestSuite) TestAttachmentUploadAndOwnership() {
	admin := suite.createUser("01711111111", models.RoleAdmin)
	member := suite.createUser("01722222222", models.RoleUser)
	other := suite.createUser("01733333333", models.RoleUser)
	task := suite.createTask("Work", member.ID, admin.ID)

	suite.router.POST("/api/tasks/:id/attachments", asIdentity(member.ID, member.Role), suite.user.AddAttachment)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "draft.mp4")
	suite.Require().NoError(err)
	_, err = part.Write([]byte("video bytes"))
	suite.Require().NoError(err)
	suite.Require().NoError(mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/tasks/"+itoa(task.ID)+"/attachments", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusCreated, w.Code)

	var response struct {
		ID       uint64 `json:"id"`
		FilePath string `json:"file_path"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Contains(response.FilePath, "/uploads/tasks/")

	onDisk := filepath.Join(suite.uploadsRoot, "tasks")
	entries, err := os.ReadDir(onDisk)
	suite.Require().NoError(err)
	suite.Len(entries, 1)

	// Another member on the same task cannot delete someone else's upload.
	suite.router.DELETE("/api/tasks/:id/attachments/:attachmentId", asIdentity(other.ID, other.Role), suite.user.DeleteAttachment)
	w = suite.request(http.MethodDelete, "/api/tasks/"+itoa(task.ID)+"/attachments/"+itoa(response.ID), nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestUpdateOwnStatus_CompletedBackToPending() {
	admin := suite.createUser("01711111111", models.RoleAdmin)
	member := suite.createUser("01722222222", models.RoleUser)
	task := suite.createTask("Work", member.ID, admin.ID)
	suite.Require().NoError(suite.db.Model(task).Update("status", models.TaskStatusCompleted).Error)

	suite.router.PUT("/api/tasks/:id/status", asIdentity(member.ID, member.Role), suite.user.UpdateStatus)

	// No transition rule: a finished task can be reopened directly.
	w := suite.request(http.MethodPut, "/api/tasks/"+itoa(task.ID)+"/status", map[string]string{
		"status": "pending",
	})
	suite.Equal(http.StatusOK, w.Code)

	var updated models.Task
	suite.Require().NoError(suite.db.First(&updated, task.ID).Error)
	suite.Equal(models.TaskStatusPending, updated.Status)
}

func (suite *TaskHandlerTestSuite) TestAddComment_StoresTrimmed() {
	admin := suite.createUser("01711111111", models.RoleAdmin)
	member := suite.createUser("01722222222", models.RoleUser)
	task := suite.createTask("Work", member.ID, admin.ID)

	suite.router.POST("/api/tasks/:id/comments", asIdentity(member.ID, member.Role), suite.user.AddComment)

	w := suite.request(http.MethodPost, "/api/tasks/"+itoa(task.ID)+"/comments", map[string]string{
		"message": "  hi  ",
	})
	suite.Equal(http.StatusCreated, w.Code)

	var response struct {
		Message string `json:"message"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Equal("hi", response.Message)

	var stored models.TaskComment
	suite.Require().NoError(suite.db.Where("task_id = ?", task.ID).First(&stored).Error)
	suite.Equal("hi", stored.Message)
}

func (suite *TaskHandlerTestSuite) TestDeleteAttachment_AssigneeCannotDeleteAdminsUpload() {
	admin := suite.createUser("01711111111", models.RoleAdmin)
	member := suite.createUser("01722222222", models.RoleUser)
	task := suite.createTask("Work", member.ID, admin.ID)

	att := &models.TaskAttachment{
		TaskID:     task.ID,
		UploadedBy: admin.ID,
		FileName:   "brief.pdf",
		FilePath:   "/uploads/tasks/brief.pdf",
		FileType:   models.FileTypeDocument,
		FileSize:   128,
	}
	suite.Require().NoError(suite.db.Create(att).Error)

	suite.router.DELETE("/api/tasks/:id/attachments/:attachmentId", asIdentity(member.ID, member.Role), suite.user.DeleteAttachment)

	// The assignee is in scope but did not upload this file.
	w := suite.request(http.MethodDelete, "/api/tasks/"+itoa(task.ID)+"/attachments/"+itoa(att.ID), nil)
	suite.Equal(http.StatusNotFound, w.Code)

	var count int64
	suite.db.Model(&models.TaskAttachment{}).Where("id = ?", att.ID).Count(&count)
	suite.Equal(int64(1), count)
}

func (suite *TaskHandlerTestSuite) TestGetTask_CommentsAndAttachmentsOldestFirst() {
	admin := suite.createUser("01711111111", models.RoleAdmin)
	member := suite.createUser("01722222222", models.RoleUser)
	task := suite.createTask("Work", member.ID, admin.ID)

	earlier := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	later := earlier.Add(time.Hour)

	// Inserted newest first so the read order cannot come from insert order.
	suite.Require().NoError(suite.db.Create(&models.TaskComment{
		TaskID: task.ID, UserID: member.ID, Message: "second", CreatedAt: later,
	}).Error)
	suite.Require().NoError(suite.db.Create(&models.TaskComment{
		TaskID: task.ID, UserID: admin.ID, Message: "first", CreatedAt: earlier,
	}).Error)
	suite.Require().NoError(suite.db.Create(&models.TaskAttachment{
		TaskID: task.ID, UploadedBy: member.ID, FileName: "v2.mp4",
		FilePath: "/uploads/tasks/v2.mp4", FileType: models.FileTypeVideo, CreatedAt: later,
	}).Error)
	suite.Require().NoError(suite.db.Create(&models.TaskAttachment{
		TaskID: task.ID, UploadedBy: member.ID, FileName: "v1.mp4",
		FilePath: "/uploads/tasks/v1.mp4", FileType: models.FileTypeVideo, CreatedAt: earlier,
	}).Error)

	suite.router.GET("/api/admin/tasks/:id", asIdentity(admin.ID, admin.Role), suite.admin.Get)

	w := suite.request(http.MethodGet, "/api/admin/tasks/"+itoa(task.ID), nil)
	suite.Equal(http.StatusOK, w.Code)

	var response struct {
		Comments []struct {
			Message string `json:"message"`
		} `json:"comments"`
		Attachments []struct {
			FileName string `json:"file_name"`
		} `json:"attachments"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Len(response.Comments, 2)
	suite.Equal("first", response.Comments[0].Message)
	suite.Equal("second", response.Comments[1].Message)
	suite.Require().Len(response.Attachments, 2)
	suite.Equal("v1.mp4", response.Attachments[0].FileName)
	suite.Equal("v2.mp4", response.Attachments[1].FileName)
}

func (suite *TaskHandlerTestSuite) TestListTasks_MissingTableHint() {
	admin := suite.createUser("01711111111", models.RoleAdmin)
	suite.Require().NoError(suite.db.Migrator().DropTable(&models.Task{}))

	suite.router.GET("/api/admin/tasks", asIdentity(admin.ID, admin.Role), suite.admin.List)

	w := suite.request(http.MethodGet, "/api/admin/tasks", nil)
	suite.Equal(http.StatusInternalServerError, w.Code)

	var response struct {
		Message string `json:"message"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Contains(response.Message, "Run database migrations")
}

func itoa(id uint64) string {
	return fmt.Sprintf("%d", id)
}

func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
