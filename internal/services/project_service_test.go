package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bikrans/platform-api/internal/database"
	"github.com/bikrans/platform-api/internal/models"
	"github.com/bikrans/platform-api/internal/repository"
)

func setupProjectService(t *testing.T) (*ProjectService, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Project{}, &models.UserProject{}))

	database.SetDB(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return NewProjectService(repository.NewProjectRepository(db)), db
}

func TestCreateProject(t *testing.T) {
	svc, _ := setupProjectService(t)

	project, err := svc.CreateProject("TIKTOK", "TikTok Creators")
	require.NoError(t, err)
	require.NotZero(t, project.ID)

	_, err = svc.CreateProject("TIKTOK", "Another Name")
	require.ErrorIs(t, err, ErrProjectCodeTaken)

	_, err = svc.CreateProject("", "No Code")
	require.ErrorIs(t, err, ErrProjectFieldsRequired)
}

func TestUpdateProject(t *testing.T) {
	svc, _ := setupProjectService(t)

	project, err := svc.CreateProject("TIKTOK", "TikTok Creators")
	require.NoError(t, err)

	url := "https://youtu.be/abc123"
	updated, err := svc.UpdateProject(project.ID, UpdateProjectInput{
		Name:       "TikTok Creators BD",
		YoutubeURL: &url,
		MCQ1: &models.MCQ{
			Question: "What is the posting schedule?",
			OptionA:  "Daily", OptionB: "Weekly", OptionC: "Monthly", OptionD: "Never",
			Answer: "a",
		},
	})
	require.NoError(t, err)
	require.Equal(t, "TikTok Creators BD", updated.Name)
	require.Equal(t, "TIKTOK", updated.Code, "code never changes")
	require.Len(t, updated.Questions(), 1)
	require.Equal(t, "a", updated.Questions()[0].Answer)
}

func TestUpdateProject_NameRequired(t *testing.T) {
	svc, _ := setupProjectService(t)

	project, err := svc.CreateProject("TIKTOK", "TikTok Creators")
	require.NoError(t, err)

	_, err = svc.UpdateProject(project.ID, UpdateProjectInput{Name: "  "})
	require.ErrorIs(t, err, ErrProjectNameRequired)
}

func TestDeleteProject_RemovesMemberships(t *testing.T) {
	svc, db := setupProjectService(t)

	project, err := svc.CreateProject("TIKTOK", "TikTok Creators")
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.UserProject{UserID: 7, ProjectID: project.ID}).Error)

	require.NoError(t, svc.DeleteProject(project.ID))

	_, err = svc.GetProject(project.ID)
	require.ErrorIs(t, err, ErrProjectNotFound)

	var memberships int64
	db.Model(&models.UserProject{}).Where("project_id = ?", project.ID).Count(&memberships)
	require.Equal(t, int64(0), memberships)
}

func TestGetProjectByCode(t *testing.T) {
	svc, _ := setupProjectService(t)

	_, err := svc.CreateProject("TIKTOK", "TikTok Creators")
	require.NoError(t, err)

	project, err := svc.GetProjectByCode("TIKTOK")
	require.NoError(t, err)
	require.Equal(t, "TikTok Creators", project.Name)

	_, err = svc.GetProjectByCode("NOPE")
	require.ErrorIs(t, err, ErrProjectNotFound)
}
