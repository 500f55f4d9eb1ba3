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

func setupUserService(t *testing.T) (*UserService, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.UserProject{}))

	database.SetDB(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return NewUserService(repository.NewUserRepository(db)), db
}

func seedUser(t *testing.T, db *gorm.DB, phone string, role models.UserRole, status models.UserStatus) *models.User {
	t.Helper()
	user := &models.User{
		Name:     "Member " + phone,
		Email:    phone + "@bikrans.local",
		Phone:    phone,
		Password: "hashed",
		Role:     role,
		Status:   status,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestDashboard(t *testing.T) {
	svc, db := setupUserService(t)

	seedUser(t, db, "01711111111", models.RoleAdmin, models.StatusActive)
	seedUser(t, db, "01722222222", models.RoleManager, models.StatusActive)
	seedUser(t, db, "01733333333", models.RoleUser, models.StatusActive)
	seedUser(t, db, "01744444444", models.RoleUser, models.StatusSuspended)

	stats, recent, err := svc.Dashboard()
	require.NoError(t, err)
	require.Equal(t, int64(4), stats.TotalUsers)
	require.Equal(t, int64(3), stats.ActiveUsers)
	require.Equal(t, int64(1), stats.Admins)
	require.Equal(t, int64(1), stats.Managers)
	require.Len(t, recent, 4)
}

func TestListUsers_SearchAndRole(t *testing.T) {
	svc, db := setupUserService(t)

	target := seedUser(t, db, "01711111111", models.RoleUser, models.StatusActive)
	target.Name = "Rahima Khatun"
	require.NoError(t, db.Save(target).Error)
	seedUser(t, db, "01722222222", models.RoleUser, models.StatusActive)
	seedUser(t, db, "01733333333", models.RoleAdmin, models.StatusActive)

	users, pagination, err := svc.ListUsers(ListUsersInput{Search: "Rahima"})
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, "Rahima Khatun", users[0].Name)
	require.Equal(t, int64(1), pagination.Total)

	users, _, err = svc.ListUsers(ListUsersInput{Role: "admin"})
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, models.RoleAdmin, users[0].Role)
}

func TestCreateUser(t *testing.T) {
	svc, _ := setupUserService(t)

	user, err := svc.CreateUser(CreateUserInput{
		Name:     "New Manager",
		Email:    "manager@bikrans.com",
		Phone:    "01712345678",
		Password: "secret123",
		Role:     "manager",
	})
	require.NoError(t, err)
	require.Equal(t, models.RoleManager, user.Role)
	require.NotNil(t, user.LoginPIN)
	require.Equal(t, "secret123", *user.LoginPIN)
	require.NotEqual(t, "secret123", user.Password, "password column holds the bcrypt hash")
}

func TestCreateUser_InvalidRole(t *testing.T) {
	svc, _ := setupUserService(t)

	_, err := svc.CreateUser(CreateUserInput{
		Name:     "Bad Role",
		Email:    "x@bikrans.com",
		Phone:    "01712345678",
		Password: "secret123",
		Role:     "superadmin",
	})
	require.ErrorIs(t, err, ErrInvalidRole)
}

func TestCreateUser_DuplicateEmailOrPhone(t *testing.T) {
	svc, db := setupUserService(t)
	seedUser(t, db, "01712345678", models.RoleUser, models.StatusActive)

	_, err := svc.CreateUser(CreateUserInput{
		Name:     "Dup",
		Email:    "other@bikrans.com",
		Phone:    "01712345678",
		Password: "secret123",
	})
	require.ErrorIs(t, err, ErrEmailOrPhoneTaken)
}

func TestUpdateUser_InvalidStatusSkipped(t *testing.T) {
	svc, db := setupUserService(t)
	user := seedUser(t, db, "01712345678", models.RoleUser, models.StatusActive)

	name := "Renamed"
	badStatus := "banned"
	updated, err := svc.UpdateUser(user.ID, UpdateUserInput{Name: &name, Status: &badStatus})
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Name)
	require.Equal(t, models.StatusActive, updated.Status)
}

func TestUpdateUser_NothingToUpdate(t *testing.T) {
	svc, db := setupUserService(t)
	user := seedUser(t, db, "01712345678", models.RoleUser, models.StatusActive)

	badStatus := "banned"
	_, err := svc.UpdateUser(user.ID, UpdateUserInput{Status: &badStatus})
	require.ErrorIs(t, err, ErrNoUpdatableFields)

	_, err = svc.UpdateUser(user.ID, UpdateUserInput{})
	require.ErrorIs(t, err, ErrNoUpdatableFields)
}

func TestDeleteUser_Self(t *testing.T) {
	svc, db := setupUserService(t)
	admin := seedUser(t, db, "01712345678", models.RoleAdmin, models.StatusActive)

	err := svc.DeleteUser(admin.ID, admin.ID)
	require.ErrorIs(t, err, ErrSelfDelete)
}

func TestDeleteUser(t *testing.T) {
	svc, db := setupUserService(t)
	admin := seedUser(t, db, "01711111111", models.RoleAdmin, models.StatusActive)
	member := seedUser(t, db, "01722222222", models.RoleUser, models.StatusActive)

	require.NoError(t, svc.DeleteUser(member.ID, admin.ID))

	_, err := svc.GetUser(member.ID)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetLoginPIN(t *testing.T) {
	svc, db := setupUserService(t)
	user := seedUser(t, db, "01712345678", models.RoleUser, models.StatusActive)

	pin, err := svc.GetLoginPIN(user.ID)
	require.NoError(t, err)
	require.Empty(t, pin)

	stored := "123456"
	require.NoError(t, db.Model(user).Update("login_pin", &stored).Error)

	pin, err = svc.GetLoginPIN(user.ID)
	require.NoError(t, err)
	require.Equal(t, "123456", pin)
}

func TestGetAnalytics(t *testing.T) {
	svc, db := setupUserService(t)
	seedUser(t, db, "01711111111", models.RoleAdmin, models.StatusActive)
	seedUser(t, db, "01722222222", models.RoleUser, models.StatusActive)
	seedUser(t, db, "01733333333", models.RoleUser, models.StatusSuspended)

	analytics, err := svc.GetAnalytics()
	require.NoError(t, err)
	require.NotEmpty(t, analytics.UserGrowth)
	require.Len(t, analytics.ByRole, 2)
	require.Len(t, analytics.ByStatus, 2)
}
