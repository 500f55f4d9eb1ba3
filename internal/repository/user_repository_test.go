package repository

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return db, mock
}

func TestSignupsByDay(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	since := time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT DATE\\(created_at\\) AS date, COUNT\\(\\*\\) AS count FROM `users` WHERE created_at >= .+ GROUP BY DATE\\(created_at\\) ORDER BY date").
		WithArgs(since).
		WillReturnRows(sqlmock.NewRows([]string{"date", "count"}).
			AddRow("2026-08-25", 3).
			AddRow("2026-08-26", 7))

	points, err := repo.SignupsByDay(since)
	require.NoError(t, err)
	require.Equal(t, []DayCount{
		{Date: "2026-08-25", Count: 3},
		{Date: "2026-08-26", Count: 7},
	}, points)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCountByColumn(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery("SELECT role AS `key`, COUNT\\(\\*\\) AS count FROM `users` GROUP BY `role`").
		WillReturnRows(sqlmock.NewRows([]string{"key", "count"}).
			AddRow("admin", 2).
			AddRow("user", 40))

	counts, err := repo.CountByColumn("role")
	require.NoError(t, err)
	require.Equal(t, []GroupCount{
		{Key: "admin", Count: 2},
		{Key: "user", Count: 40},
	}, counts)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCountByColumn_UnsupportedColumn(t *testing.T) {
	db, _ := newMockDB(t)
	repo := NewUserRepository(db)

	_, err := repo.CountByColumn("password")
	require.Error(t, err)
}

func TestCount_Filtered(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `users` WHERE \\(name LIKE .+ OR email LIKE .+ OR phone LIKE .+\\) AND role = .+").
		WithArgs("%rah%", "%rah%", "%rah%", "user").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := repo.Count(UserFilter{Search: "rah", Role: "user"})
	require.NoError(t, err)
	require.Equal(t, int64(4), count)
	require.NoError(t, mock.ExpectationsWereMet())
}
