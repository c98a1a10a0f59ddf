package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (UserRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return NewUserRepository(db), mock
}

func TestUsernameExists_LowercasesBeforeComparing(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `users` WHERE LOWER\\(username\\) = \\?").
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	taken, err := repo.UsernameExists("ALICE")
	require.NoError(t, err)
	require.True(t, taken)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByIdentifier_MatchesEmailOrUsername(t *testing.T) {
	repo, mock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"id", "email", "username"}).
		AddRow(1, "alice@example.com", "alice")
	mock.ExpectQuery("SELECT \\* FROM `users` WHERE \\(email = \\? OR LOWER\\(username\\) = \\?\\)").
		WithArgs("alice@example.com", "alice@example.com", 1).
		WillReturnRows(rows)

	user, err := repo.FindByIdentifier("Alice@Example.com")
	require.NoError(t, err)
	require.Equal(t, "alice", user.Username)
	require.NoError(t, mock.ExpectationsWereMet())
}
