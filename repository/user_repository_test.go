package repository

import (
	"database/sql"
	"go-user-api/model"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

const testUserID = "55a4a506-b6e7-4eb1-b062-47b1f955b1eb"

func newMockRepo(t *testing.T) (*UserRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewUserRepository(db), mock
}

func TestUserRepository_CreateUser(t *testing.T) {
	repo, mock := newMockRepo(t)

	user := &model.User{
		Email:       "a@x.com",
		Password:    "hashed",
		Name:        "A",
		PhoneNumber: "0123456789",
		Address:     "somewhere",
		Role:        &model.Role{ID: 2},
	}

	createdAt := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs(user.Email, user.Password, user.Name, user.PhoneNumber, user.Address, 2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(testUserID, createdAt))

	err := repo.CreateUser(user)
	assert.NoError(t, err)
	assert.Equal(t, testUserID, user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetUserByEmail(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		rows := sqlmock.NewRows([]string{"id", "email", "password", "name", "created_at", "id", "name", "description"}).
			AddRow(testUserID, "a@x.com", "hashed", "A", time.Now(), 2, "Sales", "Sales department access")
		mock.ExpectQuery(regexp.QuoteMeta(`FROM users u JOIN roles r`)).
			WithArgs("a@x.com").
			WillReturnRows(rows)

		user, err := repo.GetUserByEmail("a@x.com")
		assert.NoError(t, err)
		assert.Equal(t, testUserID, user.ID)
		assert.Equal(t, "Sales", user.Role.Name)
	})

	t.Run("not found returns sql.ErrNoRows", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta(`FROM users u JOIN roles r`)).
			WithArgs("nobody@x.com").
			WillReturnError(sql.ErrNoRows)

		user, err := repo.GetUserByEmail("nobody@x.com")
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, user)
	})
}

func TestUserRepository_GetUserByID(t *testing.T) {
	t.Run("null refresh hash scans as empty string", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		rows := sqlmock.NewRows([]string{"id", "email", "name", "phone_number", "address", "current_refresh_token", "created_at"}).
			AddRow(testUserID, "a@x.com", "A", "0123456789", "somewhere", nil, time.Now())
		mock.ExpectQuery(regexp.QuoteMeta(`current_refresh_token`)).
			WithArgs(testUserID).
			WillReturnRows(rows)

		user, err := repo.GetUserByID(testUserID)
		assert.NoError(t, err)
		assert.Empty(t, user.RefreshTokenHash)
	})

	t.Run("stored refresh hash is returned", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		rows := sqlmock.NewRows([]string{"id", "email", "name", "phone_number", "address", "current_refresh_token", "created_at"}).
			AddRow(testUserID, "a@x.com", "A", "0123456789", "somewhere", "digest", time.Now())
		mock.ExpectQuery(regexp.QuoteMeta(`current_refresh_token`)).
			WithArgs(testUserID).
			WillReturnRows(rows)

		user, err := repo.GetUserByID(testUserID)
		assert.NoError(t, err)
		assert.Equal(t, "digest", user.RefreshTokenHash)
	})
}

func TestUserRepository_ListUsers(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := sqlmock.NewRows([]string{"id", "email", "name", "phone_number", "address", "created_at", "id", "name", "description"}).
		AddRow(testUserID, "a@x.com", "A", "0123456789", "somewhere", time.Now(), 2, "Sales", "").
		AddRow("fe7f1e20-a72c-4c0f-b21c-f94ddab30030", "b@x.com", "B", "0123456780", "elsewhere", time.Now(), 1, "Admin", "")
	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY u.created_at LIMIT $1 OFFSET $2`)).
		WithArgs(10, 0).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM users`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	users, total, err := repo.ListUsers(10, 0)
	assert.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, 12, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateRefreshTokenHash(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET current_refresh_token = $1 WHERE id = $2`)).
		WithArgs("digest", testUserID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateRefreshTokenHash(testUserID, "digest")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_DeleteUser(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users WHERE id = $1`)).
		WithArgs(testUserID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.DeleteUser(testUserID)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
