package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/evergreenmedia/podcast-partner-api/internal/model"
	"github.com/evergreenmedia/podcast-partner-api/internal/utils"
)

func TestCreateUserNormalizesAndHashes(t *testing.T) {
	c, mock := newTestClient(t)
	repo := NewUserRepo(c)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM users WHERE email = ?")).
		WithArgs("amina@example.com").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO users").
		WithArgs(sqlmock.AnyArg(), "Amina", "amina@example.com", sqlmock.AnyArg(), "partner", sqlmock.AnyArg(), nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	u, err := repo.Create(context.Background(), &model.UserInput{
		Name:     "Amina",
		Email:    "  Amina@Example.COM ",
		Password: "s3cret",
		Role:     model.RolePartner,
	}, bcrypt.MinCost)
	require.NoError(t, err)
	assert.Equal(t, "amina@example.com", u.Email)
	assert.NotEmpty(t, u.ID)
	assert.NotEqual(t, "s3cret", u.PasswordHash)
	assert.True(t, utils.VerifyPassword(u.PasswordHash, "s3cret"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	c, mock := newTestClient(t)
	repo := NewUserRepo(c)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM users WHERE email = ?")).
		WithArgs("amina@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("existing-id"))
	mock.ExpectRollback()

	u, err := repo.Create(context.Background(), &model.UserInput{
		Name:     "Amina",
		Email:    "amina@example.com",
		Password: "s3cret",
		Role:     model.RolePartner,
	}, bcrypt.MinCost)
	assert.Nil(t, u)
	assert.ErrorIs(t, err, ErrEmailExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByEmailNotFoundReturnsNilNil(t *testing.T) {
	c, mock := newTestClient(t)
	repo := NewUserRepo(c)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+userSelectColumns+" FROM users WHERE email = ?")).
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	u, err := repo.GetByEmail(context.Background(), "Nobody@Example.com")
	assert.Nil(t, u)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Deleting a user removes their show associations and refresh tokens in the
// same transaction, so no token row survives its owner.
func TestDeleteUserCascadesAssociationsAndTokens(t *testing.T) {
	c, mock := newTestClient(t)
	repo := NewUserRepo(c)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM show_partners WHERE partner_id = ?")).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM refresh_tokens WHERE user_id = ?")).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id = ?")).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Delete(context.Background(), "u1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUserNotFoundRollsBack(t *testing.T) {
	c, mock := newTestClient(t)
	repo := NewUserRepo(c)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM show_partners WHERE partner_id = ?")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM refresh_tokens WHERE user_id = ?")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id = ?")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePasswordNotFound(t *testing.T) {
	c, mock := newTestClient(t)
	repo := NewUserRepo(c)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET password_hash = ? WHERE id = ?")).
		WithArgs(sqlmock.AnyArg(), "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.UpdatePassword(context.Background(), "missing", "newpass", bcrypt.MinCost)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnassociateNotFound(t *testing.T) {
	c, mock := newTestClient(t)
	repo := NewUserRepo(c)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM show_partners WHERE show_id = ? AND partner_id = ?")).
		WithArgs("s1", "p1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Unassociate(context.Background(), "s1", "p1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
