package revokedtokens

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	insertQ = `(?s)^\s*INSERT\s+INTO\s+token_blacklist\s*\(jti,\s*expires_at\)\s*VALUES\s*\(\$1,\s*\$2\)\s*ON\s+CONFLICT\s*\(jti\)\s*DO\s+NOTHING\s*$`
	existsQ = `(?s)^\s*SELECT\s+EXISTS\s*\(SELECT\s+1\s+FROM\s+token_blacklist\s+WHERE\s+jti\s*=\s*\$1\)\s*$`
	deleteQ = `(?s)^\s*DELETE\s+FROM\s+token_blacklist\s+WHERE\s+expires_at\s*<\s*\$1\s*$`
)

const jti = "8f14e45f-ceea-4e67-a2a0-6b1d3c0f7a11"

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)
	exp := time.Now().Add(15 * time.Minute)

	mock.ExpectExec(insertQ).WithArgs(jti, exp).WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Create(context.Background(), jti, exp))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_AlreadyRevokedIsNoop(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)
	exp := time.Now().Add(15 * time.Minute)

	mock.ExpectExec(insertQ).WithArgs(jti, exp).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Create(context.Background(), jti, exp))
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)
	exp := time.Now()

	mock.ExpectExec(insertQ).WithArgs(jti, exp).WillReturnError(errors.New("conn reset"))

	err := repo.Create(context.Background(), jti, exp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error: conn reset")
}

func TestExists(t *testing.T) {
	for _, want := range []bool{true, false} {
		repo, mock, _ := newRepoWithMock(t)
		mock.ExpectQuery(existsQ).WithArgs(jti).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(want))

		got, err := repo.Exists(context.Background(), jti)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestExists_DBError(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)
	mock.ExpectQuery(existsQ).WithArgs(jti).WillReturnError(errors.New("timeout"))

	_, err := repo.Exists(context.Background(), jti)
	require.Error(t, err)
}

func TestDeleteExpired(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectExec(deleteQ).WithArgs(now).WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.DeleteExpired(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestDeleteExpired_DBError(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectExec(deleteQ).WithArgs(now).WillReturnError(errors.New("locked"))

	_, err := repo.DeleteExpired(context.Background(), now)
	require.Error(t, err)
}
