package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"readum/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupResultTestDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestRepo(db *sqlx.DB, ttl time.Duration) *ResultRepository {
	repo := NewResultRepository(db, ttl)
	repo.now = func() time.Time { return fixedNow }
	return repo
}

func TestResultRepository_Put(t *testing.T) {
	db, mock := setupResultTestDB(t)
	defer db.Close()
	repo := newTestRepo(db, time.Hour)

	expires := sql.NullTime{Time: fixedNow.Add(time.Hour), Valid: true}
	mock.ExpectExec(regexp.QuoteMeta("MERGE INTO readum_results")).
		WithArgs("q1", `{"id":"q1"}`, expires, "q1", `{"id":"q1"}`, fixedNow, expires).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Put(context.Background(), "q1", []byte(`{"id":"q1"}`)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepository_Put_NoTTL(t *testing.T) {
	db, mock := setupResultTestDB(t)
	defer db.Close()
	repo := newTestRepo(db, 0)

	mock.ExpectExec(regexp.QuoteMeta("MERGE INTO readum_results")).
		WithArgs("q1", "{}", sql.NullTime{}, "q1", "{}", fixedNow, sql.NullTime{}).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Put(context.Background(), "q1", []byte("{}")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepository_Get(t *testing.T) {
	columns := []string{"id", "payload", "created_at", "expires_at"}
	query := regexp.QuoteMeta("FROM readum_results")

	t.Run("found", func(t *testing.T) {
		db, mock := setupResultTestDB(t)
		defer db.Close()
		mock.ExpectQuery(query).WithArgs("q1").
			WillReturnRows(sqlmock.NewRows(columns).AddRow("q1", `{"id":"q1"}`, fixedNow, fixedNow.Add(time.Minute)))

		blob, err := newTestRepo(db, time.Hour).Get(context.Background(), "q1")
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"q1"}`, string(blob))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("never expires", func(t *testing.T) {
		db, mock := setupResultTestDB(t)
		defer db.Close()
		mock.ExpectQuery(query).WithArgs("q1").
			WillReturnRows(sqlmock.NewRows(columns).AddRow("q1", "{}", fixedNow, nil))

		_, err := newTestRepo(db, 0).Get(context.Background(), "q1")
		assert.NoError(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		db, mock := setupResultTestDB(t)
		defer db.Close()
		mock.ExpectQuery(query).WithArgs("q1").
			WillReturnRows(sqlmock.NewRows(columns).AddRow("q1", "{}", fixedNow.Add(-2*time.Hour), fixedNow.Add(-time.Hour)))

		_, err := newTestRepo(db, time.Hour).Get(context.Background(), "q1")
		assert.ErrorIs(t, err, domain.ErrResultNotFound)
	})

	t.Run("missing", func(t *testing.T) {
		db, mock := setupResultTestDB(t)
		defer db.Close()
		mock.ExpectQuery(query).WithArgs("nope").WillReturnError(sql.ErrNoRows)

		_, err := newTestRepo(db, time.Hour).Get(context.Background(), "nope")
		assert.ErrorIs(t, err, domain.ErrResultNotFound)
	})

	t.Run("driver error", func(t *testing.T) {
		db, mock := setupResultTestDB(t)
		defer db.Close()
		mock.ExpectQuery(query).WithArgs("q1").WillReturnError(errors.New("ORA-12541: no listener"))

		_, err := newTestRepo(db, time.Hour).Get(context.Background(), "q1")
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrResultNotFound)
	})
}

func TestResultRepository_PurgeExpired(t *testing.T) {
	db, mock := setupResultTestDB(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM readum_results")).
		WithArgs(fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := newTestRepo(db, time.Hour).PurgeExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
