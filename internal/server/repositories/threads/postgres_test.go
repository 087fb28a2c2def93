package threads

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/studydeck/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

var threadColumns = []string{"id", "name", "creator_id", "created_at"}

const (
	upsertQuery   = `(?s)INSERT\s+INTO\s+message_threads\s*\(name,\s*creator_id\).*ON\s+CONFLICT\s*\(creator_id,\s*name\)\s+DO\s+NOTHING`
	existingQuery = `(?s)FROM\s+message_threads\s+WHERE\s+creator_id\s*=\s*\$1\s+AND\s+name\s*=\s*\$2`
)

func TestUpsert_Creates(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(upsertQuery).
		WithArgs("Teaching Session - Cells", "u-1").
		WillReturnRows(sqlmock.NewRows(threadColumns).AddRow(int64(7), "Teaching Session - Cells", "u-1", time.Now()))

	got, created, err := repo.Upsert(context.Background(), "u-1", "Teaching Session - Cells")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(7), got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsert_ReturnsExisting(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(upsertQuery).
		WithArgs("Deck Editor - Cells", "u-1").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(existingQuery).
		WithArgs("u-1", "Deck Editor - Cells").
		WillReturnRows(sqlmock.NewRows(threadColumns).AddRow(int64(3), "Deck Editor - Cells", "u-1", time.Now()))

	got, created, err := repo.Upsert(context.Background(), "u-1", "Deck Editor - Cells")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, int64(3), got.ID)
}

func TestUpsert_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(upsertQuery).WillReturnError(errors.New("db down"))

	_, _, err := repo.Upsert(context.Background(), "u-1", "x")
	assert.ErrorContains(t, err, "db error: db down")
}

func TestGet_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`FROM\s+message_threads\s+WHERE\s+id\s*=\s*\$1\s+AND\s+creator_id\s*=\s*\$2`).
		WithArgs(int64(3), "u-2").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), 3, "u-2")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestListByCreator(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	rows := sqlmock.NewRows(threadColumns).
		AddRow(int64(1), "a", "u-1", time.Now()).
		AddRow(int64(2), "b", "u-1", time.Now())
	mock.ExpectQuery(`(?s)WHERE\s+creator_id\s*=\s*\$1\s+ORDER\s+BY\s+id`).WithArgs("u-1").WillReturnRows(rows)

	got, err := repo.ListByCreator(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[1].Name)
}

func TestDelete(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	q := `DELETE\s+FROM\s+message_threads`
	mock.ExpectExec(q).WithArgs(int64(1), "u-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs(int64(1), "u-1").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), 1, "u-1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), 1, "u-1"), common.ErrorNotFound)
}
