package blobstore

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

func TestPostgresStoreLoad(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	store := NewPostgresStoreFromDB(db)

	rows := sqlmock.NewRows([]string{"content"}).AddRow([]byte(`{"月":["数学","","",""]}`))
	mock.ExpectQuery("SELECT content FROM documents").
		WithArgs("timetable.json").
		WillReturnRows(rows)

	data, ok, err := store.Load(context.Background(), "timetable.json")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, string(data), "数学")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreLoadAbsent(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	store := NewPostgresStoreFromDB(db)

	mock.ExpectQuery("SELECT content FROM documents").
		WithArgs("homework.json").
		WillReturnRows(sqlmock.NewRows([]string{"content"}))

	data, ok, err := store.Load(context.Background(), "homework.json")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, data)
}

func TestPostgresStoreSaveUpserts(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	store := NewPostgresStoreFromDB(db)

	mock.ExpectExec("INSERT INTO documents").
		WithArgs("subjects.json", []byte(`["数学"]`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Save(context.Background(), "subjects.json", []byte(`["数学"]`))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
