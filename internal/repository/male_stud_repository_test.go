package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kennelworks/studbook-server/internal/model"
)

func newStudMock(t *testing.T) (*MaleStudRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewMaleStudRepo(db), mock
}

func TestMaleStudCreateReturnsTimestamps(t *testing.T) {
	repo, mock := newStudMock(t)
	now := time.Now().UTC()

	mock.ExpectExec("INSERT INTO male_studs").
		WithArgs("Bruno", "Champion line", nil, nil, int32(3), nil, nil).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectQuery("FROM male_studs WHERE id = .").
		WithArgs(uint64(11)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "lineage", "color", "temperament", "age", "location", "image_ref", "created_at", "updated_at",
		}).AddRow(11, "Bruno", "Champion line", nil, nil, 3, nil, nil, now, now))

	s := &model.MaleStud{
		Name:    "Bruno",
		Lineage: sql.NullString{String: "Champion line", Valid: true},
		Age:     sql.NullInt32{Int32: 3, Valid: true},
	}
	require.NoError(t, repo.Create(context.Background(), s))
	assert.Equal(t, uint64(11), s.ID)
	assert.Equal(t, now, s.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMaleStudGetByIDNotFound(t *testing.T) {
	repo, mock := newStudMock(t)

	mock.ExpectQuery("FROM male_studs WHERE id = .").
		WithArgs(uint64(404)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "lineage", "color", "temperament", "age", "location", "image_ref", "created_at", "updated_at",
		}))

	_, err := repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrStudNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMaleStudUpdateNotFound(t *testing.T) {
	repo, mock := newStudMock(t)

	mock.ExpectExec("UPDATE male_studs").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &model.MaleStud{ID: 404, Name: "Ghost"})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMaleStudDelete(t *testing.T) {
	repo, mock := newStudMock(t)

	mock.ExpectExec("DELETE FROM male_studs WHERE id = .").
		WithArgs(uint64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM male_studs WHERE id = .").
		WithArgs(uint64(11)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), 11))
	assert.ErrorIs(t, repo.Delete(context.Background(), 11), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
