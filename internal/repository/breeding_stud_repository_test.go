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

func newBreedingMock(t *testing.T) (*BreedingStudRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewBreedingStudRepo(db), mock
}

func nstr(s string) sql.NullString { return sql.NullString{String: s, Valid: true} }

func TestBreedingStudCreate(t *testing.T) {
	repo, mock := newBreedingMock(t)
	heat := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)
	d1 := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC)

	b := &model.BreedingStud{
		StudName:     "Rex",
		OwnerName:    nstr("Jamie"),
		FirstDayHeat: sql.NullTime{Time: heat, Valid: true},
		Status:       model.StatusWaiting,
		// A count supplied against a Waiting record must never reach the
		// database.
		PuppyCount: sql.NullInt32{Int32: 4, Valid: true},
		Dates:      []time.Time{d1, d2},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO breeding_studs").
		WithArgs("Rex", "Jamie", nil, nil, nil, heat, "Waiting", nil, nil, nil).
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectExec("INSERT INTO breeding_dates").
		WithArgs(uint64(5), d1, uint64(5), d2).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), b))
	assert.Equal(t, uint64(5), b.ID)
	assert.False(t, b.PuppyCount.Valid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBreedingStudUpdateReplacesDates(t *testing.T) {
	repo, mock := newBreedingMock(t)
	d := time.Date(2024, time.March, 3, 0, 0, 0, 0, time.UTC)

	b := &model.BreedingStud{
		ID:         7,
		StudName:   "Rex",
		Status:     model.StatusDelivered,
		PuppyCount: sql.NullInt32{Int32: 6, Valid: true},
		Dates:      []time.Time{d},
	}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE breeding_studs").
		WithArgs("Rex", nil, nil, nil, nil, nil, "Delivered", int32(6), nil, nil, uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM breeding_dates WHERE stud_id = .").
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT INTO breeding_dates").
		WithArgs(uint64(7), d).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Update(context.Background(), b))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBreedingStudUpdateNotFound(t *testing.T) {
	repo, mock := newBreedingMock(t)

	b := &model.BreedingStud{ID: 99, StudName: "Ghost", Status: model.StatusWaiting}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE breeding_studs").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	assert.ErrorIs(t, repo.Update(context.Background(), b), ErrBreedingStudNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBreedingStudDeleteChildrenFirst(t *testing.T) {
	repo, mock := newBreedingMock(t)

	// sqlmock enforces ordered expectations, so this also proves the date
	// rows go before the parent row.
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM breeding_dates WHERE stud_id = .").
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM breeding_studs WHERE id = .").
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBreedingStudDeleteNotFound(t *testing.T) {
	repo, mock := newBreedingMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM breeding_dates WHERE stud_id = .").
		WithArgs(uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM breeding_studs WHERE id = .").
		WithArgs(uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	assert.ErrorIs(t, repo.Delete(context.Background(), 42), ErrBreedingStudNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBreedingStudGetByID(t *testing.T) {
	repo, mock := newBreedingMock(t)
	now := time.Now().UTC()
	heat := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)
	d1 := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)

	parent := sqlmock.NewRows([]string{
		"id", "stud_name", "owner_name", "owner_contact", "female_dog_color", "female_breed",
		"female_first_day_of_heat", "female_status", "female_puppy_count", "female_dog_image_ref",
		"breeding_image_ref", "created_at", "updated_at",
	}).AddRow(7, "Rex", "Jamie", nil, nil, nil, heat, "Waiting", nil, nil, nil, now, now)
	mock.ExpectQuery("FROM breeding_studs WHERE id = .").
		WithArgs(uint64(7)).
		WillReturnRows(parent)
	mock.ExpectQuery("SELECT breeding_date FROM breeding_dates WHERE stud_id = .").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"breeding_date"}).AddRow(d1))

	got, err := repo.GetByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Rex", got.StudName)
	assert.Equal(t, model.StatusWaiting, got.Status)
	assert.Equal(t, []time.Time{d1}, got.Dates)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBreedingStudCountByStatus(t *testing.T) {
	repo, mock := newBreedingMock(t)

	mock.ExpectQuery("SELECT female_status, COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"female_status", "count"}).
			AddRow("Waiting", 2).
			AddRow("Delivered", 5))

	counts, err := repo.CountByStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, counts[model.StatusWaiting])
	assert.Equal(t, 5, counts[model.StatusDelivered])
	assert.NoError(t, mock.ExpectationsWereMet())
}
