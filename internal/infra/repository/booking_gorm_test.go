package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	domain "github.com/alysesue/bookings-api-sub001/internal/domain/booking"
	"github.com/alysesue/bookings-api-sub001/internal/httperr"
	"github.com/alysesue/bookings-api-sub001/internal/models"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func TestUpdateVersionedBumpsVersion(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingGormRepository(db)

	pid := uint(10)
	b := &models.Booking{
		ID:                5,
		ServiceID:         1,
		ServiceProviderID: &pid,
		Status:            "accepted",
		Version:           3,
	}

	mock.ExpectExec(`UPDATE "bookings" SET .+ WHERE id = \$\d+ AND version = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateVersioned(context.Background(), b))
	assert.Equal(t, int64(4), b.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateVersionedZeroRowsIsConcurrentUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingGormRepository(db)

	b := &models.Booking{ID: 5, Status: "accepted", Version: 3}

	mock.ExpectExec(`UPDATE "bookings" SET .+ WHERE id = \$\d+ AND version = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateVersioned(context.Background(), b)
	assert.True(t, errors.Is(err, httperr.ErrConcurrentUpdate))
	assert.Equal(t, int64(3), b.Version, "a lost race leaves the in-memory version untouched")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountOverlappingIncludesLiveHolds(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingGormRepository(db)

	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	now := start.Add(-time.Hour)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "bookings" WHERE \(service_id = .+ AND start_date_time < .+ AND end_date_time > .+\) AND \(\(status = .+ OR \(status = .+ AND on_hold_until > .+\)\)\)`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := repo.CountOverlapping(context.Background(), domain.OverlapFilter{
		ServiceID: 1,
		Start:     start,
		End:       start.Add(30 * time.Minute),
		Now:       now,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchFiltersWindowAndStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingGormRepository(db)

	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	rows := sqlmock.NewRows([]string{"id", "service_id", "status", "version"}).
		AddRow(1, 1, "accepted", 1)

	mock.ExpectQuery(`SELECT .+ FROM "bookings" WHERE \(service_id = \$\d+ AND start_date_time < \$\d+ AND end_date_time > \$\d+\) AND status IN \(\$\d+\)`).
		WillReturnRows(rows)

	out, err := repo.Search(context.Background(), domain.SearchFilter{
		ServiceID: 1,
		From:      from,
		To:        to,
		Statuses:  []domain.Status{domain.StatusAccepted},
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, uint(1), out[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
