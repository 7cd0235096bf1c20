package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "github.com/alysesue/bookings-api-sub001/internal/domain/booking"
	"github.com/alysesue/bookings-api-sub001/internal/httperr"
	"github.com/alysesue/bookings-api-sub001/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// --------------------------------------------------
// Reads
// --------------------------------------------------

func (r *BookingGormRepository) Get(
	ctx context.Context,
	id uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := dbFrom(ctx, r.db).
		Preload("ServiceProvider").
		First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingGormRepository) Search(
	ctx context.Context,
	f domain.SearchFilter,
) ([]*models.Booking, error) {

	q := dbFrom(ctx, r.db).
		Preload("ServiceProvider").
		Where(
			"service_id = ? AND start_date_time < ? AND end_date_time > ?",
			f.ServiceID, f.To, f.From,
		)

	if len(f.Statuses) > 0 {
		statuses := make([]string, 0, len(f.Statuses))
		for _, s := range f.Statuses {
			statuses = append(statuses, string(s))
		}
		q = q.Where("status IN ?", statuses)
	}

	if len(f.ProviderIDs) > 0 {
		if f.IncludeUnassigned {
			q = q.Where(
				"service_provider_id IN ? OR service_provider_id IS NULL",
				f.ProviderIDs,
			)
		} else {
			q = q.Where("service_provider_id IN ?", f.ProviderIDs)
		}
	}

	var bookings []*models.Booking
	if err := q.Order("start_date_time ASC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingGormRepository) CountOverlapping(
	ctx context.Context,
	f domain.OverlapFilter,
) (int64, error) {

	q := dbFrom(ctx, r.db).
		Model(&models.Booking{}).
		Where(
			"service_id = ? AND start_date_time < ? AND end_date_time > ?",
			f.ServiceID, f.End, f.Start,
		).
		Where(
			"(status = ? OR (status = ? AND on_hold_until > ?))",
			string(domain.StatusAccepted), string(domain.StatusOnHold), f.Now,
		)

	if f.ProviderID != nil {
		q = q.Where("service_provider_id = ?", *f.ProviderID)
	}
	if f.ExcludeBookingID != 0 {
		q = q.Where("id <> ?", f.ExcludeBookingID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// --------------------------------------------------
// Writes
// --------------------------------------------------

func (r *BookingGormRepository) Insert(
	ctx context.Context,
	b *models.Booking,
) error {
	return dbFrom(ctx, r.db).Create(b).Error
}

// UpdateVersioned is the optimistic-concurrency write: one conditional
// UPDATE guarded by the version the caller read. Zero affected rows means a
// concurrent transition won the race.
func (r *BookingGormRepository) UpdateVersioned(
	ctx context.Context,
	b *models.Booking,
) error {

	expected := b.Version

	res := dbFrom(ctx, r.db).
		Model(&models.Booking{}).
		Where("id = ? AND version = ?", b.ID, expected).
		Updates(map[string]interface{}{
			"service_provider_id": b.ServiceProviderID,
			"start_date_time":     b.StartDateTime,
			"end_date_time":       b.EndDateTime,
			"status":              b.Status,
			"citizen_name":        b.CitizenName,
			"citizen_email":       b.CitizenEmail,
			"citizen_phone":       b.CitizenPhone,
			"description":         b.Description,
			"on_hold_until":       b.OnHoldUntil,
			"version":             expected + 1,
			"updated_at":          time.Now(),
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrConcurrentUpdate
	}

	b.Version = expected + 1
	return nil
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
