package repository

import (
	"context"

	"gorm.io/gorm"

	domain "github.com/alysesue/bookings-api-sub001/internal/domain/booking"
	"github.com/alysesue/bookings-api-sub001/internal/models"
)

type ChangeLogGormRepository struct {
	db *gorm.DB
}

func NewChangeLogGormRepository(db *gorm.DB) *ChangeLogGormRepository {
	return &ChangeLogGormRepository{db: db}
}

func (r *ChangeLogGormRepository) Append(
	ctx context.Context,
	log *models.BookingChangeLog,
) error {
	return dbFrom(ctx, r.db).Create(log).Error
}

func (r *ChangeLogGormRepository) ListForBooking(
	ctx context.Context,
	bookingID uint,
) ([]models.BookingChangeLog, error) {

	var logs []models.BookingChangeLog
	if err := dbFrom(ctx, r.db).
		Where("booking_id = ?", bookingID).
		Order("timestamp ASC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// Compile-time check
var _ domain.ChangeLogRepository = (*ChangeLogGormRepository)(nil)
