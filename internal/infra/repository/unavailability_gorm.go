package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "github.com/alysesue/bookings-api-sub001/internal/domain/booking"
	"github.com/alysesue/bookings-api-sub001/internal/models"
)

type UnavailabilityGormRepository struct {
	db *gorm.DB
}

func NewUnavailabilityGormRepository(db *gorm.DB) *UnavailabilityGormRepository {
	return &UnavailabilityGormRepository{db: db}
}

func (r *UnavailabilityGormRepository) Search(
	ctx context.Context,
	serviceID uint,
	start, end time.Time,
	providerID *uint,
) ([]*models.Unavailability, error) {

	q := dbFrom(ctx, r.db).
		Preload("Providers").
		Where(
			"service_id = ? AND start < ? AND \"end\" > ?",
			serviceID, end, start,
		)

	var out []*models.Unavailability
	if err := q.Order("start ASC").Find(&out).Error; err != nil {
		return nil, err
	}

	if providerID == nil {
		return out, nil
	}

	// Keep only windows touching the requested provider.
	filtered := out[:0]
	for _, u := range out {
		if u.AllProviders {
			filtered = append(filtered, u)
			continue
		}
		for i := range u.Providers {
			if u.Providers[i].ID == *providerID {
				filtered = append(filtered, u)
				break
			}
		}
	}
	return filtered, nil
}

func (r *UnavailabilityGormRepository) Insert(
	ctx context.Context,
	u *models.Unavailability,
) error {
	return dbFrom(ctx, r.db).Create(u).Error
}

// Compile-time check
var _ domain.UnavailabilityRepository = (*UnavailabilityGormRepository)(nil)
