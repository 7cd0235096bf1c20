package repository

import (
	"context"

	"gorm.io/gorm"

	domain "github.com/alysesue/bookings-api-sub001/internal/domain/booking"
	"github.com/alysesue/bookings-api-sub001/internal/models"
)

// DirectoryGormRepository resolves services, providers and schedule rows.
type DirectoryGormRepository struct {
	db *gorm.DB
}

func NewDirectoryGormRepository(db *gorm.DB) *DirectoryGormRepository {
	return &DirectoryGormRepository{db: db}
}

func (r *DirectoryGormRepository) GetService(
	ctx context.Context,
	id uint,
) (*models.Service, error) {

	var svc models.Service
	if err := dbFrom(ctx, r.db).First(&svc, id).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

func (r *DirectoryGormRepository) GetProvider(
	ctx context.Context,
	id uint,
) (*models.ServiceProvider, error) {

	var p models.ServiceProvider
	if err := dbFrom(ctx, r.db).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *DirectoryGormRepository) ListProviders(
	ctx context.Context,
	serviceID uint,
) ([]*models.ServiceProvider, error) {

	var providers []*models.ServiceProvider
	if err := dbFrom(ctx, r.db).
		Where("service_id = ?", serviceID).
		Order("id ASC").
		Find(&providers).Error; err != nil {
		return nil, err
	}
	return providers, nil
}

func (r *DirectoryGormRepository) ListServiceSchedules(
	ctx context.Context,
	serviceID uint,
) ([]models.WeekdaySchedule, error) {

	var rows []models.WeekdaySchedule
	if err := dbFrom(ctx, r.db).
		Where("service_id = ? AND service_provider_id IS NULL", serviceID).
		Order("weekday ASC, open_time ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *DirectoryGormRepository) ListProviderSchedules(
	ctx context.Context,
	providerID uint,
) ([]models.WeekdaySchedule, error) {

	var rows []models.WeekdaySchedule
	if err := dbFrom(ctx, r.db).
		Where("service_provider_id = ?", providerID).
		Order("weekday ASC, open_time ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Compile-time check
var _ domain.Directory = (*DirectoryGormRepository)(nil)
