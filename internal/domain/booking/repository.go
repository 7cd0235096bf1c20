package booking

import (
	"context"
	"time"

	"github.com/alysesue/bookings-api-sub001/internal/models"
)

// SearchFilter selects bookings intersecting a time window for one service.
// ProviderIDs, when set, is the caller's visible-provider filter;
// IncludeUnassigned additionally admits bookings without a provider.
type SearchFilter struct {
	ServiceID         uint
	From              time.Time
	To                time.Time
	Statuses          []Status
	ProviderIDs       []uint
	IncludeUnassigned bool
}

// OverlapFilter selects capacity-consuming bookings (accepted plus unexpired
// on-hold) colliding with [Start, End).
type OverlapFilter struct {
	ServiceID        uint
	ProviderID       *uint
	Start            time.Time
	End              time.Time
	Now              time.Time
	ExcludeBookingID uint
}

type Repository interface {
	Get(ctx context.Context, id uint) (*models.Booking, error)

	Search(ctx context.Context, f SearchFilter) ([]*models.Booking, error)

	Insert(ctx context.Context, b *models.Booking) error

	// UpdateVersioned persists the mutation with an atomic
	// version-conditional write. It returns httperr.ErrConcurrentUpdate
	// when the row's version moved underneath the caller.
	UpdateVersioned(ctx context.Context, b *models.Booking) error

	CountOverlapping(ctx context.Context, f OverlapFilter) (int64, error)
}

// Directory resolves services, providers and their schedule rows.
type Directory interface {
	GetService(ctx context.Context, id uint) (*models.Service, error)

	GetProvider(ctx context.Context, id uint) (*models.ServiceProvider, error)

	ListProviders(ctx context.Context, serviceID uint) ([]*models.ServiceProvider, error)

	ListServiceSchedules(ctx context.Context, serviceID uint) ([]models.WeekdaySchedule, error)

	ListProviderSchedules(ctx context.Context, providerID uint) ([]models.WeekdaySchedule, error)
}

type UnavailabilityRepository interface {
	Search(ctx context.Context, serviceID uint, start, end time.Time, providerID *uint) ([]*models.Unavailability, error)

	Insert(ctx context.Context, u *models.Unavailability) error
}

type ChangeLogRepository interface {
	// Append writes one immutable change-log row inside the caller's
	// transaction.
	Append(ctx context.Context, log *models.BookingChangeLog) error

	ListForBooking(ctx context.Context, bookingID uint) ([]models.BookingChangeLog, error)
}

// TxManager runs fn inside one storage transaction; repository calls made
// with the ctx it passes join that transaction.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
