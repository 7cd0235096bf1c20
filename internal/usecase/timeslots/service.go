package timeslots

import (
	"time"

	"go.uber.org/zap"

	domain "github.com/alysesue/bookings-api-sub001/internal/domain/booking"
	"github.com/alysesue/bookings-api-sub001/internal/metrics"
	"github.com/alysesue/bookings-api-sub001/internal/models"
)

// ======================================================
// SERVICE
// ======================================================

// Service is the availability orchestrator: it loads schedule generators,
// runs the aggregation engine and overlays bookings, unavailability windows
// and licence expiry onto the resulting buckets.
type Service struct {
	bookings  domain.Repository
	directory domain.Directory
	unavail   domain.UnavailabilityRepository

	log     *zap.SugaredLogger
	metrics *metrics.Metrics

	now func() time.Time
}

func NewService(
	bookings domain.Repository,
	directory domain.Directory,
	unavail domain.UnavailabilityRepository,
	log *zap.SugaredLogger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		bookings:  bookings,
		directory: directory,
		unavail:   unavail,
		log:       log,
		metrics:   m,
		now:       time.Now,
	}
}

// ======================================================
// INPUTS / OUTPUTS
// ======================================================

type AggregateInput struct {
	ServiceID uint
	Start     time.Time
	End       time.Time

	IncludeBookings bool

	// ProviderIDs is the caller's visible-provider filter. Empty means
	// every provider of the service.
	ProviderIDs []uint
}

type TimeslotInput struct {
	ServiceID uint
	Start     time.Time
	End       time.Time

	ProviderID *uint

	// SkipUnassigned drops the unassigned-pending netting, for callers
	// re-validating a booking that is itself one of the pending entries.
	SkipUnassigned bool

	// ExcludeBookingID removes the booking being re-validated from the
	// overlap fallback scan.
	ExcludeBookingID uint
}

// ProviderTimeslotResult is the flattened per-provider availability for one
// exact timeslot.
type ProviderTimeslotResult struct {
	Provider          *models.ServiceProvider
	Capacity          int
	AcceptedBookings  []*models.Booking
	PendingBookings   []*models.Booking
	AvailabilityCount int
}
