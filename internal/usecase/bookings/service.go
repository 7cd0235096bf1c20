package bookings

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/alysesue/bookings-api-sub001/internal/cache"
	domain "github.com/alysesue/bookings-api-sub001/internal/domain/booking"
	"github.com/alysesue/bookings-api-sub001/internal/metrics"
	"github.com/alysesue/bookings-api-sub001/internal/models"
	"github.com/alysesue/bookings-api-sub001/internal/usecase/timeslots"
)

// ======================================================
// CONSTANTS
// ======================================================

// maxAttempts bounds the optimistic-concurrency retry loop: a conflicting
// transition restarts the whole read-validate-write cycle up to this many
// times before the conflict is surfaced.
const maxAttempts = 3

// holdDuration is how long an on-hold reservation lives before expiring.
const holdDuration = 5 * time.Minute

const (
	ActionCreate         = "create"
	ActionAccept         = "accept"
	ActionReject         = "reject"
	ActionCancel         = "cancel"
	ActionUpdate         = "update"
	ActionReschedule     = "reschedule"
	ActionValidateOnHold = "validate_on_hold"
)

// ActingUser identifies who triggered a transition, for the change log.
type ActingUser struct {
	ID   *uint
	Name string
}

// ======================================================
// SERVICE
// ======================================================

// Service is the booking transition engine. Every state-changing action runs
// through executeAndLogAction so the mutation and its change-log row commit
// in one transaction, retried on write conflicts.
type Service struct {
	tx        domain.TxManager
	bookings  domain.Repository
	directory domain.Directory

	changeLogs *ChangeLogs
	timeslots  *timeslots.Service

	citizenValidator Validator
	adminValidator   Validator
	onHoldValidator  Validator

	cache   *cache.AvailabilityCache
	metrics *metrics.Metrics
	log     *zap.SugaredLogger

	now func() time.Time
}

func NewService(
	tx domain.TxManager,
	bookings domain.Repository,
	directory domain.Directory,
	changeLogRepo domain.ChangeLogRepository,
	ts *timeslots.Service,
	c *cache.AvailabilityCache,
	m *metrics.Metrics,
	log *zap.SugaredLogger,
) *Service {
	s := &Service{
		tx:         tx,
		bookings:   bookings,
		directory:  directory,
		changeLogs: NewChangeLogs(changeLogRepo),
		timeslots:  ts,
		cache:      c,
		metrics:    m,
		log:        log,
		now:        time.Now,
	}

	s.citizenValidator = NewCitizenValidator(ts)
	s.adminValidator = NewAdminValidator(ts)
	s.onHoldValidator = NewOnHoldValidator(ts)

	return s
}

// ======================================================
// READS
// ======================================================

func (s *Service) Get(ctx context.Context, id uint) (*models.Booking, error) {
	return s.bookings.Get(ctx, id)
}

func (s *Service) Search(ctx context.Context, f domain.SearchFilter) ([]*models.Booking, error) {
	return s.bookings.Search(ctx, f)
}

func (s *Service) ChangeLogsForBooking(ctx context.Context, bookingID uint) ([]models.BookingChangeLog, error) {
	return s.changeLogs.ListForBooking(ctx, bookingID)
}
