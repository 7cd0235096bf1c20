package bookings

import (
	"context"
	"time"

	domain "github.com/alysesue/bookings-api-sub001/internal/domain/booking"
	"github.com/alysesue/bookings-api-sub001/internal/models"
)

// ChangeLogs appends the immutable audit row for one committed transition.
// Record runs inside the transition's transaction, so the trail can never
// disagree with the booking's actual history.
type ChangeLogs struct {
	repo domain.ChangeLogRepository
	now  func() time.Time
}

func NewChangeLogs(repo domain.ChangeLogRepository) *ChangeLogs {
	return &ChangeLogs{
		repo: repo,
		now:  time.Now,
	}
}

func (c *ChangeLogs) Record(
	ctx context.Context,
	b *models.Booking,
	action string,
	user *ActingUser,
	previousState string,
	newState string,
) error {

	log := &models.BookingChangeLog{
		BookingID:     b.ID,
		Action:        action,
		PreviousState: previousState,
		NewState:      newState,
		Timestamp:     c.now(),
	}
	if user != nil {
		log.UserID = user.ID
		log.UserName = user.Name
	}

	return c.repo.Append(ctx, log)
}

func (c *ChangeLogs) ListForBooking(
	ctx context.Context,
	bookingID uint,
) ([]models.BookingChangeLog, error) {
	return c.repo.ListForBooking(ctx, bookingID)
}
