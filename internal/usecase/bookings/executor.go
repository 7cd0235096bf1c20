package bookings

import (
	"context"
	"errors"

	"github.com/alysesue/bookings-api-sub001/internal/httperr"
	"github.com/alysesue/bookings-api-sub001/internal/models"
)

// loadFn resolves the booking a transition starts from. A fresh entity for
// creation, a re-read by id for everything else; re-reading inside each
// attempt is what lets a retry observe the winner's committed state.
type loadFn func(ctx context.Context) (*models.Booking, error)

// actionFn applies the guards, mutates the booking and persists it via a
// version-conditional write. It returns the action name to log, which lets
// an update classify itself as a reschedule after comparing times.
type actionFn func(ctx context.Context, b *models.Booking) (string, error)

// executeAndLogAction is the transition execution contract: transaction,
// re-fetch, before snapshot, action, after snapshot, one change-log row,
// commit. A conflicting concurrent write restarts the whole cycle; any
// other failure aborts and propagates untouched.
func (s *Service) executeAndLogAction(
	ctx context.Context,
	user *ActingUser,
	load loadFn,
	fn actionFn,
) (*models.Booking, error) {

	var result *models.Booking
	var action string

	for attempt := 1; attempt <= maxAttempts; attempt++ {

		err := s.tx.Do(ctx, func(txCtx context.Context) error {
			b, err := load(txCtx)
			if err != nil {
				return err
			}

			prev := snapshot(b)

			action, err = fn(txCtx, b)
			if err != nil {
				return err
			}

			next := snapshot(b)

			if err := s.changeLogs.Record(txCtx, b, action, user, prev, next); err != nil {
				return err
			}

			result = b
			return nil
		})

		if err == nil {
			if s.metrics != nil {
				s.metrics.BookingTransitions.WithLabelValues(action).Inc()
			}
			if s.cache != nil {
				s.cache.InvalidateService(ctx, result.ServiceID)
			}
			return result, nil
		}

		if errors.Is(err, httperr.ErrConcurrentUpdate) {
			if s.metrics != nil {
				s.metrics.BookingConflicts.Inc()
			}
			if s.log != nil {
				s.log.Warnw("booking write conflict, retrying",
					"attempt", attempt,
				)
			}
			continue
		}

		return nil, err
	}

	return nil, httperr.ErrConflict("booking_conflict")
}

// byID re-reads the booking at the start of every attempt.
func (s *Service) byID(id uint) loadFn {
	return func(ctx context.Context) (*models.Booking, error) {
		b, err := s.bookings.Get(ctx, id)
		if err != nil {
			return nil, httperr.ErrNotFound("booking_not_found")
		}
		return b, nil
	}
}

func newBooking(ctx context.Context) (*models.Booking, error) {
	return &models.Booking{}, nil
}
