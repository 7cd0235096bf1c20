package bookings

import (
	"context"

	"github.com/alysesue/bookings-api-sub001/internal/domain/booking"
	"github.com/alysesue/bookings-api-sub001/internal/httperr"
	"github.com/alysesue/bookings-api-sub001/internal/models"
)

// Cancel withdraws a non-terminal booking. A confirmed booking must still
// point at an existing provider; losing that referential link means the
// record needs operator attention, not a silent cancel.
func (s *Service) Cancel(ctx context.Context, user *ActingUser, bookingID uint) (*models.Booking, error) {
	return s.executeAndLogAction(ctx, user, s.byID(bookingID), func(txCtx context.Context, b *models.Booking) (string, error) {
		if b.Status == string(booking.StatusAccepted) {
			if b.ServiceProviderID == nil {
				return ActionCancel, httperr.ErrState("booking_provider_missing")
			}
			if _, err := s.directory.GetProvider(txCtx, *b.ServiceProviderID); err != nil {
				return ActionCancel, httperr.ErrNotFound("service_provider_not_found")
			}
		}

		if err := booking.Cancel(b, s.now()); err != nil {
			return ActionCancel, err
		}
		return ActionCancel, s.bookings.UpdateVersioned(txCtx, b)
	})
}
