package bookings

import (
	"context"

	"github.com/alysesue/bookings-api-sub001/internal/domain/booking"
	"github.com/alysesue/bookings-api-sub001/internal/httperr"
	"github.com/alysesue/bookings-api-sub001/internal/models"
)

// ValidateOnHold settles an on-hold reservation. An expired hold is refused;
// a live one re-checks the slot and either confirms immediately, when the
// assigned provider auto-accepts, or drops into pending approval.
func (s *Service) ValidateOnHold(ctx context.Context, user *ActingUser, bookingID uint) (*models.Booking, error) {
	return s.executeAndLogAction(ctx, user, s.byID(bookingID), func(txCtx context.Context, b *models.Booking) (string, error) {
		if err := booking.CanValidateOnHold(booking.Status(b.Status)); err != nil {
			return ActionValidateOnHold, err
		}
		if b.IsHoldExpired(s.now()) {
			return ActionValidateOnHold, httperr.ErrState("booking_hold_expired")
		}

		svc, err := s.directory.GetService(txCtx, b.ServiceID)
		if err != nil {
			return ActionValidateOnHold, httperr.ErrNotFound("service_not_found")
		}

		if err := s.onHoldValidator.Validate(txCtx, svc, b); err != nil {
			return ActionValidateOnHold, err
		}

		autoAccept := false
		if b.ServiceProviderID != nil {
			p, err := s.directory.GetProvider(txCtx, *b.ServiceProviderID)
			if err != nil {
				return ActionValidateOnHold, httperr.ErrNotFound("service_provider_not_found")
			}
			autoAccept = p.AutoAcceptBookings
		}

		if autoAccept {
			if err := booking.Accept(b, *b.ServiceProviderID); err != nil {
				return ActionValidateOnHold, err
			}
		} else if err := booking.ReleaseHold(b); err != nil {
			return ActionValidateOnHold, err
		}

		return ActionValidateOnHold, s.bookings.UpdateVersioned(txCtx, b)
	})
}
