package bookings

import (
	"context"

	"github.com/alysesue/bookings-api-sub001/internal/domain/booking"
	"github.com/alysesue/bookings-api-sub001/internal/httperr"
	"github.com/alysesue/bookings-api-sub001/internal/models"
	"github.com/alysesue/bookings-api-sub001/internal/usecase/timeslots"
)

// Accept assigns a provider and confirms the booking. When the assignment
// differs from what the booking already carries, the target provider's
// availability is re-checked inside the same transaction.
func (s *Service) Accept(ctx context.Context, user *ActingUser, bookingID, providerID uint) (*models.Booking, error) {
	return s.executeAndLogAction(ctx, user, s.byID(bookingID), func(txCtx context.Context, b *models.Booking) (string, error) {
		if err := booking.CanAccept(booking.Status(b.Status)); err != nil {
			return ActionAccept, err
		}

		if _, err := s.directory.GetProvider(txCtx, providerID); err != nil {
			return ActionAccept, httperr.ErrNotFound("service_provider_not_found")
		}

		if b.ServiceProviderID == nil || *b.ServiceProviderID != providerID {
			ok, err := s.timeslots.IsProviderAvailableForTimeslot(txCtx, timeslots.TimeslotInput{
				ServiceID:        b.ServiceID,
				Start:            b.StartDateTime,
				End:              b.EndDateTime,
				ProviderID:       &providerID,
				SkipUnassigned:   true,
				ExcludeBookingID: b.ID,
			})
			if err != nil {
				return ActionAccept, err
			}
			if !ok {
				return ActionAccept, httperr.ErrBusiness("timeslot_unavailable")
			}
		}

		if err := booking.Accept(b, providerID); err != nil {
			return ActionAccept, err
		}
		return ActionAccept, s.bookings.UpdateVersioned(txCtx, b)
	})
}
