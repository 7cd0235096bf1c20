package bookings

import (
	"context"

	"github.com/alysesue/bookings-api-sub001/internal/domain/booking"
	"github.com/alysesue/bookings-api-sub001/internal/models"
)

// Reject declines a booking waiting for approval.
func (s *Service) Reject(ctx context.Context, user *ActingUser, bookingID uint) (*models.Booking, error) {
	return s.executeAndLogAction(ctx, user, s.byID(bookingID), func(txCtx context.Context, b *models.Booking) (string, error) {
		if err := booking.Reject(b); err != nil {
			return ActionReject, err
		}
		return ActionReject, s.bookings.UpdateVersioned(txCtx, b)
	})
}
