package bookings

import (
	"context"
	"time"

	"github.com/alysesue/bookings-api-sub001/internal/domain/booking"
	"github.com/alysesue/bookings-api-sub001/internal/httperr"
	"github.com/alysesue/bookings-api-sub001/internal/models"
)

// UpdateInput carries the mutable fields of a live booking. Nil time
// pointers leave the window untouched; moving either endpoint turns the
// update into a reschedule.
type UpdateInput struct {
	StartDateTime *time.Time
	EndDateTime   *time.Time

	CitizenName  *string
	CitizenEmail *string
	CitizenPhone *string
	Description  *string

	AdminActing bool
}

// Update edits the booking in place. A changed time window runs the full
// reschedule path: provider cleared, status back to pending approval and
// the new slot validated as if it were a fresh request.
func (s *Service) Update(ctx context.Context, user *ActingUser, bookingID uint, in UpdateInput) (*models.Booking, error) {
	return s.executeAndLogAction(ctx, user, s.byID(bookingID), func(txCtx context.Context, b *models.Booking) (string, error) {
		action := ActionUpdate

		if booking.Status(b.Status).IsTerminal() {
			return action, httperr.ErrState("booking_not_updatable")
		}

		newStart := b.StartDateTime
		newEnd := b.EndDateTime
		if in.StartDateTime != nil {
			newStart = *in.StartDateTime
		}
		if in.EndDateTime != nil {
			newEnd = *in.EndDateTime
		}
		rescheduled := !newStart.Equal(b.StartDateTime) || !newEnd.Equal(b.EndDateTime)

		if in.CitizenName != nil {
			b.CitizenName = *in.CitizenName
		}
		if in.CitizenEmail != nil {
			b.CitizenEmail = *in.CitizenEmail
		}
		if in.CitizenPhone != nil {
			b.CitizenPhone = *in.CitizenPhone
		}
		if in.Description != nil {
			b.Description = *in.Description
		}

		if rescheduled {
			action = ActionReschedule

			if err := booking.StartReschedule(b, newStart, newEnd); err != nil {
				return action, err
			}

			svc, err := s.directory.GetService(txCtx, b.ServiceID)
			if err != nil {
				return action, httperr.ErrNotFound("service_not_found")
			}

			validator := s.citizenValidator
			if in.AdminActing {
				validator = s.adminValidator
			}
			if err := validator.Validate(txCtx, svc, b); err != nil {
				return action, err
			}
		}

		return action, s.bookings.UpdateVersioned(txCtx, b)
	})
}

// Reschedule moves a booking to a new window, keeping everything else.
func (s *Service) Reschedule(ctx context.Context, user *ActingUser, bookingID uint, start, end time.Time, adminActing bool) (*models.Booking, error) {
	return s.Update(ctx, user, bookingID, UpdateInput{
		StartDateTime: &start,
		EndDateTime:   &end,
		AdminActing:   adminActing,
	})
}
