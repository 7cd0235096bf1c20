package bookings

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/alysesue/bookings-api-sub001/internal/domain/booking"
	"github.com/alysesue/bookings-api-sub001/internal/httperr"
	"github.com/alysesue/bookings-api-sub001/internal/models"
)

// CreateInput carries everything a new booking needs. AdminCreated selects
// the relaxed validation path used by operators.
type CreateInput struct {
	ServiceID         uint
	ServiceProviderID *uint

	StartDateTime time.Time
	EndDateTime   time.Time

	CitizenName  string
	CitizenEmail string
	CitizenPhone string
	Description  string

	AdminCreated bool
}

// Create runs the full creation pipeline inside the transition engine.
//
// 1. Resolve the service, refusing unknown ones.
// 2. Validate with the citizen or admin rule set.
// 3. An on-hold service parks the booking behind an expiring hold.
// 4. An auto-accepting provider confirms immediately, otherwise the
//    booking waits in pending approval.
func (s *Service) Create(ctx context.Context, user *ActingUser, in CreateInput) (*models.Booking, error) {
	created, err := s.executeAndLogAction(ctx, user, newBooking, func(txCtx context.Context, b *models.Booking) (string, error) {
		svc, err := s.directory.GetService(txCtx, in.ServiceID)
		if err != nil {
			return ActionCreate, httperr.ErrNotFound("service_not_found")
		}

		b.UUID = uuid.NewString()
		b.ServiceID = in.ServiceID
		b.ServiceProviderID = in.ServiceProviderID
		b.StartDateTime = in.StartDateTime
		b.EndDateTime = in.EndDateTime
		b.CitizenName = in.CitizenName
		b.CitizenEmail = in.CitizenEmail
		b.CitizenPhone = in.CitizenPhone
		b.Description = in.Description
		b.Status = string(booking.InitialStatus())
		if user != nil {
			b.CreatorID = user.ID
		}

		validator := s.citizenValidator
		if in.AdminCreated {
			validator = s.adminValidator
		}
		if err := validator.Validate(txCtx, svc, b); err != nil {
			return ActionCreate, err
		}

		switch {
		case svc.IsOnHold:
			booking.MarkOnHold(b, s.now().Add(holdDuration))

		case b.ServiceProviderID != nil:
			p, err := s.directory.GetProvider(txCtx, *b.ServiceProviderID)
			if err != nil {
				return ActionCreate, httperr.ErrNotFound("service_provider_not_found")
			}
			if p.AutoAcceptBookings {
				b.Status = string(booking.StatusAccepted)
			}
		}

		if err := s.bookings.Insert(txCtx, b); err != nil {
			return ActionCreate, err
		}
		return ActionCreate, nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.BookingsCreated.Inc()
	}
	return created, nil
}
