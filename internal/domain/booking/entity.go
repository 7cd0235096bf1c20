package booking

import (
	"time"

	"github.com/alysesue/bookings-api-sub001/internal/httperr"
	"github.com/alysesue/bookings-api-sub001/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Accept(b *models.Booking, providerID uint) error {
	if err := CanAccept(Status(b.Status)); err != nil {
		return err
	}

	b.ServiceProviderID = &providerID
	b.Status = string(StatusAccepted)
	b.OnHoldUntil = nil
	return nil
}

func Reject(b *models.Booking) error {
	if err := CanReject(Status(b.Status)); err != nil {
		return err
	}

	b.Status = string(StatusRejected)
	return nil
}

func Cancel(b *models.Booking, now time.Time) error {
	if err := CanCancel(Status(b.Status)); err != nil {
		return err
	}
	if b.StartDateTime.Before(now) {
		return httperr.ErrBusiness("booking_in_the_past")
	}

	b.Status = string(StatusCancelled)
	b.OnHoldUntil = nil
	return nil
}

// MarkOnHold places a fresh booking into the expiring hold state.
func MarkOnHold(b *models.Booking, until time.Time) {
	b.Status = string(StatusOnHold)
	b.OnHoldUntil = &until
}

// ReleaseHold moves a validated on-hold booking into pending approval.
func ReleaseHold(b *models.Booking) error {
	if err := CanValidateOnHold(Status(b.Status)); err != nil {
		return err
	}

	b.Status = string(StatusPendingApproval)
	b.OnHoldUntil = nil
	return nil
}

// StartReschedule moves the booking to the new window with the provider
// cleared, so a new provider can be assigned; it always lands back in
// pending approval.
func StartReschedule(b *models.Booking, newStart, newEnd time.Time) error {
	if !IsValidForRescheduling(Status(b.Status)) {
		return httperr.ErrState("booking_not_reschedulable")
	}

	b.StartDateTime = newStart
	b.EndDateTime = newEnd
	b.ServiceProviderID = nil
	b.Status = string(StatusPendingApproval)
	return nil
}
