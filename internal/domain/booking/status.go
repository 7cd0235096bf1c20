package booking

import "github.com/alysesue/bookings-api-sub001/internal/httperr"

// ===============================
// Booking Status
// ===============================

type Status string

const (
	StatusPendingApproval Status = "pending_approval"
	StatusAccepted        Status = "accepted"
	StatusRejected        Status = "rejected"
	StatusCancelled       Status = "cancelled"
	StatusOnHold          Status = "on_hold"
)

// IsTerminal reports whether no further transition is allowed.
func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusRejected
}

// ===============================
// Transition guards
// ===============================

// CanAccept allows accepting from pending approval or an on-hold reservation.
func CanAccept(current Status) error {
	if current != StatusPendingApproval && current != StatusOnHold {
		return httperr.ErrState("booking_not_acceptable")
	}
	return nil
}

// CanReject allows rejecting pending bookings only.
func CanReject(current Status) error {
	if current != StatusPendingApproval {
		return httperr.ErrState("booking_not_rejectable")
	}
	return nil
}

// CanCancel allows cancelling anything not already terminal.
func CanCancel(current Status) error {
	if current.IsTerminal() {
		return httperr.ErrState("booking_not_cancellable")
	}
	return nil
}

// IsValidForRescheduling holds for accepted and pending bookings.
func IsValidForRescheduling(current Status) bool {
	return current == StatusAccepted || current == StatusPendingApproval
}

// CanValidateOnHold allows validating on-hold reservations only.
func CanValidateOnHold(current Status) error {
	if current != StatusOnHold {
		return httperr.ErrState("booking_not_on_hold")
	}
	return nil
}

func InitialStatus() Status {
	return StatusPendingApproval
}
