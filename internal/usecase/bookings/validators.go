package bookings

import (
	"context"
	"strings"
	"time"

	"github.com/alysesue/bookings-api-sub001/internal/httperr"
	"github.com/alysesue/bookings-api-sub001/internal/models"
	"github.com/alysesue/bookings-api-sub001/internal/usecase/timeslots"
	"github.com/alysesue/bookings-api-sub001/internal/validators"
)

// ======================================================
// VALIDATORS
// ======================================================

// Validator checks a booking's requested slot against the service's rules
// before a transition commits. Create and Update pick the validator from who
// is acting; ValidateOnHold always uses the on-hold one.
type Validator interface {
	Validate(ctx context.Context, svc *models.Service, b *models.Booking) error
}

func validateTimeRange(b *models.Booking) error {
	if b.StartDateTime.IsZero() || b.EndDateTime.IsZero() {
		return httperr.ErrBusiness("missing_time_range")
	}
	if !b.StartDateTime.Before(b.EndDateTime) {
		return httperr.ErrBusiness("invalid_time_range")
	}
	return nil
}

// ------------------------------------------------------
// Citizen
// ------------------------------------------------------

// CitizenValidator enforces the full public-facing rule set: identity
// fields, the minimum-advance window and strict slot availability. A citizen
// request that matches no generated candidate slot is rejected outright.
type CitizenValidator struct {
	timeslots *timeslots.Service

	// checkEmailDomain is swappable in tests; the real check does DNS
	// lookups.
	checkEmailDomain func(string) bool

	now func() time.Time
}

func NewCitizenValidator(ts *timeslots.Service) *CitizenValidator {
	return &CitizenValidator{
		timeslots:        ts,
		checkEmailDomain: validators.IsEmailDomainValid,
		now:              time.Now,
	}
}

func (v *CitizenValidator) Validate(ctx context.Context, svc *models.Service, b *models.Booking) error {
	if err := validateTimeRange(b); err != nil {
		return err
	}

	if strings.TrimSpace(b.CitizenName) == "" {
		return httperr.ErrBusiness("citizen_name_required")
	}
	if b.CitizenEmail != "" && !v.checkEmailDomain(b.CitizenEmail) {
		return httperr.ErrBusiness("invalid_citizen_email")
	}

	if svc.MinAdvanceMinutes > 0 {
		earliest := v.now().Add(time.Duration(svc.MinAdvanceMinutes) * time.Minute)
		if b.StartDateTime.Before(earliest) {
			return httperr.ErrBusiness("too_soon")
		}
	}

	in := timeslots.TimeslotInput{
		ServiceID:        svc.ID,
		Start:            b.StartDateTime,
		End:              b.EndDateTime,
		ExcludeBookingID: b.ID,
	}

	if b.ServiceProviderID != nil {
		in.ProviderID = b.ServiceProviderID

		results, err := v.timeslots.GetAvailableProvidersForTimeslot(ctx, in)
		if err != nil {
			return err
		}
		for _, r := range results {
			if r.Provider.ID == *b.ServiceProviderID && r.AvailabilityCount > 0 {
				return nil
			}
		}
		return httperr.ErrBusiness("timeslot_unavailable")
	}

	ok, err := v.timeslots.IsTimeslotAvailable(ctx, in)
	if err != nil {
		return err
	}
	if !ok {
		return httperr.ErrBusiness("timeslot_unavailable")
	}
	return nil
}

// ------------------------------------------------------
// Admin
// ------------------------------------------------------

// AdminValidator trusts the operator with citizen details and advance
// windows but still refuses a slot the target provider cannot serve.
// Out-of-slot requests fall back to the overlap scan instead of failing.
type AdminValidator struct {
	timeslots *timeslots.Service
}

func NewAdminValidator(ts *timeslots.Service) *AdminValidator {
	return &AdminValidator{timeslots: ts}
}

func (v *AdminValidator) Validate(ctx context.Context, svc *models.Service, b *models.Booking) error {
	if err := validateTimeRange(b); err != nil {
		return err
	}

	if b.ServiceProviderID == nil {
		return nil
	}

	ok, err := v.timeslots.IsProviderAvailableForTimeslot(ctx, timeslots.TimeslotInput{
		ServiceID:        svc.ID,
		Start:            b.StartDateTime,
		End:              b.EndDateTime,
		ProviderID:       b.ServiceProviderID,
		ExcludeBookingID: b.ID,
	})
	if err != nil {
		return err
	}
	if !ok {
		return httperr.ErrBusiness("timeslot_unavailable")
	}
	return nil
}

// ------------------------------------------------------
// On-hold
// ------------------------------------------------------

// OnHoldValidator re-checks the slot when a hold is validated. The booking
// under validation is one of the pending entries itself, so unassigned
// pendings are not netted against it.
type OnHoldValidator struct {
	timeslots *timeslots.Service
}

func NewOnHoldValidator(ts *timeslots.Service) *OnHoldValidator {
	return &OnHoldValidator{timeslots: ts}
}

func (v *OnHoldValidator) Validate(ctx context.Context, svc *models.Service, b *models.Booking) error {
	if err := validateTimeRange(b); err != nil {
		return err
	}

	in := timeslots.TimeslotInput{
		ServiceID:        svc.ID,
		Start:            b.StartDateTime,
		End:              b.EndDateTime,
		ProviderID:       b.ServiceProviderID,
		SkipUnassigned:   true,
		ExcludeBookingID: b.ID,
	}

	if b.ServiceProviderID != nil {
		ok, err := v.timeslots.IsProviderAvailableForTimeslot(ctx, in)
		if err != nil {
			return err
		}
		if !ok {
			return httperr.ErrBusiness("timeslot_unavailable")
		}
		return nil
	}

	ok, err := v.timeslots.IsTimeslotAvailable(ctx, in)
	if err != nil {
		return err
	}
	if !ok {
		return httperr.ErrBusiness("timeslot_unavailable")
	}
	return nil
}
