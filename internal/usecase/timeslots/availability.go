package timeslots

import (
	"context"

	domain "github.com/alysesue/bookings-api-sub001/internal/domain/booking"
	"github.com/alysesue/bookings-api-sub001/internal/httperr"
	"github.com/alysesue/bookings-api-sub001/internal/domain/timeslot"
)

// GetAvailableProvidersForTimeslot narrows the aggregation pipeline to one
// exact timeslot and flattens it per provider.
func (s *Service) GetAvailableProvidersForTimeslot(
	ctx context.Context,
	in TimeslotInput,
) ([]ProviderTimeslotResult, error) {

	if !in.Start.Before(in.End) {
		return nil, httperr.ErrBusiness("invalid_time_range")
	}

	var providerIDs []uint
	if in.ProviderID != nil {
		providerIDs = []uint{*in.ProviderID}
	}

	buckets, err := s.GetAggregatedTimeslots(ctx, AggregateInput{
		ServiceID:       in.ServiceID,
		Start:           in.Start,
		End:             in.End,
		IncludeBookings: true,
		ProviderIDs:     providerIDs,
	})
	if err != nil {
		return nil, err
	}

	key := timeslot.NewKey(in.Start, in.End)

	var bucket *timeslot.AvailableTimeslotProviders
	for _, b := range buckets {
		if b.Key() == key {
			bucket = b
			break
		}
	}
	if bucket == nil {
		return nil, nil
	}

	if in.ProviderID != nil {
		bucket.RestrictToProvider(*in.ProviderID)
	}
	if in.SkipUnassigned {
		bucket.ClearPendingUnassigned()
	}

	results := make([]ProviderTimeslotResult, 0, len(bucket.RelatedProviderIDs()))
	for _, pid := range bucket.RelatedProviderIDs() {
		p, ok := bucket.Provider(pid)
		if !ok {
			continue
		}

		remaining := 0
		if bucket.IsProviderAvailable(pid) {
			remaining = bucket.CapacityFor(pid) - len(bucket.BookedFor(pid))
			if remaining < 0 {
				remaining = 0
			}
		}

		results = append(results, ProviderTimeslotResult{
			Provider:          p,
			Capacity:          bucket.CapacityFor(pid),
			AcceptedBookings:  bucket.BookedFor(pid),
			PendingBookings:   bucket.PendingFor(pid),
			AvailabilityCount: remaining,
		})
	}

	return results, nil
}

// IsProviderAvailableForTimeslot reduces the exact-slot pipeline to one
// boolean. A request matching no generated candidate is not automatically
// invalid: out-of-slot bookings fall back to an overlap scan against
// capacity-consuming bookings and unavailability windows.
func (s *Service) IsProviderAvailableForTimeslot(
	ctx context.Context,
	in TimeslotInput,
) (bool, error) {

	if in.ProviderID == nil {
		return false, httperr.ErrBusiness("service_provider_required")
	}

	buckets, err := s.GetAggregatedTimeslots(ctx, AggregateInput{
		ServiceID:       in.ServiceID,
		Start:           in.Start,
		End:             in.End,
		IncludeBookings: true,
		ProviderIDs:     []uint{*in.ProviderID},
	})
	if err != nil {
		return false, err
	}

	key := timeslot.NewKey(in.Start, in.End)
	for _, b := range buckets {
		if b.Key() != key {
			continue
		}

		// The provider holding the booking under re-validation keeps
		// its own slot.
		for _, bk := range b.BookedFor(*in.ProviderID) {
			if in.ExcludeBookingID != 0 && bk.ID == in.ExcludeBookingID {
				return true, nil
			}
		}

		b.RestrictToProvider(*in.ProviderID)
		if in.SkipUnassigned {
			b.ClearPendingUnassigned()
		}
		return b.AvailabilityCount() > 0, nil
	}

	return s.isFreeOutOfSlot(ctx, in)
}

// isFreeOutOfSlot is the fallback for requests with no generated candidate:
// free iff no unavailability window and no accepted or live on-hold booking
// collides.
func (s *Service) isFreeOutOfSlot(
	ctx context.Context,
	in TimeslotInput,
) (bool, error) {

	windows, err := s.unavail.Search(ctx, in.ServiceID, in.Start, in.End, in.ProviderID)
	if err != nil {
		return false, err
	}
	if len(windows) > 0 {
		return false, nil
	}

	count, err := s.bookings.CountOverlapping(ctx, domain.OverlapFilter{
		ServiceID:        in.ServiceID,
		ProviderID:       in.ProviderID,
		Start:            in.Start,
		End:              in.End,
		Now:              s.now(),
		ExcludeBookingID: in.ExcludeBookingID,
	})
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// IsTimeslotAvailable checks a slot without a provider preference: true iff
// the bucket for the exact slot nets out to a positive availability count.
func (s *Service) IsTimeslotAvailable(
	ctx context.Context,
	in TimeslotInput,
) (bool, error) {

	buckets, err := s.GetAggregatedTimeslots(ctx, AggregateInput{
		ServiceID:       in.ServiceID,
		Start:           in.Start,
		End:             in.End,
		IncludeBookings: true,
	})
	if err != nil {
		return false, err
	}

	key := timeslot.NewKey(in.Start, in.End)
	for _, b := range buckets {
		if b.Key() != key {
			continue
		}
		if in.SkipUnassigned {
			b.ClearPendingUnassigned()
		}
		return b.AvailabilityCount() > 0, nil
	}
	return false, nil
}
