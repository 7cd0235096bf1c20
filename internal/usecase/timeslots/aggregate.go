package timeslots

import (
	"context"
	"time"

	domain "github.com/alysesue/bookings-api-sub001/internal/domain/booking"
	"github.com/alysesue/bookings-api-sub001/internal/domain/timeslot"
	"github.com/alysesue/bookings-api-sub001/internal/httperr"
	"github.com/alysesue/bookings-api-sub001/internal/models"
	"github.com/alysesue/bookings-api-sub001/internal/timezone"
)

// GetAggregatedTimeslots runs the full availability pipeline for a date
// range and returns the buckets sorted by start time.
func (s *Service) GetAggregatedTimeslots(
	ctx context.Context,
	in AggregateInput,
) ([]*timeslot.AvailableTimeslotProviders, error) {

	if !in.Start.Before(in.End) {
		return nil, httperr.ErrBusiness("invalid_time_range")
	}

	started := s.now()
	if s.metrics != nil {
		s.metrics.AvailabilityQueries.Inc()
	}

	svc, err := s.directory.GetService(ctx, in.ServiceID)
	if err != nil {
		return nil, httperr.ErrNotFound("service_not_found")
	}

	loc := timezone.Location(svc.Timezone)

	providers, err := s.visibleProviders(ctx, in.ServiceID, in.ProviderIDs)
	if err != nil {
		return nil, err
	}

	serviceRows, err := s.directory.ListServiceSchedules(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}
	serviceGen := timeslot.NewScheduleGenerator(serviceRows, loc)

	agg := timeslot.NewAggregator()

	for _, p := range providers {
		gen := serviceGen

		rows, err := s.directory.ListProviderSchedules(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		if len(rows) > 0 {
			gen = timeslot.NewScheduleGenerator(rows, loc)
		}

		agg.Aggregate(p, gen.Generate(in.Start, in.End))
	}

	if in.IncludeBookings {
		if err := s.overlayBookings(ctx, agg, in); err != nil {
			return nil, err
		}
	}

	if err := s.overlayUnavailabilities(ctx, agg, in.ServiceID, in.Start, in.End); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.AggregationTime.Observe(s.now().Sub(started).Seconds())
	}

	return agg.SortedBuckets(), nil
}

func (s *Service) visibleProviders(
	ctx context.Context,
	serviceID uint,
	providerIDs []uint,
) ([]*models.ServiceProvider, error) {

	providers, err := s.directory.ListProviders(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if len(providerIDs) == 0 {
		return providers, nil
	}

	visible := make(map[uint]struct{}, len(providerIDs))
	for _, id := range providerIDs {
		visible[id] = struct{}{}
	}

	filtered := providers[:0]
	for _, p := range providers {
		if _, ok := visible[p.ID]; ok {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// overlayBookings folds accepted bookings into their exact-key buckets
// (creating singleton buckets for out-of-slot ones), excludes providers
// whose accepted booking elsewhere collides with a bucket, and tracks
// pending bookings. On-hold reservations never reduce aggregated counts.
func (s *Service) overlayBookings(
	ctx context.Context,
	agg *timeslot.Aggregator,
	in AggregateInput,
) error {

	accepted, err := s.bookings.Search(ctx, domain.SearchFilter{
		ServiceID:   in.ServiceID,
		From:        in.Start,
		To:          in.End,
		Statuses:    []domain.Status{domain.StatusAccepted},
		ProviderIDs: in.ProviderIDs,
	})
	if err != nil {
		return err
	}

	for key, group := range groupByKey(accepted) {
		if bucket, ok := agg.Bucket(key); ok {
			bucket.SetBooked(group)
			continue
		}

		// A manually-created booking outside any generated candidate
		// still shows up as an occupied slot of its own.
		bucket := agg.BucketFor(group[0].StartDateTime, group[0].EndDateTime)
		for _, bk := range group {
			p, err := s.resolveProvider(ctx, agg, *bk.ServiceProviderID)
			if err != nil {
				s.log.Warnw("skipping booking with unresolved provider",
					"bookingId", bk.ID,
					"providerId", *bk.ServiceProviderID,
					"error", err)
				continue
			}
			bucket.AddBookedProvider(p, bk)
		}
	}

	s.overlayOverlapping(agg, accepted)

	pending, err := s.bookings.Search(ctx, domain.SearchFilter{
		ServiceID:         in.ServiceID,
		From:              in.Start,
		To:                in.End,
		Statuses:          []domain.Status{domain.StatusPendingApproval},
		ProviderIDs:       in.ProviderIDs,
		IncludeUnassigned: true,
	})
	if err != nil {
		return err
	}

	for key, group := range groupByKey(pending) {
		if bucket, ok := agg.Bucket(key); ok {
			bucket.SetPending(group)
		}
	}

	return nil
}

// overlayOverlapping removes a provider from every bucket its accepted
// booking collides with without matching exactly.
func (s *Service) overlayOverlapping(
	agg *timeslot.Aggregator,
	accepted []*models.Booking,
) {
	buckets := agg.SortedBuckets()

	for _, bk := range accepted {
		if bk.ServiceProviderID == nil {
			continue
		}
		key := timeslot.NewKey(bk.StartDateTime, bk.EndDateTime)

		for _, bucket := range buckets {
			if bucket.Key() == key {
				continue
			}
			if bucket.Overlaps(bk.StartDateTime, bk.EndDateTime) {
				bucket.SetOverlapping([]uint{*bk.ServiceProviderID})
			}
		}
	}
}

func (s *Service) overlayUnavailabilities(
	ctx context.Context,
	agg *timeslot.Aggregator,
	serviceID uint,
	start, end time.Time,
) error {

	windows, err := s.unavail.Search(ctx, serviceID, start, end, nil)
	if err != nil {
		return err
	}
	if len(windows) == 0 {
		return nil
	}

	for _, bucket := range agg.SortedBuckets() {
		for _, u := range windows {
			if u.Overlaps(bucket.StartTime, bucket.EndTime) {
				bucket.SetUnavailable(u)
			}
		}
	}
	return nil
}

// resolveProvider prefers the aggregation registry's shared instance and
// falls back to the directory for providers invisible to generation (e.g.
// licence-expired ones holding old bookings).
func (s *Service) resolveProvider(
	ctx context.Context,
	agg *timeslot.Aggregator,
	providerID uint,
) (*models.ServiceProvider, error) {

	if p, ok := agg.Registry().Get(providerID); ok {
		return p, nil
	}
	return s.directory.GetProvider(ctx, providerID)
}

func groupByKey(bookings []*models.Booking) map[timeslot.Key][]*models.Booking {
	groups := make(map[timeslot.Key][]*models.Booking)
	for _, bk := range bookings {
		if bk.ServiceProviderID == nil && bk.Status == string(domain.StatusAccepted) {
			continue
		}
		key := timeslot.NewKey(bk.StartDateTime, bk.EndDateTime)
		groups[key] = append(groups[key], bk)
	}
	return groups
}
