package timeslots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/alysesue/bookings-api-sub001/internal/domain/booking"
	"github.com/alysesue/bookings-api-sub001/internal/httperr"
	"github.com/alysesue/bookings-api-sub001/internal/logger"
	"github.com/alysesue/bookings-api-sub001/internal/models"
)

// ======================================================
// STUBS
// ======================================================

type stubDirectory struct {
	service      *models.Service
	providers    []*models.ServiceProvider
	serviceRows  []models.WeekdaySchedule
	providerRows map[uint][]models.WeekdaySchedule
}

func (s *stubDirectory) GetService(_ context.Context, id uint) (*models.Service, error) {
	if s.service == nil || s.service.ID != id {
		return nil, httperr.ErrNotFound("service_not_found")
	}
	return s.service, nil
}

func (s *stubDirectory) GetProvider(_ context.Context, id uint) (*models.ServiceProvider, error) {
	for _, p := range s.providers {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, httperr.ErrNotFound("service_provider_not_found")
}

func (s *stubDirectory) ListProviders(_ context.Context, _ uint) ([]*models.ServiceProvider, error) {
	return s.providers, nil
}

func (s *stubDirectory) ListServiceSchedules(_ context.Context, _ uint) ([]models.WeekdaySchedule, error) {
	return s.serviceRows, nil
}

func (s *stubDirectory) ListProviderSchedules(_ context.Context, id uint) ([]models.WeekdaySchedule, error) {
	return s.providerRows[id], nil
}

type stubBookingRepo struct {
	bookings []*models.Booking
}

func (s *stubBookingRepo) Get(_ context.Context, id uint) (*models.Booking, error) {
	for _, b := range s.bookings {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, httperr.ErrNotFound("booking_not_found")
}

func (s *stubBookingRepo) Search(_ context.Context, f domain.SearchFilter) ([]*models.Booking, error) {
	var out []*models.Booking
	for _, b := range s.bookings {
		if b.ServiceID != f.ServiceID {
			continue
		}
		if !b.StartDateTime.Before(f.To) || !b.EndDateTime.After(f.From) {
			continue
		}
		if len(f.Statuses) > 0 {
			match := false
			for _, st := range f.Statuses {
				if b.Status == string(st) {
					match = true
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, b)
	}
	return out, nil
}

func (s *stubBookingRepo) Insert(_ context.Context, b *models.Booking) error {
	s.bookings = append(s.bookings, b)
	return nil
}

func (s *stubBookingRepo) UpdateVersioned(_ context.Context, b *models.Booking) error {
	b.Version++
	return nil
}

func (s *stubBookingRepo) CountOverlapping(_ context.Context, f domain.OverlapFilter) (int64, error) {
	var n int64
	for _, b := range s.bookings {
		if b.ServiceID != f.ServiceID || b.ID == f.ExcludeBookingID {
			continue
		}
		live := b.Status == string(domain.StatusAccepted) ||
			(b.Status == string(domain.StatusOnHold) && b.OnHoldUntil != nil && b.OnHoldUntil.After(f.Now))
		if !live {
			continue
		}
		if f.ProviderID != nil && (b.ServiceProviderID == nil || *b.ServiceProviderID != *f.ProviderID) {
			continue
		}
		if b.StartDateTime.Before(f.End) && b.EndDateTime.After(f.Start) {
			n++
		}
	}
	return n, nil
}

type stubUnavailRepo struct {
	windows []*models.Unavailability
}

func (s *stubUnavailRepo) Search(_ context.Context, serviceID uint, start, end time.Time, _ *uint) ([]*models.Unavailability, error) {
	var out []*models.Unavailability
	for _, u := range s.windows {
		if u.ServiceID == serviceID && u.Overlaps(start, end) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *stubUnavailRepo) Insert(_ context.Context, u *models.Unavailability) error {
	s.windows = append(s.windows, u)
	return nil
}

// ======================================================
// FIXTURE
// ======================================================

// One service in UTC with a Monday 09:00-11:00 schedule of 30-minute slots.
// 2026-03-02 is a Monday.
func newFixture(capacity int, providers ...*models.ServiceProvider) (*Service, *stubBookingRepo, *stubUnavailRepo) {
	dir := &stubDirectory{
		service:   &models.Service{ID: 1, Name: "Passport renewal", Timezone: "UTC"},
		providers: providers,
		serviceRows: []models.WeekdaySchedule{
			{
				ServiceID:       ptrUint(1),
				Weekday:         1,
				OpenTime:        "09:00",
				CloseTime:       "11:00",
				SlotDurationMin: 30,
				Capacity:        capacity,
				Active:          true,
			},
		},
		providerRows: map[uint][]models.WeekdaySchedule{},
	}

	bookings := &stubBookingRepo{}
	unavail := &stubUnavailRepo{}

	svc := NewService(bookings, dir, unavail, logger.Nop(), nil)
	return svc, bookings, unavail
}

func ptrUint(v uint) *uint { return &v }

func mondayWindow() (time.Time, time.Time) {
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

func slotAt(h, m int) (time.Time, time.Time) {
	start := time.Date(2026, 3, 2, h, m, 0, 0, time.UTC)
	return start, start.Add(30 * time.Minute)
}

// ======================================================
// AGGREGATION
// ======================================================

func TestAggregatedTimeslotsSingleProvider(t *testing.T) {
	svc, _, _ := newFixture(1, &models.ServiceProvider{ID: 10, ServiceID: 1})
	from, to := mondayWindow()

	buckets, err := svc.GetAggregatedTimeslots(context.Background(), AggregateInput{
		ServiceID: 1, Start: from, End: to, IncludeBookings: true,
	})
	require.NoError(t, err)
	require.Len(t, buckets, 4)

	for _, b := range buckets {
		assert.Equal(t, 1, b.AvailabilityCount())
	}
}

func TestAggregatedTimeslotsAcceptedBookingConsumesExactSlot(t *testing.T) {
	svc, repo, _ := newFixture(1, &models.ServiceProvider{ID: 10, ServiceID: 1})
	from, to := mondayWindow()

	s9, e9 := slotAt(9, 0)
	repo.bookings = append(repo.bookings, &models.Booking{
		ID: 100, ServiceID: 1, ServiceProviderID: ptrUint(10),
		StartDateTime: s9, EndDateTime: e9,
		Status: string(domain.StatusAccepted),
	})

	buckets, err := svc.GetAggregatedTimeslots(context.Background(), AggregateInput{
		ServiceID: 1, Start: from, End: to, IncludeBookings: true,
	})
	require.NoError(t, err)
	require.Len(t, buckets, 4)

	assert.Equal(t, 0, buckets[0].AvailabilityCount(), "booked slot is full")
	assert.Equal(t, 1, buckets[1].AvailabilityCount(), "adjacent slot is untouched")
}

func TestAggregatedTimeslotsOnHoldDoesNotReduceCounts(t *testing.T) {
	svc, repo, _ := newFixture(1, &models.ServiceProvider{ID: 10, ServiceID: 1})
	from, to := mondayWindow()

	s9, e9 := slotAt(9, 0)
	until := time.Now().Add(5 * time.Minute)
	repo.bookings = append(repo.bookings, &models.Booking{
		ID: 101, ServiceID: 1, ServiceProviderID: ptrUint(10),
		StartDateTime: s9, EndDateTime: e9,
		Status: string(domain.StatusOnHold), OnHoldUntil: &until,
	})

	buckets, err := svc.GetAggregatedTimeslots(context.Background(), AggregateInput{
		ServiceID: 1, Start: from, End: to, IncludeBookings: true,
	})
	require.NoError(t, err)

	for _, b := range buckets {
		assert.Equal(t, 1, b.AvailabilityCount())
	}
}

func TestAggregatedTimeslotsPendingUnassignedNetsCount(t *testing.T) {
	svc, repo, _ := newFixture(1,
		&models.ServiceProvider{ID: 10, ServiceID: 1},
		&models.ServiceProvider{ID: 11, ServiceID: 1},
	)
	from, to := mondayWindow()

	s9, e9 := slotAt(9, 0)
	repo.bookings = append(repo.bookings, &models.Booking{
		ID: 102, ServiceID: 1,
		StartDateTime: s9, EndDateTime: e9,
		Status: string(domain.StatusPendingApproval),
	})

	buckets, err := svc.GetAggregatedTimeslots(context.Background(), AggregateInput{
		ServiceID: 1, Start: from, End: to, IncludeBookings: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, buckets[0].AvailabilityCount(), "two available minus one unassigned pending")
	assert.Equal(t, 2, buckets[1].AvailabilityCount())
}

func TestAggregatedTimeslotsOutOfSlotBookingCreatesSingleton(t *testing.T) {
	svc, repo, _ := newFixture(1, &models.ServiceProvider{ID: 10, ServiceID: 1})
	from, to := mondayWindow()

	// 09:15-09:45 matches no generated candidate but collides with two.
	start := time.Date(2026, 3, 2, 9, 15, 0, 0, time.UTC)
	repo.bookings = append(repo.bookings, &models.Booking{
		ID: 103, ServiceID: 1, ServiceProviderID: ptrUint(10),
		StartDateTime: start, EndDateTime: start.Add(30 * time.Minute),
		Status: string(domain.StatusAccepted),
	})

	buckets, err := svc.GetAggregatedTimeslots(context.Background(), AggregateInput{
		ServiceID: 1, Start: from, End: to, IncludeBookings: true,
	})
	require.NoError(t, err)
	require.Len(t, buckets, 5, "the out-of-slot booking shows up as its own bucket")

	assert.Equal(t, 0, buckets[0].AvailabilityCount(), "09:00 overlaps the stray booking")
	assert.True(t, buckets[1].StartTime.Equal(start), "singleton sorts between the generated slots")
	assert.Equal(t, 0, buckets[1].AvailabilityCount())
	assert.Equal(t, 0, buckets[2].AvailabilityCount(), "09:30 overlaps the stray booking")
	assert.Equal(t, 1, buckets[3].AvailabilityCount())
}

func TestAggregatedTimeslotsOutOfSlotBookingWithMissingProvider(t *testing.T) {
	svc, repo, _ := newFixture(1, &models.ServiceProvider{ID: 10, ServiceID: 1})
	from, to := mondayWindow()

	// The provider row behind this stray booking is gone from the directory.
	start := time.Date(2026, 3, 2, 9, 15, 0, 0, time.UTC)
	repo.bookings = append(repo.bookings, &models.Booking{
		ID: 109, ServiceID: 1, ServiceProviderID: ptrUint(99),
		StartDateTime: start, EndDateTime: start.Add(30 * time.Minute),
		Status: string(domain.StatusAccepted),
	})

	buckets, err := svc.GetAggregatedTimeslots(context.Background(), AggregateInput{
		ServiceID: 1, Start: from, End: to, IncludeBookings: true,
	})
	require.NoError(t, err)
	require.Len(t, buckets, 5, "the singleton bucket still appears")

	assert.True(t, buckets[1].StartTime.Equal(start))
	assert.Equal(t, 0, buckets[1].AvailabilityCount())
	assert.Equal(t, 1, buckets[0].AvailabilityCount(), "the known provider keeps the generated slots")
	assert.Equal(t, 1, buckets[2].AvailabilityCount())
}

func TestAggregatedTimeslotsUnavailabilityBlocksProviders(t *testing.T) {
	svc, _, unavail := newFixture(1, &models.ServiceProvider{ID: 10, ServiceID: 1})
	from, to := mondayWindow()

	s9, _ := slotAt(9, 0)
	unavail.windows = append(unavail.windows, &models.Unavailability{
		ID: 1, ServiceID: 1,
		Start: s9, End: s9.Add(time.Hour),
		AllProviders: true,
	})

	buckets, err := svc.GetAggregatedTimeslots(context.Background(), AggregateInput{
		ServiceID: 1, Start: from, End: to, IncludeBookings: true,
	})
	require.NoError(t, err)
	require.Len(t, buckets, 4)

	assert.Equal(t, 0, buckets[0].AvailabilityCount())
	assert.Equal(t, 0, buckets[1].AvailabilityCount())
	assert.Equal(t, 1, buckets[2].AvailabilityCount())
	assert.Equal(t, 1, buckets[3].AvailabilityCount())
}

func TestAggregatedTimeslotsProviderOverrideReplacesServiceRows(t *testing.T) {
	svc, _, _ := newFixture(1, &models.ServiceProvider{ID: 10, ServiceID: 1})
	dir := svc.directory.(*stubDirectory)
	dir.providerRows[10] = []models.WeekdaySchedule{
		{
			ServiceProviderID: ptrUint(10),
			Weekday:           1,
			OpenTime:          "14:00",
			CloseTime:         "15:00",
			SlotDurationMin:   60,
			Capacity:          1,
			Active:            true,
		},
	}
	from, to := mondayWindow()

	buckets, err := svc.GetAggregatedTimeslots(context.Background(), AggregateInput{
		ServiceID: 1, Start: from, End: to, IncludeBookings: true,
	})
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	assert.Equal(t, time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC), buckets[0].StartTime)
}

func TestAggregatedTimeslotsUnknownService(t *testing.T) {
	svc, _, _ := newFixture(1)

	from, to := mondayWindow()
	_, err := svc.GetAggregatedTimeslots(context.Background(), AggregateInput{
		ServiceID: 99, Start: from, End: to,
	})
	assert.True(t, httperr.IsBusiness(err, "service_not_found"))
}

func TestAggregatedTimeslotsInvalidRange(t *testing.T) {
	svc, _, _ := newFixture(1)

	from, _ := mondayWindow()
	_, err := svc.GetAggregatedTimeslots(context.Background(), AggregateInput{
		ServiceID: 1, Start: from, End: from,
	})
	assert.True(t, httperr.IsBusiness(err, "invalid_time_range"))
}

// ======================================================
// PER-SLOT AVAILABILITY
// ======================================================

func TestGetAvailableProvidersForTimeslot(t *testing.T) {
	svc, repo, _ := newFixture(2,
		&models.ServiceProvider{ID: 10, ServiceID: 1, Name: "Alice"},
		&models.ServiceProvider{ID: 11, ServiceID: 1, Name: "Bob"},
	)

	s9, e9 := slotAt(9, 0)
	repo.bookings = append(repo.bookings, &models.Booking{
		ID: 104, ServiceID: 1, ServiceProviderID: ptrUint(10),
		StartDateTime: s9, EndDateTime: e9,
		Status: string(domain.StatusAccepted),
	})

	results, err := svc.GetAvailableProvidersForTimeslot(context.Background(), TimeslotInput{
		ServiceID: 1, Start: s9, End: e9,
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, uint(10), results[0].Provider.ID)
	assert.Equal(t, 1, results[0].AvailabilityCount, "one of two capacity slots consumed")
	assert.Len(t, results[0].AcceptedBookings, 1)
	assert.Equal(t, 2, results[1].AvailabilityCount)
}

func TestGetAvailableProvidersForTimeslotNoCandidate(t *testing.T) {
	svc, _, _ := newFixture(1, &models.ServiceProvider{ID: 10, ServiceID: 1})

	start := time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC)
	results, err := svc.GetAvailableProvidersForTimeslot(context.Background(), TimeslotInput{
		ServiceID: 1, Start: start, End: start.Add(30 * time.Minute),
	})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestIsProviderAvailableForTimeslot(t *testing.T) {
	svc, repo, _ := newFixture(1,
		&models.ServiceProvider{ID: 10, ServiceID: 1},
		&models.ServiceProvider{ID: 11, ServiceID: 1},
	)

	s9, e9 := slotAt(9, 0)
	repo.bookings = append(repo.bookings, &models.Booking{
		ID: 105, ServiceID: 1, ServiceProviderID: ptrUint(10),
		StartDateTime: s9, EndDateTime: e9,
		Status: string(domain.StatusAccepted),
	})

	ok, err := svc.IsProviderAvailableForTimeslot(context.Background(), TimeslotInput{
		ServiceID: 1, Start: s9, End: e9, ProviderID: ptrUint(10),
	})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.IsProviderAvailableForTimeslot(context.Background(), TimeslotInput{
		ServiceID: 1, Start: s9, End: e9, ProviderID: ptrUint(11),
	})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsProviderAvailableForTimeslotExcludedBookingKeepsSlot(t *testing.T) {
	svc, repo, _ := newFixture(1, &models.ServiceProvider{ID: 10, ServiceID: 1})

	s9, e9 := slotAt(9, 0)
	repo.bookings = append(repo.bookings, &models.Booking{
		ID: 106, ServiceID: 1, ServiceProviderID: ptrUint(10),
		StartDateTime: s9, EndDateTime: e9,
		Status: string(domain.StatusAccepted),
	})

	ok, err := svc.IsProviderAvailableForTimeslot(context.Background(), TimeslotInput{
		ServiceID: 1, Start: s9, End: e9,
		ProviderID: ptrUint(10), ExcludeBookingID: 106,
	})
	require.NoError(t, err)
	assert.True(t, ok, "a booking keeps the slot it already holds")
}

func TestIsProviderAvailableForTimeslotOutOfSlotFallback(t *testing.T) {
	svc, repo, _ := newFixture(1, &models.ServiceProvider{ID: 10, ServiceID: 1})
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	// Outside any generated candidate: falls back to the overlap scan.
	start := time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)

	ok, err := svc.IsProviderAvailableForTimeslot(context.Background(), TimeslotInput{
		ServiceID: 1, Start: start, End: end, ProviderID: ptrUint(10),
	})
	require.NoError(t, err)
	assert.True(t, ok)

	repo.bookings = append(repo.bookings, &models.Booking{
		ID: 107, ServiceID: 1, ServiceProviderID: ptrUint(10),
		StartDateTime: start.Add(-15 * time.Minute), EndDateTime: start.Add(15 * time.Minute),
		Status: string(domain.StatusAccepted),
	})

	ok, err = svc.IsProviderAvailableForTimeslot(context.Background(), TimeslotInput{
		ServiceID: 1, Start: start, End: end, ProviderID: ptrUint(10),
	})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsProviderAvailableForTimeslotRequiresProvider(t *testing.T) {
	svc, _, _ := newFixture(1)

	s9, e9 := slotAt(9, 0)
	_, err := svc.IsProviderAvailableForTimeslot(context.Background(), TimeslotInput{
		ServiceID: 1, Start: s9, End: e9,
	})
	assert.True(t, httperr.IsBusiness(err, "service_provider_required"))
}

func TestIsTimeslotAvailable(t *testing.T) {
	svc, repo, _ := newFixture(1, &models.ServiceProvider{ID: 10, ServiceID: 1})

	s9, e9 := slotAt(9, 0)
	ok, err := svc.IsTimeslotAvailable(context.Background(), TimeslotInput{
		ServiceID: 1, Start: s9, End: e9,
	})
	require.NoError(t, err)
	assert.True(t, ok)

	repo.bookings = append(repo.bookings, &models.Booking{
		ID: 108, ServiceID: 1, ServiceProviderID: ptrUint(10),
		StartDateTime: s9, EndDateTime: e9,
		Status: string(domain.StatusAccepted),
	})

	ok, err = svc.IsTimeslotAvailable(context.Background(), TimeslotInput{
		ServiceID: 1, Start: s9, End: e9,
	})
	require.NoError(t, err)
	assert.False(t, ok)
}
