package timeslot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/alysesue/bookings-api-sub001/internal/models"
)

func newTestBucket() *AvailableTimeslotProviders {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	return NewAvailableTimeslotProviders(start, start.Add(30*time.Minute), NewProviderRegistry())
}

func provider(id uint) *models.ServiceProvider {
	return &models.ServiceProvider{ID: id, Name: "provider"}
}

func slotFor(b *AvailableTimeslotProviders, capacity int) TimeslotWithCapacity {
	return TimeslotWithCapacity{StartTime: b.StartTime, EndTime: b.EndTime, Capacity: capacity}
}

func accepted(id uint, providerID uint) *models.Booking {
	return &models.Booking{ID: id, ServiceProviderID: &providerID, Status: "accepted"}
}

func TestAddProviderBecomesAvailable(t *testing.T) {
	b := newTestBucket()
	b.AddProvider(provider(1), slotFor(b, 2))

	assert.True(t, b.IsProviderAvailable(1))
	assert.Equal(t, 1, b.AvailabilityCount())
	assert.Equal(t, 2, b.CapacityFor(1))
}

func TestSetBookedRemovesProviderAtCapacity(t *testing.T) {
	b := newTestBucket()
	b.AddProvider(provider(1), slotFor(b, 2))

	b.SetBooked([]*models.Booking{accepted(10, 1)})
	assert.True(t, b.IsProviderAvailable(1), "one booking against capacity 2 keeps the provider available")

	b.SetBooked([]*models.Booking{accepted(11, 1)})
	assert.False(t, b.IsProviderAvailable(1))
	assert.Equal(t, 0, b.AvailabilityCount())
}

func TestPendingUnassignedNetsAvailability(t *testing.T) {
	b := newTestBucket()
	b.AddProvider(provider(1), slotFor(b, 1))
	b.AddProvider(provider(2), slotFor(b, 1))

	b.SetPending([]*models.Booking{{ID: 20, Status: "pending_approval"}})

	assert.Equal(t, 1, b.AvailabilityCount())
	assert.True(t, b.IsProviderAvailable(1))
	assert.True(t, b.IsProviderAvailable(2))
}

func TestAvailabilityCountNeverNegative(t *testing.T) {
	b := newTestBucket()
	b.AddProvider(provider(1), slotFor(b, 1))

	b.SetPending([]*models.Booking{
		{ID: 20}, {ID: 21}, {ID: 22},
	})

	assert.Equal(t, 0, b.AvailabilityCount())
}

func TestSetOverlappingExcludesProvider(t *testing.T) {
	b := newTestBucket()
	b.AddProvider(provider(1), slotFor(b, 1))
	b.AddProvider(provider(2), slotFor(b, 1))

	b.SetOverlapping([]uint{1})

	assert.False(t, b.IsProviderAvailable(1))
	assert.True(t, b.IsProviderAvailable(2))
	assert.Equal(t, []uint{2}, b.AvailableProviderIDs())
}

func TestSetUnavailableAllProvidersClearsBucket(t *testing.T) {
	b := newTestBucket()
	b.AddProvider(provider(1), slotFor(b, 1))
	b.AddProvider(provider(2), slotFor(b, 1))

	b.SetUnavailable(&models.Unavailability{AllProviders: true})

	assert.Equal(t, 0, b.AvailabilityCount())
	assert.Empty(t, b.AvailableProviderIDs())
}

func TestSetUnavailableSpecificProviders(t *testing.T) {
	b := newTestBucket()
	b.AddProvider(provider(1), slotFor(b, 1))
	b.AddProvider(provider(2), slotFor(b, 1))

	b.SetUnavailable(&models.Unavailability{
		Providers: []models.ServiceProvider{{ID: 2}},
	})

	assert.True(t, b.IsProviderAvailable(1))
	assert.False(t, b.IsProviderAvailable(2))
}

func TestAddBookedProviderNeverAvailable(t *testing.T) {
	b := newTestBucket()
	b.AddBookedProvider(provider(1), accepted(30, 1))

	assert.False(t, b.IsProviderAvailable(1))
	assert.Equal(t, []uint{1}, b.RelatedProviderIDs())
	assert.Len(t, b.BookedFor(1), 1)
}

func TestRestrictToProviderResetsUnassignedNetting(t *testing.T) {
	b := newTestBucket()
	b.AddProvider(provider(1), slotFor(b, 1))
	b.AddProvider(provider(2), slotFor(b, 1))
	b.SetPending([]*models.Booking{{ID: 40}})

	b.RestrictToProvider(1)

	assert.Equal(t, []uint{1}, b.RelatedProviderIDs())
	assert.Equal(t, 0, b.PendingUnassignedCount())
	assert.Equal(t, 1, b.AvailabilityCount())
}

func TestRestrictToProviderKeepsNettingWhenProviderUnavailable(t *testing.T) {
	b := newTestBucket()
	b.AddProvider(provider(1), slotFor(b, 1))
	b.SetBooked([]*models.Booking{accepted(50, 1)})
	b.SetPending([]*models.Booking{{ID: 51}})

	b.RestrictToProvider(1)

	assert.Equal(t, 1, b.PendingUnassignedCount())
	assert.Equal(t, 0, b.AvailabilityCount())
}

func TestOverlaps(t *testing.T) {
	b := newTestBucket()

	assert.True(t, b.Overlaps(b.StartTime.Add(-10*time.Minute), b.StartTime.Add(10*time.Minute)))
	assert.False(t, b.Overlaps(b.EndTime, b.EndTime.Add(30*time.Minute)), "touching boundaries do not overlap")
}
