package timeslot

import (
	"sort"
	"time"

	"github.com/alysesue/bookings-api-sub001/internal/models"
)

// AvailableTimeslotProviders is the per-exact-timeslot accumulator. All
// capacity math is set-based: "which provider is free" and "how many are
// free" always derive from the same sets.
type AvailableTimeslotProviders struct {
	StartTime time.Time
	EndTime   time.Time

	registry *ProviderRegistry

	related     map[uint]struct{}
	capacities  map[uint]int
	booked      map[uint][]*models.Booking
	pending     map[uint][]*models.Booking
	overlapping map[uint]struct{}
	unavailable map[uint]struct{}
	available   map[uint]struct{}

	// pendingUnassigned counts pending bookings competing for this slot
	// without an assigned provider.
	pendingUnassigned int
}

func NewAvailableTimeslotProviders(start, end time.Time, registry *ProviderRegistry) *AvailableTimeslotProviders {
	return &AvailableTimeslotProviders{
		StartTime:   start,
		EndTime:     end,
		registry:    registry,
		related:     make(map[uint]struct{}),
		capacities:  make(map[uint]int),
		booked:      make(map[uint][]*models.Booking),
		pending:     make(map[uint][]*models.Booking),
		overlapping: make(map[uint]struct{}),
		unavailable: make(map[uint]struct{}),
		available:   make(map[uint]struct{}),
	}
}

func (b *AvailableTimeslotProviders) Key() Key {
	return NewKey(b.StartTime, b.EndTime)
}

// AddProvider relates the provider to this slot with the candidate's
// capacity. Append-only while the aggregation is being built.
func (b *AvailableTimeslotProviders) AddProvider(p *models.ServiceProvider, ts TimeslotWithCapacity) {
	if p == nil {
		return
	}
	b.registry.Add(p)

	capacity := ts.Capacity
	if capacity < 1 {
		capacity = 1
	}

	b.related[p.ID] = struct{}{}
	b.capacities[p.ID] = capacity
	b.recompute(p.ID)
}

// AddBookedProvider relates a provider to an out-of-slot bucket created for
// an accepted booking whose times matched no generated candidate. The
// provider never becomes available here.
func (b *AvailableTimeslotProviders) AddBookedProvider(p *models.ServiceProvider, bk *models.Booking) {
	if p == nil || bk == nil {
		return
	}
	b.registry.Add(p)

	b.related[p.ID] = struct{}{}
	if _, ok := b.capacities[p.ID]; !ok {
		b.capacities[p.ID] = 1
	}
	b.booked[p.ID] = append(b.booked[p.ID], bk)
	b.recompute(p.ID)
}

// SetBooked overlays the accepted bookings whose time range equals this
// bucket. A provider stays available until its bookings reach capacity.
func (b *AvailableTimeslotProviders) SetBooked(bookings []*models.Booking) {
	for _, bk := range bookings {
		if bk == nil || bk.ServiceProviderID == nil {
			continue
		}
		pid := *bk.ServiceProviderID
		b.booked[pid] = append(b.booked[pid], bk)
		b.recompute(pid)
	}
}

// SetPending overlays pending bookings: assigned ones are tracked per
// provider, unassigned ones feed the netting count.
func (b *AvailableTimeslotProviders) SetPending(bookings []*models.Booking) {
	for _, bk := range bookings {
		if bk == nil {
			continue
		}
		if bk.ServiceProviderID == nil {
			b.pendingUnassigned++
			continue
		}
		b.pending[*bk.ServiceProviderID] = append(b.pending[*bk.ServiceProviderID], bk)
	}
}

// SetOverlapping excludes providers whose out-of-slot booking footprint
// collides with this bucket.
func (b *AvailableTimeslotProviders) SetOverlapping(providerIDs []uint) {
	for _, pid := range providerIDs {
		b.overlapping[pid] = struct{}{}
		delete(b.available, pid)
	}
}

// SetUnavailable applies one unavailability window to this bucket.
func (b *AvailableTimeslotProviders) SetUnavailable(u *models.Unavailability) {
	if u == nil {
		return
	}
	if u.AllProviders {
		for pid := range b.related {
			b.unavailable[pid] = struct{}{}
		}
		b.available = make(map[uint]struct{})
		return
	}
	for i := range u.Providers {
		pid := u.Providers[i].ID
		b.unavailable[pid] = struct{}{}
		delete(b.available, pid)
	}
}

// RestrictToProvider narrows every set to one provider. The unassigned
// pending count resets to zero when the provider was available before the
// restriction and still is, so a single-provider query stays
// self-consistent.
func (b *AvailableTimeslotProviders) RestrictToProvider(providerID uint) {
	_, wasAvailable := b.available[providerID]

	b.related = keepOnly(b.related, providerID)
	b.capacities = keepOnlyCapacity(b.capacities, providerID)
	b.overlapping = keepOnly(b.overlapping, providerID)
	b.unavailable = keepOnly(b.unavailable, providerID)
	b.available = keepOnly(b.available, providerID)
	b.booked = keepOnlyBookings(b.booked, providerID)
	b.pending = keepOnlyBookings(b.pending, providerID)

	if _, still := b.available[providerID]; still && wasAvailable {
		b.pendingUnassigned = 0
	}
}

// ClearPendingUnassigned drops the netting count. Used when the caller is
// re-validating a booking that is itself one of the pending entries.
func (b *AvailableTimeslotProviders) ClearPendingUnassigned() {
	b.pendingUnassigned = 0
}

// AvailabilityCount nets unassigned pending bookings out of the available
// set. Never negative.
func (b *AvailableTimeslotProviders) AvailabilityCount() int {
	count := len(b.available) - b.pendingUnassigned
	if count < 0 {
		return 0
	}
	return count
}

func (b *AvailableTimeslotProviders) IsProviderAvailable(providerID uint) bool {
	_, ok := b.available[providerID]
	return ok
}

func (b *AvailableTimeslotProviders) CapacityFor(providerID uint) int {
	return b.capacities[providerID]
}

func (b *AvailableTimeslotProviders) BookedFor(providerID uint) []*models.Booking {
	return b.booked[providerID]
}

func (b *AvailableTimeslotProviders) PendingFor(providerID uint) []*models.Booking {
	return b.pending[providerID]
}

func (b *AvailableTimeslotProviders) PendingUnassignedCount() int {
	return b.pendingUnassigned
}

func (b *AvailableTimeslotProviders) RelatedProviderIDs() []uint {
	return sortedIDs(b.related)
}

func (b *AvailableTimeslotProviders) AvailableProviderIDs() []uint {
	return sortedIDs(b.available)
}

// Provider resolves a related provider through the shared registry.
func (b *AvailableTimeslotProviders) Provider(id uint) (*models.ServiceProvider, bool) {
	if _, ok := b.related[id]; !ok {
		return nil, false
	}
	return b.registry.Get(id)
}

// Overlaps reports whether [start, end) collides with this bucket's range.
func (b *AvailableTimeslotProviders) Overlaps(start, end time.Time) bool {
	return start.Before(b.EndTime) && end.After(b.StartTime)
}

// recompute re-derives the provider's membership in the available set from
// related − booked-at-capacity − overlapping − unavailable.
func (b *AvailableTimeslotProviders) recompute(pid uint) {
	if _, ok := b.related[pid]; !ok {
		delete(b.available, pid)
		return
	}
	if _, ok := b.overlapping[pid]; ok {
		delete(b.available, pid)
		return
	}
	if _, ok := b.unavailable[pid]; ok {
		delete(b.available, pid)
		return
	}
	capacity := b.capacities[pid]
	if capacity < 1 {
		capacity = 1
	}
	if len(b.booked[pid]) >= capacity {
		delete(b.available, pid)
		return
	}
	b.available[pid] = struct{}{}
}

func keepOnly(set map[uint]struct{}, id uint) map[uint]struct{} {
	out := make(map[uint]struct{})
	if _, ok := set[id]; ok {
		out[id] = struct{}{}
	}
	return out
}

func keepOnlyCapacity(m map[uint]int, id uint) map[uint]int {
	out := make(map[uint]int)
	if v, ok := m[id]; ok {
		out[id] = v
	}
	return out
}

func keepOnlyBookings(m map[uint][]*models.Booking, id uint) map[uint][]*models.Booking {
	out := make(map[uint][]*models.Booking)
	if v, ok := m[id]; ok {
		out[id] = v
	}
	return out
}

func sortedIDs(set map[uint]struct{}) []uint {
	out := make([]uint, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
