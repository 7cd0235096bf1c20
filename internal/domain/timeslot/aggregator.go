package timeslot

import (
	"runtime"
	"sort"
	"time"

	"github.com/alysesue/bookings-api-sub001/internal/models"
)

// yieldEvery is the cooperative-yield quota: after this many consumed
// candidates the aggregator hands control back to the scheduler so a
// multi-week scan cannot starve other requests.
const yieldEvery = 1000

// Aggregator folds candidate timeslots from per-provider generators into
// exact-key buckets, creating buckets on demand. Built fresh per query and
// never shared across requests.
type Aggregator struct {
	registry   *ProviderRegistry
	buckets    map[Key]*AvailableTimeslotProviders
	iterations int
}

func NewAggregator() *Aggregator {
	return &Aggregator{
		registry: NewProviderRegistry(),
		buckets:  make(map[Key]*AvailableTimeslotProviders),
	}
}

func (a *Aggregator) Registry() *ProviderRegistry {
	return a.registry
}

// Aggregate consumes the provider's candidate sequence. Candidates starting
// after the provider's licence expiry are invisible, not merely unavailable.
func (a *Aggregator) Aggregate(p *models.ServiceProvider, it *SlotIterator) {
	if p == nil || it == nil {
		return
	}
	for {
		ts, ok := it.Next()
		if !ok {
			return
		}

		a.iterations++
		if a.iterations%yieldEvery == 0 {
			runtime.Gosched()
		}

		if p.IsLicenceExpiredAt(ts.StartTime) {
			continue
		}

		a.BucketFor(ts.StartTime, ts.EndTime).AddProvider(p, ts)
	}
}

// BucketFor finds or creates the bucket for the exact (start, end) pair.
func (a *Aggregator) BucketFor(start, end time.Time) *AvailableTimeslotProviders {
	key := NewKey(start, end)
	if b, ok := a.buckets[key]; ok {
		return b
	}
	b := NewAvailableTimeslotProviders(start, end, a.registry)
	a.buckets[key] = b
	return b
}

func (a *Aggregator) Bucket(key Key) (*AvailableTimeslotProviders, bool) {
	b, ok := a.buckets[key]
	return b, ok
}

func (a *Aggregator) Len() int {
	return len(a.buckets)
}

// SortedBuckets returns the buckets ordered by (start, end).
func (a *Aggregator) SortedBuckets() []*AvailableTimeslotProviders {
	out := make([]*AvailableTimeslotProviders, 0, len(a.buckets))
	for _, b := range a.buckets {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].StartTime.Before(out[j].StartTime)
		}
		return out[i].EndTime.Before(out[j].EndTime)
	})
	return out
}
