package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the prometheus instruments for the booking core.
type Metrics struct {
	BookingsCreated     prometheus.Counter
	BookingTransitions  *prometheus.CounterVec
	BookingConflicts    prometheus.Counter
	AvailabilityQueries prometheus.Counter
	AggregationTime     prometheus.Histogram
}

func New(namespace string) *Metrics {
	return &Metrics{
		BookingsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_created_total",
			Help:      "The total number of bookings created",
		}),
		BookingTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_transitions_total",
			Help:      "Committed booking state transitions by action",
		}, []string{"action"}),
		BookingConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_conflicts_total",
			Help:      "Optimistic-concurrency conflicts detected on booking writes",
		}),
		AvailabilityQueries: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "availability_queries_total",
			Help:      "Availability aggregation queries served",
		}),
		AggregationTime: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "availability_aggregation_seconds",
			Help:      "Time spent aggregating timeslots for a query",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}
