package timeslot

import "time"

// Key identifies one exact (start, end) timeslot in epoch milliseconds.
// Bucketing is exact-match: candidates from independent generators merge only
// when both bounds are identical.
type Key struct {
	StartMillis int64
	EndMillis   int64
}

func NewKey(start, end time.Time) Key {
	return Key{
		StartMillis: start.UnixMilli(),
		EndMillis:   end.UnixMilli(),
	}
}

// TimeslotWithCapacity is one candidate slot produced by a schedule
// generator. Capacity is at least 1.
type TimeslotWithCapacity struct {
	StartTime time.Time
	EndTime   time.Time
	Capacity  int
}

func (t TimeslotWithCapacity) Key() Key {
	return NewKey(t.StartTime, t.EndTime)
}
