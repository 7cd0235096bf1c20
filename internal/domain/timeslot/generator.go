package timeslot

import (
	"sort"
	"time"

	"github.com/alysesue/bookings-api-sub001/internal/models"
)

// ScheduleGenerator turns weekday schedule rows into candidate timeslots for
// an arbitrary date range. Generate returns a fresh, restartable iterator
// every call; nothing is materialized up front.
type ScheduleGenerator struct {
	byWeekday map[int][]scheduleRow
	loc       *time.Location
}

// Clock fields are minutes since midnight so rows sort numerically even
// when the source strings are not zero-padded.
type scheduleRow struct {
	open       int
	close      int
	breakStart int
	breakEnd   int
	hasBreak   bool
	duration   time.Duration
	capacity   int
}

func NewScheduleGenerator(rows []models.WeekdaySchedule, loc *time.Location) *ScheduleGenerator {
	if loc == nil {
		loc = time.UTC
	}

	g := &ScheduleGenerator{
		byWeekday: make(map[int][]scheduleRow),
		loc:       loc,
	}

	for _, r := range rows {
		if !r.Active || r.SlotDurationMin <= 0 {
			continue
		}
		open, okOpen := parseHM(r.OpenTime)
		close, okClose := parseHM(r.CloseTime)
		if !okOpen || !okClose {
			continue
		}
		capacity := r.Capacity
		if capacity < 1 {
			capacity = 1
		}
		row := scheduleRow{
			open:     open,
			close:    close,
			duration: time.Duration(r.SlotDurationMin) * time.Minute,
			capacity: capacity,
		}
		bs, okBS := parseHM(r.BreakStart)
		be, okBE := parseHM(r.BreakEnd)
		if okBS && okBE {
			row.breakStart = bs
			row.breakEnd = be
			row.hasBreak = true
		}
		g.byWeekday[r.Weekday] = append(g.byWeekday[r.Weekday], row)
	}

	for wd := range g.byWeekday {
		rows := g.byWeekday[wd]
		sort.Slice(rows, func(i, j int) bool { return rows[i].open < rows[j].open })
	}

	return g
}

// Empty reports whether the generator has no usable schedule rows at all.
func (g *ScheduleGenerator) Empty() bool {
	return len(g.byWeekday) == 0
}

// Generate produces candidates whose bounds fall entirely inside
// [start, end), ordered by start time.
func (g *ScheduleGenerator) Generate(start, end time.Time) *SlotIterator {
	it := &SlotIterator{
		gen:        g,
		rangeStart: start,
		rangeEnd:   end,
	}

	if !start.Before(end) {
		it.done = true
		return it
	}

	day := start.In(g.loc)
	it.day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, g.loc)
	it.loadDay()
	return it
}

// SlotIterator is a lazy cursor over the generated candidate sequence.
type SlotIterator struct {
	gen        *ScheduleGenerator
	rangeStart time.Time
	rangeEnd   time.Time

	day    time.Time
	rows   []scheduleRow
	rowIdx int
	done   bool

	cursor     time.Time
	rowClose   time.Time
	breakStart time.Time
	breakEnd   time.Time
	hasBreak   bool
	duration   time.Duration
	capacity   int
}

// Next returns the next candidate, or false when the range is exhausted.
func (it *SlotIterator) Next() (TimeslotWithCapacity, bool) {
	for !it.done {
		if it.rowIdx < len(it.rows) {
			slotStart := it.cursor
			slotEnd := slotStart.Add(it.duration)

			if slotEnd.After(it.rowClose) {
				it.rowIdx++
				it.setupRow()
				continue
			}
			it.cursor = slotEnd

			if it.hasBreak && slotStart.Before(it.breakEnd) && slotEnd.After(it.breakStart) {
				continue
			}
			if slotStart.Before(it.rangeStart) || slotEnd.After(it.rangeEnd) {
				continue
			}

			return TimeslotWithCapacity{
				StartTime: slotStart,
				EndTime:   slotEnd,
				Capacity:  it.capacity,
			}, true
		}

		it.day = it.day.AddDate(0, 0, 1)
		if !it.day.Before(it.rangeEnd) {
			it.done = true
			break
		}
		it.loadDay()
	}

	return TimeslotWithCapacity{}, false
}

func (it *SlotIterator) loadDay() {
	it.rows = it.gen.byWeekday[int(it.day.Weekday())]
	it.rowIdx = 0
	it.setupRow()
}

func (it *SlotIterator) setupRow() {
	if it.rowIdx >= len(it.rows) {
		return
	}
	row := it.rows[it.rowIdx]

	it.cursor = it.atDay(row.open)
	it.rowClose = it.atDay(row.close)
	it.duration = row.duration
	it.capacity = row.capacity

	it.hasBreak = row.hasBreak
	if it.hasBreak {
		it.breakStart = it.atDay(row.breakStart)
		it.breakEnd = it.atDay(row.breakEnd)
	}
}

func (it *SlotIterator) atDay(minutes int) time.Time {
	return time.Date(
		it.day.Year(), it.day.Month(), it.day.Day(),
		minutes/60, minutes%60, 0, 0,
		it.gen.loc,
	)
}

func parseHM(hm string) (int, bool) {
	if hm == "" {
		return 0, false
	}
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}
