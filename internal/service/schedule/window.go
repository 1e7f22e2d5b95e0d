package schedule

import (
	"time"

	"github.com/studypulse/survey-scheduling/internal/domain"
)

// Interval is one candidate delivery window, inclusive on both ends.
type Interval struct {
	Start time.Time
	End   time.Time
}

var weekDays = []domain.Day{
	domain.Monday,
	domain.Tuesday,
	domain.Wednesday,
	domain.Thursday,
	domain.Friday,
	domain.Saturday,
	domain.Sunday,
}

// ExpandWindows produces the candidate intervals of the anchor week for the
// requested weekdays, clipped against the reference instant.
//
// The anchor week starts at the Monday at or before refTime's date (UTC).
// Days are normalized to calendar order, so the output is ordered by date
// and free of duplicates. Intervals fully before refTime are dropped; an
// interval straddling refTime has its start replaced by refTime, never its
// end. Ranges whose end precedes their start are kept literally; windows do
// not wrap across midnight.
func ExpandWindows(refTime time.Time, days []domain.Day, timeRange domain.TimeRange) []Interval {
	ref := refTime.UTC()
	monday := previousMonday(ref)

	requested := make(map[domain.Day]bool, len(days))
	for _, day := range days {
		requested[day] = true
	}

	intervals := make([]Interval, 0, len(days))
	for _, day := range weekDays {
		if !requested[day] {
			continue
		}
		date := monday.AddDate(0, 0, day.Offset())
		intervals = append(intervals, Interval{
			Start: timeRange.Start.At(date.Year(), date.Month(), date.Day()),
			End:   timeRange.End.At(date.Year(), date.Month(), date.Day()),
		})
	}

	return clipAfter(ref, intervals)
}

// previousMonday returns midnight UTC of the Monday at or before t's date.
func previousMonday(t time.Time) time.Time {
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	monday := t.AddDate(0, 0, -daysSinceMonday)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, time.UTC)
}

func clipAfter(ref time.Time, intervals []Interval) []Interval {
	clipped := make([]Interval, 0, len(intervals))
	for _, interval := range intervals {
		switch {
		case !interval.Start.Before(ref):
			clipped = append(clipped, interval)
		case !interval.End.Before(ref):
			clipped = append(clipped, Interval{Start: ref, End: interval.End})
		}
	}
	return clipped
}
