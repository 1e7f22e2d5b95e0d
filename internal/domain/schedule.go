package domain

import (
	"fmt"
	"time"
)

// Day is a scheduling weekday. Offsets are Monday-based to match the
// anchor-week expansion.
type Day string

const (
	Monday    Day = "monday"
	Tuesday   Day = "tuesday"
	Wednesday Day = "wednesday"
	Thursday  Day = "thursday"
	Friday    Day = "friday"
	Saturday  Day = "saturday"
	Sunday    Day = "sunday"
)

var dayOffsets = map[Day]int{
	Monday:    0,
	Tuesday:   1,
	Wednesday: 2,
	Thursday:  3,
	Friday:    4,
	Saturday:  5,
	Sunday:    6,
}

// Offset returns the number of days after Monday, or -1 for an unknown day.
func (d Day) Offset() int {
	offset, ok := dayOffsets[d]
	if !ok {
		return -1
	}
	return offset
}

func (d Day) String() string {
	return string(d)
}

// TimeOfDay is a wall-clock time expressed as whole seconds since midnight.
type TimeOfDay int

// ParseTimeOfDay parses "HH:MM:SS" (or "HH:MM") into a TimeOfDay.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var h, m, sec int
	if _, err := fmt.Sscanf(s, "%d:%d:%d", &h, &m, &sec); err != nil {
		if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
			return 0, fmt.Errorf("invalid time of day %q", s)
		}
		sec = 0
	}
	if h < 0 || h > 23 || m < 0 || m > 59 || sec < 0 || sec > 59 {
		return 0, fmt.Errorf("time of day %q out of range", s)
	}
	return TimeOfDay(h*3600 + m*60 + sec), nil
}

func NewTimeOfDay(hour, minute, second int) TimeOfDay {
	return TimeOfDay(hour*3600 + minute*60 + second)
}

func (t TimeOfDay) Hour() int   { return int(t) / 3600 }
func (t TimeOfDay) Minute() int { return (int(t) % 3600) / 60 }
func (t TimeOfDay) Second() int { return int(t) % 60 }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
}

// At combines the wall-clock time with a calendar date in UTC.
func (t TimeOfDay) At(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

// TimeRange is one daily window. Start must not be after End; windows never
// wrap across midnight.
type TimeRange struct {
	Start TimeOfDay
	End   TimeOfDay
}

func (r TimeRange) Validate() error {
	if r.Start > r.End {
		return fmt.Errorf("time range start %s after end %s", r.Start, r.End)
	}
	return nil
}

// Schedule is a recurrence rule that periodically generates assignments for
// its audience (explicit user ids plus group members).
type Schedule struct {
	ID                  string
	SurveyID            string
	Active              bool
	Days                []Day
	TimeRange           TimeRange
	UserIDs             []string
	GroupIDs            []string
	SameTimeForAllUsers bool
}
