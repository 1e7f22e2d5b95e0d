package schedule

import (
	"testing"
	"time"

	"github.com/studypulse/survey-scheduling/internal/domain"
)

func TestExpandWindows(t *testing.T) {
	// 2026-01-05 is a Monday; refTime falls on the Wednesday of that week.
	refTime := time.Date(2026, 1, 7, 12, 0, 0, 0, time.UTC)
	timeRange := domain.TimeRange{
		Start: domain.NewTimeOfDay(10, 0, 0),
		End:   domain.NewTimeOfDay(14, 0, 0),
	}

	tests := []struct {
		name      string
		days      []domain.Day
		timeRange domain.TimeRange
		want      []Interval
	}{
		{
			name:      "day fully before reference is dropped",
			days:      []domain.Day{domain.Monday},
			timeRange: timeRange,
			want:      []Interval{},
		},
		{
			name:      "window straddling reference is clipped at start",
			days:      []domain.Day{domain.Wednesday},
			timeRange: timeRange,
			want: []Interval{
				{
					Start: time.Date(2026, 1, 7, 12, 0, 0, 0, time.UTC),
					End:   time.Date(2026, 1, 7, 14, 0, 0, 0, time.UTC),
				},
			},
		},
		{
			name:      "future day is kept whole",
			days:      []domain.Day{domain.Friday},
			timeRange: timeRange,
			want: []Interval{
				{
					Start: time.Date(2026, 1, 9, 10, 0, 0, 0, time.UTC),
					End:   time.Date(2026, 1, 9, 14, 0, 0, 0, time.UTC),
				},
			},
		},
		{
			name:      "days are normalized to calendar order",
			days:      []domain.Day{domain.Friday, domain.Monday, domain.Wednesday},
			timeRange: timeRange,
			want: []Interval{
				{
					Start: time.Date(2026, 1, 7, 12, 0, 0, 0, time.UTC),
					End:   time.Date(2026, 1, 7, 14, 0, 0, 0, time.UTC),
				},
				{
					Start: time.Date(2026, 1, 9, 10, 0, 0, 0, time.UTC),
					End:   time.Date(2026, 1, 9, 14, 0, 0, 0, time.UTC),
				},
			},
		},
		{
			name:      "duplicate days collapse to one interval",
			days:      []domain.Day{domain.Friday, domain.Friday},
			timeRange: timeRange,
			want: []Interval{
				{
					Start: time.Date(2026, 1, 9, 10, 0, 0, 0, time.UTC),
					End:   time.Date(2026, 1, 9, 14, 0, 0, 0, time.UTC),
				},
			},
		},
		{
			name: "window ending exactly at reference survives as a point",
			days: []domain.Day{domain.Wednesday},
			timeRange: domain.TimeRange{
				Start: domain.NewTimeOfDay(10, 0, 0),
				End:   domain.NewTimeOfDay(12, 0, 0),
			},
			want: []Interval{
				{
					Start: time.Date(2026, 1, 7, 12, 0, 0, 0, time.UTC),
					End:   time.Date(2026, 1, 7, 12, 0, 0, 0, time.UTC),
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExpandWindows(refTime, tt.days, tt.timeRange)

			if len(got) != len(tt.want) {
				t.Fatalf("expected %d intervals, got %d: %v", len(tt.want), len(got), got)
			}
			for i := range tt.want {
				if !got[i].Start.Equal(tt.want[i].Start) {
					t.Errorf("interval %d start: expected %v, got %v", i, tt.want[i].Start, got[i].Start)
				}
				if !got[i].End.Equal(tt.want[i].End) {
					t.Errorf("interval %d end: expected %v, got %v", i, tt.want[i].End, got[i].End)
				}
			}
		})
	}
}

func TestExpandWindowsAnchorsOnMonday(t *testing.T) {
	// Reference on a Sunday still expands within the week that started on
	// the previous Monday; Monday's window lies in the past and is dropped.
	refTime := time.Date(2026, 1, 11, 8, 0, 0, 0, time.UTC)
	timeRange := domain.TimeRange{
		Start: domain.NewTimeOfDay(9, 0, 0),
		End:   domain.NewTimeOfDay(17, 0, 0),
	}

	got := ExpandWindows(refTime, []domain.Day{domain.Monday, domain.Sunday}, timeRange)

	if len(got) != 1 {
		t.Fatalf("expected 1 interval, got %d: %v", len(got), got)
	}
	wantStart := time.Date(2026, 1, 11, 9, 0, 0, 0, time.UTC)
	if !got[0].Start.Equal(wantStart) {
		t.Errorf("expected start %v, got %v", wantStart, got[0].Start)
	}
}
