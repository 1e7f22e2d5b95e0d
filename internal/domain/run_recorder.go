package domain

import (
	"context"
	"time"
)

// ScheduleRunRecord captures the outcome of one schedule within one
// scheduling run.
type ScheduleRunRecord struct {
	RunID      string
	RunTime    time.Time
	ScheduleID string
	SurveyID   string
	Dispatched int
	Skipped    int
	Failed     int
	SameTime   bool
}

// RunRecorder exports scheduling-run outcomes to an analytics sink.
// Recording failures are operational noise, never scheduling failures.
type RunRecorder interface {
	RecordScheduleResults(ctx context.Context, records []ScheduleRunRecord) error
	Flush(ctx context.Context) error
	Close() error
}
