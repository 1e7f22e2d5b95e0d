package schedule

import "time"

// ScheduleResult reports the outcome of one schedule within a run.
type ScheduleResult struct {
	ScheduleID string `json:"schedule_id"`
	SurveyID   string `json:"survey_id"`
	SameTime   bool   `json:"same_time"`
	Dispatched int    `json:"dispatched"`
	Skipped    int    `json:"skipped"`
	Failed     int    `json:"failed"`
	SkipReason string `json:"skip_reason,omitempty"`
}

// RunResult summarizes one scheduling run.
type RunResult struct {
	RunID      string           `json:"run_id"`
	RefTime    time.Time        `json:"ref_time"`
	Schedules  int              `json:"schedules"`
	Dispatched int              `json:"dispatched"`
	Skipped    int              `json:"skipped"`
	Failed     int              `json:"failed"`
	Results    []ScheduleResult `json:"results"`
}
