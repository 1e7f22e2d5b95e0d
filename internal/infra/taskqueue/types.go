package taskqueue

import (
	"regexp"
	"time"
)

type TaskKind string

const (
	TaskKindAssignment   TaskKind = "assignment"
	TaskKindNotification TaskKind = "notification"
)

// CallbackPath is the API path the queue posts the task payload to.
func (k TaskKind) CallbackPath() string {
	switch k {
	case TaskKindAssignment:
		return "/api/v1/tasks/assignments"
	case TaskKindNotification:
		return "/api/v1/tasks/notifications"
	}
	return ""
}

// Task is one unit of deferred work. Payload is marshaled to JSON and
// posted back to the callback path at ScheduleAt.
type Task struct {
	ID         string
	Kind       TaskKind
	Payload    any
	ScheduleAt time.Time
}

type TaskResponse struct {
	Name         string    `json:"name"`
	ScheduleTime time.Time `json:"schedule_time"`
	CreateTime   time.Time `json:"create_time"`
}

// AssignmentTaskPayload is the body of an assignment-creation callback.
type AssignmentTaskPayload struct {
	UserID   string    `json:"user_id"`
	SurveyID string    `json:"survey_id"`
	RefTime  time.Time `json:"ref_time"`
}

// NotificationTaskPayload is the body of a notification-delivery callback.
type NotificationTaskPayload struct {
	UserID       string     `json:"user_id"`
	AssignmentID string     `json:"assignment_id"`
	Kind         string     `json:"kind"`
	When         *time.Time `json:"when,omitempty"`
}

var taskIDSanitizer = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// SanitizeTaskID strips characters the queue rejects in task names.
func SanitizeTaskID(id string) string {
	return taskIDSanitizer.ReplaceAllString(id, "-")
}
