package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is the common match target for every typed NotFound error.
var ErrNotFound = errors.New("not found")

type AssignmentNotFound struct {
	UserID       string
	AssignmentID string
}

func (e AssignmentNotFound) Error() string {
	return fmt.Sprintf("assignment %s not found for user %s", e.AssignmentID, e.UserID)
}

func (e AssignmentNotFound) Is(target error) bool { return target == ErrNotFound }

type ScheduleNotFound struct {
	ScheduleID string
}

func (e ScheduleNotFound) Error() string {
	return fmt.Sprintf("schedule %s not found", e.ScheduleID)
}

func (e ScheduleNotFound) Is(target error) bool { return target == ErrNotFound }

type SurveyNotFound struct {
	SurveyID string
}

func (e SurveyNotFound) Error() string {
	return fmt.Sprintf("survey %s not found", e.SurveyID)
}

func (e SurveyNotFound) Is(target error) bool { return target == ErrNotFound }

type GroupNotFound struct {
	GroupID string
}

func (e GroupNotFound) Error() string {
	return fmt.Sprintf("group %s not found", e.GroupID)
}

func (e GroupNotFound) Is(target error) bool { return target == ErrNotFound }

type UserNotFound struct {
	UserID string
}

func (e UserNotFound) Error() string {
	return fmt.Sprintf("user %s not found", e.UserID)
}

func (e UserNotFound) Is(target error) bool { return target == ErrNotFound }

// SubmissionTooLate is returned when answers arrive after the assignment's
// expiration. Distinct from NotFound so callers can respond differently.
type SubmissionTooLate struct {
	UserID       string
	AssignmentID string
	SubmittedAt  time.Time
	ExpiredAt    time.Time
}

func (e SubmissionTooLate) Error() string {
	return fmt.Sprintf("assignment %s for user %s submitted at %s after expiration %s",
		e.AssignmentID, e.UserID,
		e.SubmittedAt.Format(time.RFC3339), e.ExpiredAt.Format(time.RFC3339))
}
