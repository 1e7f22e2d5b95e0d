package domain

import "time"

type AnswerKind string

const (
	AnswerSingleChoice   AnswerKind = "single-choice"
	AnswerMultipleChoice AnswerKind = "multiple-choice"
	AnswerOpenEnded      AnswerKind = "open-ended"
)

// Answer is one submitted answer. Exactly the fields matching Kind are set;
// storage encoding (including format revisions) is a repository concern.
type Answer struct {
	Kind            AnswerKind
	SelectedIndex   *int
	SelectedIndices []int
	SpecifyAnswer   *string
	Value           *string
}

// Assignment is one instance of a survey assigned to one user.
//
// ExpiredAt is fixed at creation and never recomputed. NotifiedAt and
// OpenedAt are append-only. SubmittedAt is set at most once, together with
// Answers.
type Assignment struct {
	ID          string
	Title       string
	UserID      string
	SurveyID    string
	CreatedAt   time.Time
	ExpiredAt   time.Time
	NotifiedAt  []time.Time
	OpenedAt    []time.Time
	SubmittedAt *time.Time
	Answers     []Answer
}

// Submitted reports whether the assignment has received its final submission.
func (a *Assignment) Submitted() bool {
	return a.SubmittedAt != nil
}

// Pending reports whether the assignment can still be answered at ref.
func (a *Assignment) Pending(ref time.Time) bool {
	return !a.Submitted() && a.ExpiredAt.After(ref)
}
