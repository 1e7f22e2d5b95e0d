package domain

import "context"

// SurveyRepository is read-only for the scheduling core.
type SurveyRepository interface {
	GetSurvey(ctx context.Context, id string) (*Survey, error)
	ListSurveys(ctx context.Context) ([]*Survey, error)
}
