package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/studypulse/survey-scheduling/internal/domain"
)

type SurveyRepository struct {
	mu      sync.RWMutex
	surveys map[string]*domain.Survey
}

func NewSurveyRepository() *SurveyRepository {
	return &SurveyRepository{
		surveys: make(map[string]*domain.Survey),
	}
}

// AddSurvey seeds a survey. Not part of the domain contract; surveys are
// read-only to the scheduling core.
func (r *SurveyRepository) AddSurvey(survey *domain.Survey) {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *survey
	r.surveys[survey.ID] = &copied
}

func (r *SurveyRepository) GetSurvey(_ context.Context, id string) (*domain.Survey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	survey, ok := r.surveys[id]
	if !ok {
		return nil, domain.SurveyNotFound{SurveyID: id}
	}
	copied := *survey
	return &copied, nil
}

func (r *SurveyRepository) ListSurveys(_ context.Context) ([]*domain.Survey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	surveys := make([]*domain.Survey, 0, len(r.surveys))
	for _, survey := range r.surveys {
		copied := *survey
		surveys = append(surveys, &copied)
	}
	sort.Slice(surveys, func(i, j int) bool {
		return surveys[i].ID < surveys[j].ID
	})
	return surveys, nil
}
