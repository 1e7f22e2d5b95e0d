package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/studypulse/survey-scheduling/internal/domain"
)

const defaultExpirationDelay = 1 * time.Hour

// AssignmentRepository is an in-memory implementation for tests and local
// runs. Assignments are stored per user.
type AssignmentRepository struct {
	mu              sync.RWMutex
	byUser          map[string]map[string]*domain.Assignment
	expirationDelay time.Duration
}

func NewAssignmentRepository(expirationDelay time.Duration) *AssignmentRepository {
	if expirationDelay <= 0 {
		expirationDelay = defaultExpirationDelay
	}
	return &AssignmentRepository{
		byUser:          make(map[string]map[string]*domain.Assignment),
		expirationDelay: expirationDelay,
	}
}

func (r *AssignmentRepository) GetAssignment(_ context.Context, userID, id string) (*domain.Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	assignment, ok := r.byUser[userID][id]
	if !ok {
		return nil, domain.AssignmentNotFound{UserID: userID, AssignmentID: id}
	}
	copied := *assignment
	return &copied, nil
}

func (r *AssignmentRepository) CreateAssignment(_ context.Context, userID, id, surveyID, surveyTitle string, createdAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.byUser[userID] == nil {
		r.byUser[userID] = make(map[string]*domain.Assignment)
	}
	r.byUser[userID][id] = &domain.Assignment{
		ID:        id,
		Title:     surveyTitle,
		UserID:    userID,
		SurveyID:  surveyID,
		CreatedAt: createdAt,
		ExpiredAt: createdAt.Add(r.expirationDelay),
	}
	return nil
}

func (r *AssignmentRepository) ListAssignments(_ context.Context, userID string, limit int) ([]*domain.Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	assignments := r.sortedByCreatedAtDesc(userID)
	if limit > 0 && len(assignments) > limit {
		assignments = assignments[:limit]
	}
	return assignments, nil
}

func (r *AssignmentRepository) CountAssignments(_ context.Context, userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.byUser[userID]), nil
}

func (r *AssignmentRepository) AppendNotified(_ context.Context, userID, id string, when time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	assignment, ok := r.byUser[userID][id]
	if !ok {
		return domain.AssignmentNotFound{UserID: userID, AssignmentID: id}
	}
	assignment.NotifiedAt = append(assignment.NotifiedAt, when)
	return nil
}

func (r *AssignmentRepository) AppendOpened(_ context.Context, userID, id string, when time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	assignment, ok := r.byUser[userID][id]
	if !ok {
		return domain.AssignmentNotFound{UserID: userID, AssignmentID: id}
	}
	assignment.OpenedAt = append(assignment.OpenedAt, when)
	return nil
}

func (r *AssignmentRepository) SubmitAssignment(_ context.Context, userID, id string, when time.Time, answers []domain.Answer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	assignment, ok := r.byUser[userID][id]
	if !ok {
		return domain.AssignmentNotFound{UserID: userID, AssignmentID: id}
	}
	if when.After(assignment.ExpiredAt) {
		return domain.SubmissionTooLate{
			UserID:       userID,
			AssignmentID: id,
			SubmittedAt:  when,
			ExpiredAt:    assignment.ExpiredAt,
		}
	}
	assignment.SubmittedAt = &when
	assignment.Answers = answers
	return nil
}

func (r *AssignmentRepository) ListPendingAssignments(_ context.Context, userID string, refTime time.Time) ([]*domain.Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	assignments := r.sortedByCreatedAtDesc(userID)
	pending := make([]*domain.Assignment, 0, len(assignments))
	for _, assignment := range assignments {
		if assignment.Pending(refTime) {
			pending = append(pending, assignment)
		}
	}
	return pending, nil
}

func (r *AssignmentRepository) NextPendingAssignment(_ context.Context, userID string, refTime time.Time) (*domain.Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	assignments := r.sortedByCreatedAtDesc(userID)
	var next *domain.Assignment
	for _, assignment := range assignments {
		if assignment.Pending(refTime) {
			next = assignment
		}
	}
	return next, nil
}

func (r *AssignmentRepository) CountNonAnsweredAssignments(_ context.Context, userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, assignment := range r.byUser[userID] {
		if !assignment.Submitted() {
			count++
		}
	}
	return count, nil
}

// sortedByCreatedAtDesc returns copies so callers never observe later
// mutations. Caller must hold at least a read lock.
func (r *AssignmentRepository) sortedByCreatedAtDesc(userID string) []*domain.Assignment {
	assignments := make([]*domain.Assignment, 0, len(r.byUser[userID]))
	for _, assignment := range r.byUser[userID] {
		copied := *assignment
		assignments = append(assignments, &copied)
	}
	sort.Slice(assignments, func(i, j int) bool {
		return assignments[i].CreatedAt.After(assignments[j].CreatedAt)
	})
	return assignments
}
