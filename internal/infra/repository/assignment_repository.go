package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/studypulse/survey-scheduling/internal/domain"
)

const defaultExpirationDelay = 1 * time.Hour

type storedAssignment struct {
	Revision    int         `bson:"revision"`
	ID          string      `bson:"_id"`
	Title       string      `bson:"title"`
	UserID      string      `bson:"user_id"`
	SurveyID    string      `bson:"survey_id"`
	CreatedAt   time.Time   `bson:"created_at"`
	ExpiredAt   time.Time   `bson:"expired_at"`
	NotifiedAt  []time.Time `bson:"notified_at"`
	OpenedAt    []time.Time `bson:"opened_at"`
	SubmittedAt *time.Time  `bson:"submitted_at"`
	Answers     string      `bson:"answers"`
}

func (s *storedAssignment) toDomain() (*domain.Assignment, error) {
	answers, err := decodeAnswers(s.Answers)
	if err != nil {
		return nil, err
	}
	return &domain.Assignment{
		ID:          s.ID,
		Title:       s.Title,
		UserID:      s.UserID,
		SurveyID:    s.SurveyID,
		CreatedAt:   s.CreatedAt,
		ExpiredAt:   s.ExpiredAt,
		NotifiedAt:  s.NotifiedAt,
		OpenedAt:    s.OpenedAt,
		SubmittedAt: s.SubmittedAt,
		Answers:     answers,
	}, nil
}

type assignmentRepository struct {
	collection      *mongo.Collection
	expirationDelay time.Duration
}

// NewAssignmentRepository returns an AssignmentRepository backed by the
// "assignments" collection. ExpiredAt is computed here, at creation, as
// createdAt plus the expiration delay.
func NewAssignmentRepository(db *mongo.Database, expirationDelay time.Duration) domain.AssignmentRepository {
	if expirationDelay <= 0 {
		expirationDelay = defaultExpirationDelay
	}
	return &assignmentRepository{
		collection:      db.Collection("assignments"),
		expirationDelay: expirationDelay,
	}
}

func (r *assignmentRepository) GetAssignment(ctx context.Context, userID, id string) (*domain.Assignment, error) {
	var stored storedAssignment
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&stored)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.AssignmentNotFound{UserID: userID, AssignmentID: id}
		}
		return nil, err
	}
	return stored.toDomain()
}

func (r *assignmentRepository) CreateAssignment(ctx context.Context, userID, id, surveyID, surveyTitle string, createdAt time.Time) error {
	stored := storedAssignment{
		Revision:   1,
		ID:         id,
		Title:      surveyTitle,
		UserID:     userID,
		SurveyID:   surveyID,
		CreatedAt:  createdAt,
		ExpiredAt:  createdAt.Add(r.expirationDelay),
		NotifiedAt: []time.Time{},
		OpenedAt:   []time.Time{},
	}
	_, err := r.collection.InsertOne(ctx, stored)
	return err
}

func (r *assignmentRepository) ListAssignments(ctx context.Context, userID string, limit int) ([]*domain.Assignment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}
	return r.find(ctx, bson.M{"user_id": userID}, opts)
}

func (r *assignmentRepository) CountAssignments(ctx context.Context, userID string) (int, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *assignmentRepository) AppendNotified(ctx context.Context, userID, id string, when time.Time) error {
	return r.push(ctx, userID, id, "notified_at", when)
}

func (r *assignmentRepository) AppendOpened(ctx context.Context, userID, id string, when time.Time) error {
	return r.push(ctx, userID, id, "opened_at", when)
}

func (r *assignmentRepository) SubmitAssignment(ctx context.Context, userID, id string, when time.Time, answers []domain.Answer) error {
	assignment, err := r.GetAssignment(ctx, userID, id)
	if err != nil {
		return err
	}

	if when.After(assignment.ExpiredAt) {
		return domain.SubmissionTooLate{
			UserID:       userID,
			AssignmentID: id,
			SubmittedAt:  when,
			ExpiredAt:    assignment.ExpiredAt,
		}
	}

	encoded, err := encodeAnswers(answers)
	if err != nil {
		return err
	}

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "user_id": userID},
		bson.M{"$set": bson.M{"submitted_at": when, "answers": encoded}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.AssignmentNotFound{UserID: userID, AssignmentID: id}
	}
	return nil
}

func (r *assignmentRepository) ListPendingAssignments(ctx context.Context, userID string, refTime time.Time) ([]*domain.Assignment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.find(ctx, r.pendingFilter(userID, refTime), opts)
}

func (r *assignmentRepository) NextPendingAssignment(ctx context.Context, userID string, refTime time.Time) (*domain.Assignment, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: 1}})

	var stored storedAssignment
	err := r.collection.FindOne(ctx, r.pendingFilter(userID, refTime), opts).Decode(&stored)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return stored.toDomain()
}

func (r *assignmentRepository) CountNonAnsweredAssignments(ctx context.Context, userID string) (int, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"user_id":      userID,
		"submitted_at": nil,
	})
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *assignmentRepository) pendingFilter(userID string, refTime time.Time) bson.M {
	return bson.M{
		"user_id":      userID,
		"submitted_at": nil,
		"expired_at":   bson.M{"$gt": refTime},
	}
}

func (r *assignmentRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Assignment, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	assignments := make([]*domain.Assignment, 0)
	for cursor.Next(ctx) {
		var stored storedAssignment
		if err := cursor.Decode(&stored); err != nil {
			return nil, err
		}
		assignment, err := stored.toDomain()
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, assignment)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *assignmentRepository) push(ctx context.Context, userID, id, field string, when time.Time) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "user_id": userID},
		bson.M{"$push": bson.M{field: when}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.AssignmentNotFound{UserID: userID, AssignmentID: id}
	}
	return nil
}
