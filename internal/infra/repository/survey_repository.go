package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/studypulse/survey-scheduling/internal/domain"
)

type storedSurvey struct {
	Revision         int                    `bson:"revision"`
	ID               string                 `bson:"_id"`
	Title            string                 `bson:"title"`
	WelcomeMessage   string                 `bson:"welcome_message"`
	SubmitMessage    string                 `bson:"submit_message"`
	Questions        []storedQuestion       `bson:"questions"`
	NotificationInfo storedNotificationInfo `bson:"notification_info"`
}

type storedQuestion struct {
	Kind      string   `bson:"kind"`
	Message   string   `bson:"message"`
	Choices   []string `bson:"choices,omitempty"`
	MaxLength int      `bson:"max_length,omitempty"`
}

type storedNotificationInfo struct {
	Push  *storedChannelMessages `bson:"push,omitempty"`
	Email *storedChannelMessages `bson:"email,omitempty"`
	SMS   *storedChannelMessages `bson:"sms,omitempty"`
}

type storedChannelMessages struct {
	InitialTitle  string `bson:"initial_title"`
	InitialBody   string `bson:"initial_body"`
	ReminderTitle string `bson:"reminder_title"`
	ReminderBody  string `bson:"reminder_body"`
}

func (s *storedChannelMessages) toDomain() *domain.ChannelMessages {
	if s == nil {
		return nil
	}
	return &domain.ChannelMessages{
		Initial:  domain.NotificationMessage{Title: s.InitialTitle, Body: s.InitialBody},
		Reminder: domain.NotificationMessage{Title: s.ReminderTitle, Body: s.ReminderBody},
	}
}

func (s *storedSurvey) toDomain() *domain.Survey {
	questions := make([]domain.Question, 0, len(s.Questions))
	for _, q := range s.Questions {
		questions = append(questions, domain.Question{
			Kind:      domain.QuestionKind(q.Kind),
			Message:   q.Message,
			Choices:   q.Choices,
			MaxLength: q.MaxLength,
		})
	}
	return &domain.Survey{
		ID:             s.ID,
		Title:          s.Title,
		WelcomeMessage: s.WelcomeMessage,
		SubmitMessage:  s.SubmitMessage,
		Questions:      questions,
		NotificationInfo: domain.SurveyNotificationInfo{
			Push:  s.NotificationInfo.Push.toDomain(),
			Email: s.NotificationInfo.Email.toDomain(),
			SMS:   s.NotificationInfo.SMS.toDomain(),
		},
	}
}

type surveyRepository struct {
	collection *mongo.Collection
}

func NewSurveyRepository(db *mongo.Database) domain.SurveyRepository {
	return &surveyRepository{
		collection: db.Collection("surveys"),
	}
}

func (r *surveyRepository) GetSurvey(ctx context.Context, id string) (*domain.Survey, error) {
	var stored storedSurvey
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&stored)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.SurveyNotFound{SurveyID: id}
		}
		return nil, err
	}
	return stored.toDomain(), nil
}

func (r *surveyRepository) ListSurveys(ctx context.Context) ([]*domain.Survey, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	surveys := make([]*domain.Survey, 0)
	for cursor.Next(ctx) {
		var stored storedSurvey
		if err := cursor.Decode(&stored); err != nil {
			return nil, err
		}
		surveys = append(surveys, stored.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return surveys, nil
}
