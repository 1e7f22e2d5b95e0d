package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/studypulse/survey-scheduling/internal/domain"
)

type storedSchedule struct {
	Revision            int      `bson:"revision"`
	ID                  string   `bson:"_id"`
	SurveyID            string   `bson:"survey_id"`
	Active              bool     `bson:"active"`
	Days                []string `bson:"days"`
	StartTime           string   `bson:"start_time"`
	EndTime             string   `bson:"end_time"`
	UserIDs             []string `bson:"user_ids"`
	GroupIDs            []string `bson:"group_ids"`
	SameTimeForAllUsers bool     `bson:"same_time_for_all_users"`
}

func storedFromSchedule(schedule *domain.Schedule) storedSchedule {
	days := make([]string, 0, len(schedule.Days))
	for _, day := range schedule.Days {
		days = append(days, string(day))
	}
	return storedSchedule{
		Revision:            1,
		ID:                  schedule.ID,
		SurveyID:            schedule.SurveyID,
		Active:              schedule.Active,
		Days:                days,
		StartTime:           schedule.TimeRange.Start.String(),
		EndTime:             schedule.TimeRange.End.String(),
		UserIDs:             schedule.UserIDs,
		GroupIDs:            schedule.GroupIDs,
		SameTimeForAllUsers: schedule.SameTimeForAllUsers,
	}
}

func (s *storedSchedule) toDomain() (*domain.Schedule, error) {
	start, err := domain.ParseTimeOfDay(s.StartTime)
	if err != nil {
		return nil, ErrInvalidScheduleData
	}
	end, err := domain.ParseTimeOfDay(s.EndTime)
	if err != nil {
		return nil, ErrInvalidScheduleData
	}

	days := make([]domain.Day, 0, len(s.Days))
	for _, day := range s.Days {
		days = append(days, domain.Day(day))
	}

	return &domain.Schedule{
		ID:                  s.ID,
		SurveyID:            s.SurveyID,
		Active:              s.Active,
		Days:                days,
		TimeRange:           domain.TimeRange{Start: start, End: end},
		UserIDs:             s.UserIDs,
		GroupIDs:            s.GroupIDs,
		SameTimeForAllUsers: s.SameTimeForAllUsers,
	}, nil
}

type scheduleRepository struct {
	collection *mongo.Collection
}

func NewScheduleRepository(db *mongo.Database) domain.ScheduleRepository {
	return &scheduleRepository{
		collection: db.Collection("schedules"),
	}
}

func (r *scheduleRepository) GetSchedule(ctx context.Context, id string) (*domain.Schedule, error) {
	var stored storedSchedule
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&stored)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ScheduleNotFound{ScheduleID: id}
		}
		return nil, err
	}
	return stored.toDomain()
}

func (r *scheduleRepository) CreateSchedule(ctx context.Context, schedule *domain.Schedule) error {
	if err := schedule.TimeRange.Validate(); err != nil {
		return err
	}
	_, err := r.collection.InsertOne(ctx, storedFromSchedule(schedule))
	return err
}

func (r *scheduleRepository) DeleteSchedule(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ScheduleNotFound{ScheduleID: id}
	}
	return nil
}

func (r *scheduleRepository) ListSchedules(ctx context.Context) ([]*domain.Schedule, error) {
	return r.find(ctx, bson.M{})
}

func (r *scheduleRepository) ListActiveSchedules(ctx context.Context) ([]*domain.Schedule, error) {
	return r.find(ctx, bson.M{"active": true})
}

func (r *scheduleRepository) find(ctx context.Context, filter bson.M) ([]*domain.Schedule, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	schedules := make([]*domain.Schedule, 0)
	for cursor.Next(ctx) {
		var stored storedSchedule
		if err := cursor.Decode(&stored); err != nil {
			return nil, err
		}
		schedule, err := stored.toDomain()
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, schedule)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return schedules, nil
}
