package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/studypulse/survey-scheduling/internal/domain"
)

type storedGroup struct {
	Revision int      `bson:"revision"`
	ID       string   `bson:"_id"`
	Name     string   `bson:"name"`
	UserIDs  []string `bson:"user_ids"`
}

func (s *storedGroup) toDomain() *domain.Group {
	return &domain.Group{
		ID:      s.ID,
		Name:    s.Name,
		UserIDs: s.UserIDs,
	}
}

type groupRepository struct {
	collection *mongo.Collection
}

func NewGroupRepository(db *mongo.Database) domain.GroupRepository {
	return &groupRepository{
		collection: db.Collection("groups"),
	}
}

func (r *groupRepository) GetGroup(ctx context.Context, id string) (*domain.Group, error) {
	var stored storedGroup
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&stored)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.GroupNotFound{GroupID: id}
		}
		return nil, err
	}
	return stored.toDomain(), nil
}

func (r *groupRepository) ListGroups(ctx context.Context) ([]*domain.Group, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	groups := make([]*domain.Group, 0)
	for cursor.Next(ctx) {
		var stored storedGroup
		if err := cursor.Decode(&stored); err != nil {
			return nil, err
		}
		groups = append(groups, stored.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *groupRepository) CreateGroup(ctx context.Context, group *domain.Group) error {
	stored := storedGroup{
		Revision: 1,
		ID:       group.ID,
		Name:     group.Name,
		UserIDs:  group.UserIDs,
	}
	_, err := r.collection.InsertOne(ctx, stored)
	return err
}

func (r *groupRepository) RemoveGroup(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.GroupNotFound{GroupID: id}
	}
	return nil
}

func (r *groupRepository) SetUsers(ctx context.Context, groupID string, userIDs []string) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": groupID},
		bson.M{"$set": bson.M{"user_ids": userIDs}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.GroupNotFound{GroupID: groupID}
	}
	return nil
}
