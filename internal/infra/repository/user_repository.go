package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/studypulse/survey-scheduling/internal/domain"
)

type storedUser struct {
	Revision          int            `bson:"revision"`
	ID                string         `bson:"_id"`
	EmailAddress      string         `bson:"email_address"`
	CreatedAt         time.Time      `bson:"created_at"`
	PhoneNumber       string         `bson:"phone_number,omitempty"`
	NotificationEmail string         `bson:"notification_email,omitempty"`
	Devices           []storedDevice `bson:"devices"`
}

type storedDevice struct {
	Token      string    `bson:"token"`
	OS         string    `bson:"os"`
	Version    string    `bson:"version"`
	Connection time.Time `bson:"connection"`
}

func storedFromUser(user *domain.User) storedUser {
	devices := make([]storedDevice, 0, len(user.NotificationInfo.Devices))
	for _, device := range user.NotificationInfo.Devices {
		devices = append(devices, storedDevice{
			Token:      device.Token,
			OS:         string(device.OS),
			Version:    device.Version,
			Connection: device.Connection,
		})
	}
	return storedUser{
		Revision:          1,
		ID:                user.ID,
		EmailAddress:      user.EmailAddress,
		CreatedAt:         user.CreatedAt,
		PhoneNumber:       user.NotificationInfo.PhoneNumber,
		NotificationEmail: user.NotificationInfo.NotificationEmail,
		Devices:           devices,
	}
}

func (s *storedUser) toDomain() *domain.User {
	devices := make([]domain.Device, 0, len(s.Devices))
	for _, device := range s.Devices {
		devices = append(devices, domain.Device{
			Token:      device.Token,
			OS:         domain.DeviceOS(device.OS),
			Version:    device.Version,
			Connection: device.Connection,
		})
	}
	return &domain.User{
		ID:           s.ID,
		EmailAddress: s.EmailAddress,
		CreatedAt:    s.CreatedAt,
		NotificationInfo: domain.UserNotificationInfo{
			PhoneNumber:       s.PhoneNumber,
			NotificationEmail: s.NotificationEmail,
			Devices:           devices,
		},
	}
}

type userRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) domain.UserRepository {
	return &userRepository{
		collection: db.Collection("users"),
	}
}

func (r *userRepository) GetUser(ctx context.Context, id string) (*domain.User, error) {
	var stored storedUser
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&stored)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.UserNotFound{UserID: id}
		}
		return nil, err
	}
	return stored.toDomain(), nil
}

func (r *userRepository) ListUsers(ctx context.Context) ([]*domain.User, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := make([]*domain.User, 0)
	for cursor.Next(ctx) {
		var stored storedUser
		if err := cursor.Decode(&stored); err != nil {
			return nil, err
		}
		users = append(users, stored.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) Exists(ctx context.Context, id string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) CreateUser(ctx context.Context, user *domain.User) error {
	_, err := r.collection.InsertOne(ctx, storedFromUser(user))
	return err
}

func (r *userRepository) AddDeviceRegistration(ctx context.Context, userID string, device domain.Device) error {
	stored := storedDevice{
		Token:      device.Token,
		OS:         string(device.OS),
		Version:    device.Version,
		Connection: device.Connection,
	}
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$push": bson.M{"devices": stored}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.UserNotFound{UserID: userID}
	}
	return nil
}
