package domain

import "context"

type UserRepository interface {
	GetUser(ctx context.Context, id string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	Exists(ctx context.Context, id string) (bool, error)
	CreateUser(ctx context.Context, user *User) error
	AddDeviceRegistration(ctx context.Context, userID string, device Device) error
}
