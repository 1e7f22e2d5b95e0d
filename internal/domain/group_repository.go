package domain

import "context"

type GroupRepository interface {
	GetGroup(ctx context.Context, id string) (*Group, error)
	ListGroups(ctx context.Context) ([]*Group, error)
	CreateGroup(ctx context.Context, group *Group) error
	RemoveGroup(ctx context.Context, id string) error
	SetUsers(ctx context.Context, groupID string, userIDs []string) error
}
