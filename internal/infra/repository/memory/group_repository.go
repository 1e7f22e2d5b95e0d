package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/studypulse/survey-scheduling/internal/domain"
)

type GroupRepository struct {
	mu     sync.RWMutex
	groups map[string]*domain.Group
}

func NewGroupRepository() *GroupRepository {
	return &GroupRepository{
		groups: make(map[string]*domain.Group),
	}
}

func (r *GroupRepository) GetGroup(_ context.Context, id string) (*domain.Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	group, ok := r.groups[id]
	if !ok {
		return nil, domain.GroupNotFound{GroupID: id}
	}
	copied := *group
	return &copied, nil
}

func (r *GroupRepository) ListGroups(_ context.Context) ([]*domain.Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	groups := make([]*domain.Group, 0, len(r.groups))
	for _, group := range r.groups {
		copied := *group
		groups = append(groups, &copied)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].ID < groups[j].ID
	})
	return groups, nil
}

func (r *GroupRepository) CreateGroup(_ context.Context, group *domain.Group) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *group
	r.groups[group.ID] = &copied
	return nil
}

func (r *GroupRepository) RemoveGroup(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.groups[id]; !ok {
		return domain.GroupNotFound{GroupID: id}
	}
	delete(r.groups, id)
	return nil
}

func (r *GroupRepository) SetUsers(_ context.Context, groupID string, userIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	group, ok := r.groups[groupID]
	if !ok {
		return domain.GroupNotFound{GroupID: groupID}
	}
	group.UserIDs = append([]string(nil), userIDs...)
	return nil
}
