package devserver

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrijs2005/leadsession/internal/devserver/groups"
	"github.com/dmitrijs2005/leadsession/internal/devserver/users"
	"github.com/dmitrijs2005/leadsession/internal/logging"
)

const defaultGroupName = "Default"

// GroupService creates groups and answers membership questions. Every user
// also belongs to the home group named by users.User.GroupID.
type GroupService struct {
	groups groups.Repository
	users  users.Repository
	logger logging.Logger
}

func NewGroupService(g groups.Repository, u users.Repository, logger logging.Logger) *GroupService {
	return &GroupService{groups: g, users: u, logger: logger}
}

// Create stores a group owned by ownerID. The owner is always a member and
// every other member must exist.
func (s *GroupService) Create(ctx context.Context, ownerID, name, description string, members []string) (*groups.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	all := []string{ownerID}
	for _, id := range members {
		id = strings.TrimSpace(id)
		if id == "" || slices.Contains(all, id) {
			continue
		}
		if _, err := s.users.GetByID(ctx, id); err != nil {
			return nil, fmt.Errorf("%w: unknown member %s", ErrInvalidInput, id)
		}
		all = append(all, id)
	}

	g, err := s.groups.Create(ctx, &groups.Group{
		Name:        name,
		Description: strings.TrimSpace(description),
		OwnerID:     ownerID,
		Members:     all,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating group: %w", err)
	}
	s.logger.Info(ctx, "group created", "group_id", g.ID, "owner_id", ownerID, "members", len(all))
	return g, nil
}

// ForUser lists the home group of userID followed by the groups it joined.
func (s *GroupService) ForUser(ctx context.Context, userID string) ([]*groups.Group, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := []*groups.Group{}
	if u.GroupID != "" {
		out = append(out, &groups.Group{ID: u.GroupID, Name: defaultGroupName, Members: []string{u.ID}})
	}
	joined, err := s.groups.ListByMember(ctx, userID)
	if err != nil {
		return nil, err
	}
	return append(out, joined...), nil
}
