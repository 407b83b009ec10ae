// Package groups stores the development backend's chat groups.
package groups

import (
	"context"
	"time"
)

// Group is a chat group. Members always includes OwnerID.
type Group struct {
	ID          string
	Name        string
	Description string
	OwnerID     string
	Members     []string
	CreatedAt   time.Time
}

type Repository interface {
	Create(ctx context.Context, group *Group) (*Group, error)
	ListByMember(ctx context.Context, userID string) ([]*Group, error)
}
