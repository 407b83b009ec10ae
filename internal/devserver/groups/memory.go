package groups

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository keeps groups in creation order.
type MemoryRepository struct {
	mu     sync.RWMutex
	groups []*Group
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// Create assigns an id and stores a copy.
func (r *MemoryRepository) Create(_ context.Context, group *Group) (*Group, error) {
	g := clone(group)
	g.ID = uuid.NewString()
	g.CreatedAt = time.Now()

	r.mu.Lock()
	r.groups = append(r.groups, g)
	r.mu.Unlock()

	return clone(g), nil
}

// ListByMember returns copies of the groups userID belongs to, oldest first.
func (r *MemoryRepository) ListByMember(_ context.Context, userID string) ([]*Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*Group{}
	for _, g := range r.groups {
		if slices.Contains(g.Members, userID) {
			out = append(out, clone(g))
		}
	}
	return out, nil
}

func clone(g *Group) *Group {
	out := *g
	out.Members = slices.Clone(g.Members)
	return &out
}
