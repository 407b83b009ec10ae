package users

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/leadsession/internal/common"
	"github.com/google/uuid"
)

// MemoryRepository keeps users in maps keyed by id and lowercased email.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]*User
	byEmail map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: map[string]*User{}, byEmail: map[string]string{}}
}

// Create assigns an id and stores a copy. A taken email yields
// common.ErrorAlreadyExists.
func (r *MemoryRepository) Create(_ context.Context, user *User) (*User, error) {
	key := strings.ToLower(user.Email)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[key]; ok {
		return nil, common.ErrorAlreadyExists
	}

	u := *user
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	r.byID[u.ID] = &u
	r.byEmail[key] = u.ID

	out := u
	return &out, nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *u
	return &out, nil
}

func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	r.mu.RLock()
	id, ok := r.byEmail[strings.ToLower(email)]
	r.mu.RUnlock()
	if !ok {
		return nil, common.ErrorNotFound
	}
	return r.GetByID(ctx, id)
}

// Update replaces the stored record with the same id. The email is fixed.
func (r *MemoryRepository) Update(_ context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.byID[user.ID]
	if !ok {
		return common.ErrorNotFound
	}
	u := *user
	u.Email = old.Email
	u.CreatedAt = old.CreatedAt
	r.byID[u.ID] = &u
	return nil
}
