package refreshtokens

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/leadsession/internal/common"
)

type MemoryRepository struct {
	mu     sync.Mutex
	tokens map[string]RefreshToken
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{tokens: map[string]RefreshToken{}}
}

func (r *MemoryRepository) Create(_ context.Context, userID string, token string, validity time.Duration) error {
	now := time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tokens[token]; ok {
		return common.ErrorAlreadyExists
	}
	r.tokens[token] = RefreshToken{UserID: userID, Token: token, Expires: now.Add(validity), CreatedAt: now}
	return nil
}

func (r *MemoryRepository) Find(_ context.Context, token string) (*RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &t, nil
}

func (r *MemoryRepository) Delete(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, token)
	return nil
}

func (r *MemoryRepository) DeleteByUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, t := range r.tokens {
		if t.UserID == userID {
			delete(r.tokens, k)
		}
	}
	return nil
}
