package repository

import (
	"context"
	"sync"
	"time"

	"github.com/Dan9191/eco-market/internal/common"
	"github.com/Dan9191/eco-market/internal/models"
)

// MemoryRepository is an in-process UserStore. Every operation holds the lock
// for its whole read-modify-write.
type MemoryRepository struct {
	mu         sync.RWMutex
	byID       map[string]*models.User
	byUsername map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:       make(map[string]*models.User),
		byUsername: make(map[string]string),
	}
}

func (r *MemoryRepository) CreateUser(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byUsername[user.Username]; taken {
		return common.ErrDuplicateUsername
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	stored := *user
	r.byID[user.ID] = &stored
	r.byUsername[user.Username] = user.ID
	return nil
}

func (r *MemoryRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u := *r.byID[id]
	return &u, nil
}

func (r *MemoryRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u := *stored
	return &u, nil
}

func (r *MemoryRepository) Update(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if upd.Username != nil && *upd.Username != stored.Username {
		if _, taken := r.byUsername[*upd.Username]; taken {
			return nil, common.ErrDuplicateUsername
		}
	}

	next := *stored
	upd.Apply(&next)
	if next.Username != stored.Username {
		delete(r.byUsername, stored.Username)
		r.byUsername[next.Username] = id
	}
	r.byID[id] = &next

	u := next
	return &u, nil
}

// Delete removes a user. Sessions pointing at it are left in place.
func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	delete(r.byUsername, stored.Username)
	delete(r.byID, id)
	return nil
}
