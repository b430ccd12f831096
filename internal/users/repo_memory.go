package users

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"docuhub-backend/internal/shared/apperr"
)

// MemoryRepo is an in-memory Repo for development and tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	users map[string]User
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{users: make(map[string]User)}
}

func (r *MemoryRepo) Create(_ context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return fmt.Errorf("%w: email already registered", apperr.ErrDuplicate)
		}
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	r.users[u.ID] = *u
	return nil
}

func (r *MemoryRepo) GetByID(_ context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user not found", apperr.ErrNotFound)
	}
	return &u, nil
}

func (r *MemoryRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			found := u
			return &found, nil
		}
	}
	return nil, fmt.Errorf("%w: user not found", apperr.ErrNotFound)
}

func (r *MemoryRepo) UpdateProfile(_ context.Context, id string, in ProfileInput) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user not found", apperr.ErrNotFound)
	}
	if in.Name != nil {
		u.Name = *in.Name
	}
	if in.Department != nil {
		u.Department = *in.Department
	}
	if in.Position != nil {
		u.Position = *in.Position
	}
	r.users[id] = u
	return &u, nil
}

func (r *MemoryRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return fmt.Errorf("%w: user not found", apperr.ErrNotFound)
	}
	u.PasswordHash = passwordHash
	r.users[id] = u
	return nil
}

func (r *MemoryRepo) TouchLastLogin(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return fmt.Errorf("%w: user not found", apperr.ErrNotFound)
	}
	now := time.Now().UTC()
	u.LastLogin = &now
	r.users[id] = u
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
