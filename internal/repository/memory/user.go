// Package memory provides a process-local UserStore for development and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/userkeeper/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

type entry struct {
	user model.User
	seq  uint64
}

// UserRepository keeps users in a map guarded by a single RWMutex. Email
// uniqueness is checked under the write lock, so concurrent creates with the
// same email admit exactly one.
type UserRepository struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*entry
	byEmail map[string]uuid.UUID
	seq     uint64
	now     func() time.Time
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[uuid.UUID]*entry),
		byEmail: make(map[string]uuid.UUID),
		now:     time.Now,
	}
}

func copyUser(u model.User) model.User {
	if u.LastLogin != nil {
		at := *u.LastLogin
		u.LastLogin = &at
	}
	return u
}

func (r *UserRepository) Create(_ context.Context, user model.User) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[user.Email]; ok {
		return model.User{}, model.ErrDuplicateEmail
	}

	if user.CreatedAt.IsZero() {
		user.CreatedAt = r.now().UTC()
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = user.CreatedAt
	}

	r.seq++
	stored := copyUser(user)
	r.byID[user.ID] = &entry{user: stored, seq: r.seq}
	r.byEmail[user.Email] = user.ID

	return copyUser(stored), nil
}

func (r *UserRepository) GetByID(_ context.Context, id uuid.UUID) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return copyUser(e.user), nil
}

func (r *UserRepository) GetActiveByEmail(_ context.Context, email string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	e := r.byID[id]
	if !e.user.IsActive {
		return model.User{}, model.ErrNotFound
	}
	return copyUser(e.user), nil
}

func (r *UserRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byEmail[email]
	return ok, nil
}

// ListActive orders by creation time descending. Records created at the same
// instant are ordered by insertion, newest first.
func (r *UserRepository) ListActive(_ context.Context, offset, limit int) ([]model.User, error) {
	r.mu.RLock()
	active := make([]*entry, 0, len(r.byID))
	for _, e := range r.byID {
		if e.user.IsActive {
			active = append(active, e)
		}
	}
	r.mu.RUnlock()

	sort.Slice(active, func(i, j int) bool {
		a, b := active[i], active[j]
		if !a.user.CreatedAt.Equal(b.user.CreatedAt) {
			return a.user.CreatedAt.After(b.user.CreatedAt)
		}
		return a.seq > b.seq
	})

	users := make([]model.User, 0, limit)
	if offset < 0 || offset >= len(active) {
		return users, nil
	}
	end := offset + limit
	if end > len(active) {
		end = len(active)
	}
	for _, e := range active[offset:end] {
		users = append(users, copyUser(e.user))
	}
	return users, nil
}

func (r *UserRepository) CountActive(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := 0
	for _, e := range r.byID {
		if e.user.IsActive {
			total++
		}
	}
	return total, nil
}

func (r *UserRepository) Update(_ context.Context, id uuid.UUID, name, email string) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[id]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	if owner, taken := r.byEmail[email]; taken && owner != id {
		return model.User{}, model.ErrDuplicateEmail
	}

	delete(r.byEmail, e.user.Email)
	r.byEmail[email] = id
	e.user.Name = name
	e.user.Email = email
	e.user.UpdatedAt = r.now().UTC()

	return copyUser(e.user), nil
}

func (r *UserRepository) UpdateLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[id]
	if !ok {
		return model.ErrNotFound
	}
	e.user.LastLogin = &at
	e.user.UpdatedAt = r.now().UTC()
	return nil
}

func (r *UserRepository) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[id]
	if !ok {
		return model.ErrNotFound
	}
	e.user.IsActive = false
	e.user.UpdatedAt = r.now().UTC()
	return nil
}

// Ping always succeeds.
func (r *UserRepository) Ping(context.Context) error {
	return nil
}
