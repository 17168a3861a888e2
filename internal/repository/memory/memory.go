// Package memory holds map-backed repositories with the same conditional-update
// semantics as the postgres ones. Each repository locks per call, the way a single
// database statement is atomic.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"dreamKeys/domain"
)

func sortedIDs[T any](rows map[uint]T) []uint {
	ids := make([]uint, 0, len(rows))
	for id := range rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

type UserRepository struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]domain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: map[uint]domain.User{}}
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return domain.NewError(domain.ErrConflict, "user already exists")
		}
	}

	r.nextID++
	user.ID = r.nextID
	if user.Role == "" {
		user.Role = domain.RoleUser
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = *user
	return nil
}

func (r *UserRepository) FindByID(_ context.Context, id uint) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return domain.User{}, domain.NewError(domain.ErrNotFound, "user not found")
	}
	return u, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.NewError(domain.ErrNotFound, "user not found")
}

func (r *UserRepository) FindAll(_ context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := make([]domain.User, 0, len(r.users))
	for _, id := range sortedIDs(r.users) {
		users = append(users, r.users[id])
	}
	return users, nil
}

func (r *UserRepository) UpdateRole(_ context.Context, id uint, role string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok || u.Role == role {
		return 0, nil
	}
	u.Role = role
	u.UpdatedAt = time.Now()
	r.users[id] = u
	return 1, nil
}

func (r *UserRepository) SetFraud(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return domain.NewError(domain.ErrNotFound, "user not found")
	}
	u.IsFraud = true
	r.users[id] = u
	return nil
}

func (r *UserRepository) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return domain.NewError(domain.ErrNotFound, "user not found or already deleted")
	}
	delete(r.users, id)
	return nil
}
