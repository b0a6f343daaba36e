package memory

import (
	"context"

	"github.com/d1sgu1sed/DogCollars/internal/core/domain"
)

type UserRepository struct {
	s *Store
}

func NewUserRepository(s *Store) *UserRepository {
	return &UserRepository{s: s}
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.emailTaken(user.Email, "") {
		return domain.ErrUserExists
	}
	r.s.users[user.ID] = copyUser(user)
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok || !u.IsActive {
		return nil, domain.ErrUserNotFound
	}
	return copyUser(u), nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email && u.IsActive {
			return copyUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) Update(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.users[user.ID]
	if !ok || !cur.IsActive {
		return domain.ErrUserNotFound
	}
	if r.emailTaken(user.Email, user.ID) {
		return domain.ErrUserExists
	}

	cur.Name = user.Name
	cur.Surname = user.Surname
	cur.Email = user.Email
	cur.Roles = append(domain.Roles(nil), user.Roles...)
	cur.Location = copyCoords(user.Location)
	cur.UpdatedAt = user.UpdatedAt
	return nil
}

func (r *UserRepository) Deactivate(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok || !u.IsActive {
		return domain.ErrUserNotFound
	}
	u.IsActive = false
	return nil
}

// emailTaken must be called with the lock held.
func (r *UserRepository) emailTaken(email, exceptID string) bool {
	for id, u := range r.s.users {
		if id != exceptID && u.Email == email {
			return true
		}
	}
	return false
}
