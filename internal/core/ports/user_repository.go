package ports

import (
	"context"

	"github.com/d1sgu1sed/DogCollars/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
// Lookups only return active users; a deactivated account reads as
// domain.ErrUserNotFound.
type UserRepository interface {
	// Create inserts a new user. A taken email yields domain.ErrUserExists.
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// Update overwrites the mutable fields (name, surname, email, roles,
	// location, updated_at) of an active user.
	Update(ctx context.Context, user *domain.User) error
	Deactivate(ctx context.Context, id string) error
}
