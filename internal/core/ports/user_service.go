package ports

import (
	"context"

	"github.com/d1sgu1sed/DogCollars/internal/core/domain"
)

// UpdateUserInput carries profile changes. Nil fields are left untouched.
type UpdateUserInput struct {
	Name    *string
	Surname *string
	Email   *string
}

func (in UpdateUserInput) Empty() bool {
	return in.Name == nil && in.Surname == nil && in.Email == nil
}

// UserService defines use-case operations on user accounts. The actor is
// the authenticated user performing the call.
type UserService interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
	UpdateUser(ctx context.Context, actor *domain.User, id string, input UpdateUserInput) (string, error)
	DeleteUser(ctx context.Context, actor *domain.User, id string) (string, error)
	UpdateLocation(ctx context.Context, actor *domain.User, loc domain.Coordinates) (*domain.User, error)
	GrantAdmin(ctx context.Context, actor *domain.User, id string) (string, error)
	RevokeAdmin(ctx context.Context, actor *domain.User, id string) (string, error)
}
