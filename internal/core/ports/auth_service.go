package ports

import (
	"context"

	"github.com/d1sgu1sed/DogCollars/internal/core/domain"
)

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	Name     string
	Surname  string
	Email    string
	Password string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// EnsureSuperAdmin creates the superadmin account when no user holds
	// the given email yet.
	EnsureSuperAdmin(ctx context.Context, email, password string) error
}
