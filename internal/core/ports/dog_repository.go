package ports

import (
	"context"

	"github.com/d1sgu1sed/DogCollars/internal/core/domain"
)

// DogRepository defines persistence operations for dogs.
type DogRepository interface {
	// Create inserts a new dog. Names are unique across active and
	// inactive dogs; a clash yields domain.ErrDogExists.
	Create(ctx context.Context, dog *domain.Dog) error
	// GetByID returns an active dog.
	GetByID(ctx context.Context, id string) (*domain.Dog, error)
	// FindByID returns the dog in any state, deactivated included.
	FindByID(ctx context.Context, id string) (*domain.Dog, error)
	GetByName(ctx context.Context, name string) (*domain.Dog, error)
	// Update overwrites name, gender, location and updated_at of an active dog.
	Update(ctx context.Context, dog *domain.Dog) error
	Deactivate(ctx context.Context, id string) error
}
