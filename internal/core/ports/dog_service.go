package ports

import (
	"context"

	"github.com/d1sgu1sed/DogCollars/internal/core/domain"
)

// CreateDogInput carries all data needed to register a dog.
type CreateDogInput struct {
	Name           string
	Gender         domain.Gender
	Location       *domain.Coordinates // optional
	IdempotencyKey string
}

// UpdateDogInput carries the mutable dog fields. Nil fields are left untouched.
type UpdateDogInput struct {
	Name     *string
	Gender   *domain.Gender
	Location *domain.Coordinates
}

func (in UpdateDogInput) Empty() bool {
	return in.Name == nil && in.Gender == nil && in.Location == nil
}

// DeleteDogResult reports the dog that was deactivated and the tasks that
// were cancelled with it.
type DeleteDogResult struct {
	DogID            string
	CancelledTaskIDs []string
}

type DogService interface {
	CreateDog(ctx context.Context, actor *domain.User, input CreateDogInput) (*domain.Dog, error)
	GetDog(ctx context.Context, id string) (*domain.Dog, error)
	GetDogByName(ctx context.Context, name string) (*domain.Dog, error)
	UpdateDog(ctx context.Context, actor *domain.User, id string, input UpdateDogInput) (string, error)
	UpdateDogLocation(ctx context.Context, actor *domain.User, id string, loc domain.Coordinates) (*domain.Dog, error)
	DeleteDog(ctx context.Context, actor *domain.User, id string) (*DeleteDogResult, error)
}
