package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/d1sgu1sed/DogCollars/internal/core/domain"
	"github.com/d1sgu1sed/DogCollars/internal/core/policy"
	"github.com/d1sgu1sed/DogCollars/internal/core/ports"
)

type DogService struct {
	dogs  ports.DogRepository
	tasks ports.TaskRepository
	tx    ports.Transactor
	idem  IdempotencyStore // optional
	log   zerolog.Logger
}

func NewDogService(
	dogs ports.DogRepository,
	tasks ports.TaskRepository,
	tx ports.Transactor,
	idem IdempotencyStore,
	log zerolog.Logger,
) *DogService {
	return &DogService{dogs: dogs, tasks: tasks, tx: tx, idem: idem, log: log}
}

// CreateDog registers a dog owned by actor. If an idempotency key is provided
// and already seen, the previously created dog is returned without side effects.
func (s *DogService) CreateDog(ctx context.Context, actor *domain.User, in ports.CreateDogInput) (*domain.Dog, error) {
	scope := idempotencyScope("dog", actor.ID)
	if replay := s.replay(ctx, scope, in.IdempotencyKey); replay != nil {
		return replay, nil
	}

	now := time.Now().UTC()
	dog := &domain.Dog{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Gender:    in.Gender,
		CreatedBy: actor.ID,
		IsActive:  true,
		Location:  in.Location,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.dogs.Create(ctx, dog); err != nil {
		if errors.Is(err, domain.ErrDogExists) {
			return nil, fmt.Errorf("%w: %q", domain.ErrDogExists, in.Name)
		}
		s.log.Error().Err(err).Msg("failed to create dog")
		return nil, fmt.Errorf("create dog: %w", err)
	}

	if s.idem != nil && in.IdempotencyKey != "" {
		if err := s.idem.Remember(ctx, scope, in.IdempotencyKey, dog.ID); err != nil {
			s.log.Warn().Err(err).Str("idempotency_key", in.IdempotencyKey).Msg("failed to store idempotency key")
		}
	}

	s.log.Info().Str("dog_id", dog.ID).Str("actor_id", actor.ID).Msg("dog created")
	return dog, nil
}

func (s *DogService) replay(ctx context.Context, scope, key string) *domain.Dog {
	if s.idem == nil || key == "" {
		return nil
	}
	id, found, err := s.idem.Lookup(ctx, scope, key)
	if err != nil {
		s.log.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency lookup failed, creating anyway")
		return nil
	}
	if !found {
		return nil
	}
	dog, err := s.dogs.FindByID(ctx, id)
	if err != nil {
		return nil
	}
	s.log.Info().Str("idempotency_key", key).Str("dog_id", id).Msg("idempotent replay")
	return dog
}

func (s *DogService) GetDog(ctx context.Context, id string) (*domain.Dog, error) {
	dog, err := s.dogs.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get dog: %w", err)
	}
	return dog, nil
}

func (s *DogService) GetDogByName(ctx context.Context, name string) (*domain.Dog, error) {
	dog, err := s.dogs.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("get dog by name: %w", err)
	}
	return dog, nil
}

func (s *DogService) UpdateDog(ctx context.Context, actor *domain.User, id string, in ports.UpdateDogInput) (string, error) {
	if in.Empty() {
		return "", domain.ErrEmptyPatch
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		dog, err := s.modifiable(ctx, actor, id)
		if err != nil {
			return err
		}

		if in.Name != nil {
			dog.Name = *in.Name
		}
		if in.Gender != nil {
			dog.Gender = *in.Gender
		}
		if in.Location != nil {
			dog.Location = in.Location
		}
		dog.UpdatedAt = time.Now().UTC()

		if err := s.dogs.Update(ctx, dog); err != nil {
			if errors.Is(err, domain.ErrDogExists) {
				return fmt.Errorf("%w: %q", domain.ErrDogExists, dog.Name)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("update dog: %w", err)
	}

	s.log.Info().Str("dog_id", id).Str("actor_id", actor.ID).Msg("dog updated")
	return id, nil
}

func (s *DogService) UpdateDogLocation(ctx context.Context, actor *domain.User, id string, loc domain.Coordinates) (*domain.Dog, error) {
	var updated *domain.Dog
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		dog, err := s.modifiable(ctx, actor, id)
		if err != nil {
			return err
		}
		dog.Location = &loc
		dog.UpdatedAt = time.Now().UTC()
		if err := s.dogs.Update(ctx, dog); err != nil {
			return err
		}
		updated = dog
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update dog location: %w", err)
	}
	return updated, nil
}

// DeleteDog deactivates the dog and cancels all of its active tasks in the
// same unit of work.
func (s *DogService) DeleteDog(ctx context.Context, actor *domain.User, id string) (*ports.DeleteDogResult, error) {
	res := &ports.DeleteDogResult{DogID: id}
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.modifiable(ctx, actor, id); err != nil {
			return err
		}
		if err := s.dogs.Deactivate(ctx, id); err != nil {
			return err
		}
		cancelled, err := s.tasks.CancelForDog(ctx, id, time.Now().UTC())
		if err != nil {
			return err
		}
		res.CancelledTaskIDs = cancelled
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("delete dog: %w", err)
	}

	s.log.Info().
		Str("dog_id", id).
		Str("actor_id", actor.ID).
		Int("cancelled_tasks", len(res.CancelledTaskIDs)).
		Msg("dog deactivated")
	return res, nil
}

func (s *DogService) modifiable(ctx context.Context, actor *domain.User, id string) (*domain.Dog, error) {
	dog, err := s.dogs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanModifyDog(dog, actor) {
		return nil, domain.ErrForbidden
	}
	return dog, nil
}
