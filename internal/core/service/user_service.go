package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/d1sgu1sed/DogCollars/internal/core/domain"
	"github.com/d1sgu1sed/DogCollars/internal/core/policy"
	"github.com/d1sgu1sed/DogCollars/internal/core/ports"
)

type UserService struct {
	users ports.UserRepository
	tx    ports.Transactor
	log   zerolog.Logger
}

func NewUserService(users ports.UserRepository, tx ports.Transactor, log zerolog.Logger) *UserService {
	return &UserService{users: users, tx: tx, log: log}
}

func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *UserService) UpdateUser(ctx context.Context, actor *domain.User, id string, in ports.UpdateUserInput) (string, error) {
	if in.Empty() {
		return "", domain.ErrEmptyPatch
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		target, err := s.modifiable(ctx, actor, id)
		if err != nil {
			return err
		}

		if in.Name != nil {
			target.Name = *in.Name
		}
		if in.Surname != nil {
			target.Surname = *in.Surname
		}
		if in.Email != nil {
			target.Email = *in.Email
		}
		target.UpdatedAt = time.Now().UTC()

		if err := s.users.Update(ctx, target); err != nil {
			if errors.Is(err, domain.ErrUserExists) {
				return fmt.Errorf("%w: %q", domain.ErrUserExists, target.Email)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("update user: %w", err)
	}

	s.log.Info().Str("user_id", id).Str("actor_id", actor.ID).Msg("user updated")
	return id, nil
}

func (s *UserService) DeleteUser(ctx context.Context, actor *domain.User, id string) (string, error) {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.modifiable(ctx, actor, id); err != nil {
			return err
		}
		return s.users.Deactivate(ctx, id)
	})
	if err != nil {
		return "", fmt.Errorf("delete user: %w", err)
	}

	s.log.Info().Str("user_id", id).Str("actor_id", actor.ID).Msg("user deactivated")
	return id, nil
}

// UpdateLocation records where the actor currently stands.
func (s *UserService) UpdateLocation(ctx context.Context, actor *domain.User, loc domain.Coordinates) (*domain.User, error) {
	var updated *domain.User
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		self, err := s.users.GetByID(ctx, actor.ID)
		if err != nil {
			return err
		}
		self.Location = &loc
		self.UpdatedAt = time.Now().UTC()
		if err := s.users.Update(ctx, self); err != nil {
			return err
		}
		updated = self
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update location: %w", err)
	}
	return updated, nil
}

func (s *UserService) GrantAdmin(ctx context.Context, actor *domain.User, id string) (string, error) {
	return s.setAdmin(ctx, actor, id, true)
}

func (s *UserService) RevokeAdmin(ctx context.Context, actor *domain.User, id string) (string, error) {
	return s.setAdmin(ctx, actor, id, false)
}

func (s *UserService) setAdmin(ctx context.Context, actor *domain.User, id string, grant bool) (string, error) {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		target, err := s.users.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := policy.CanManagePrivileges(target, actor); err != nil {
			return err
		}

		if grant {
			target.Roles = target.Roles.With(domain.RoleAdmin)
		} else {
			target.Roles = target.Roles.Without(domain.RoleAdmin)
		}
		target.UpdatedAt = time.Now().UTC()
		return s.users.Update(ctx, target)
	})
	if err != nil {
		return "", fmt.Errorf("manage privileges: %w", err)
	}

	s.log.Info().Str("user_id", id).Str("actor_id", actor.ID).Bool("admin", grant).Msg("admin privilege changed")
	return id, nil
}

// modifiable loads the target user and checks that actor may change it.
func (s *UserService) modifiable(ctx context.Context, actor *domain.User, id string) (*domain.User, error) {
	target, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ok, err := policy.CanModifyUser(target, actor)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrForbidden
	}
	return target, nil
}
