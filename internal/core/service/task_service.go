package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/d1sgu1sed/DogCollars/internal/core/domain"
	"github.com/d1sgu1sed/DogCollars/internal/core/policy"
	"github.com/d1sgu1sed/DogCollars/internal/core/ports"
)

type TaskService struct {
	tasks ports.TaskRepository
	dogs  ports.DogRepository
	tx    ports.Transactor
	idem  IdempotencyStore // optional
	log   zerolog.Logger
}

func NewTaskService(
	tasks ports.TaskRepository,
	dogs ports.DogRepository,
	tx ports.Transactor,
	idem IdempotencyStore,
	log zerolog.Logger,
) *TaskService {
	return &TaskService{tasks: tasks, dogs: dogs, tx: tx, idem: idem, log: log}
}

func (s *TaskService) CreateTask(ctx context.Context, actor *domain.User, in ports.CreateTaskInput) (*domain.Task, error) {
	scope := idempotencyScope("task", actor.ID)
	if replay := s.replay(ctx, scope, in.IdempotencyKey); replay != nil {
		return replay, nil
	}

	now := time.Now().UTC()
	task := &domain.Task{
		ID:          uuid.NewString(),
		Description: in.Description,
		CreatedFor:  in.CreatedFor,
		CreatedBy:   actor.ID,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		s.log.Error().Err(err).Str("dog_id", in.CreatedFor).Msg("failed to create task")
		return nil, fmt.Errorf("create task: %w", err)
	}

	if s.idem != nil && in.IdempotencyKey != "" {
		if err := s.idem.Remember(ctx, scope, in.IdempotencyKey, task.ID); err != nil {
			s.log.Warn().Err(err).Str("idempotency_key", in.IdempotencyKey).Msg("failed to store idempotency key")
		}
	}

	s.log.Info().Str("task_id", task.ID).Str("dog_id", task.CreatedFor).Str("actor_id", actor.ID).Msg("task created")
	return task, nil
}

func (s *TaskService) replay(ctx context.Context, scope, key string) *domain.Task {
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
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil
	}
	s.log.Info().Str("idempotency_key", key).Str("task_id", id).Msg("idempotent replay")
	return task
}

// CloseTask closes the task if actor passes the geofence. The write is
// conditional on the task still being active, so of two concurrent closes
// exactly one succeeds and the other gets domain.ErrTaskNotFound.
func (s *TaskService) CloseTask(ctx context.Context, actor *domain.User, id string) (string, error) {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		task, err := s.tasks.GetByID(ctx, id)
		if err != nil {
			return err
		}

		var dog *domain.Dog
		if !actor.Roles.IsPrivileged() {
			dog, err = s.dogs.GetByID(ctx, task.CreatedFor)
			if err != nil {
				return err
			}
		}
		if err := policy.MayClose(dog, actor); err != nil {
			s.log.Info().Str("task_id", id).Str("actor_id", actor.ID).Err(err).Msg("task close denied")
			return err
		}

		return s.tasks.Close(ctx, id, actor.ID, time.Now().UTC())
	})
	if err != nil {
		return "", fmt.Errorf("close task: %w", err)
	}

	s.log.Info().Str("task_id", id).Str("closed_by", actor.ID).Msg("task closed")
	return id, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, actor *domain.User, id string, in ports.UpdateTaskInput) (string, error) {
	if in.Empty() {
		return "", domain.ErrEmptyPatch
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		task, err := s.modifiable(ctx, actor, id)
		if err != nil {
			return err
		}
		if in.Description != nil {
			task.Description = *in.Description
		}
		if in.CreatedFor != nil {
			task.CreatedFor = *in.CreatedFor
		}
		task.UpdatedAt = time.Now().UTC()
		return s.tasks.Update(ctx, task)
	})
	if err != nil {
		return "", fmt.Errorf("update task: %w", err)
	}

	s.log.Info().Str("task_id", id).Str("actor_id", actor.ID).Msg("task updated")
	return id, nil
}

func (s *TaskService) CancelTask(ctx context.Context, actor *domain.User, id string) (string, error) {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.modifiable(ctx, actor, id); err != nil {
			return err
		}
		return s.tasks.Cancel(ctx, id, time.Now().UTC())
	})
	if err != nil {
		return "", fmt.Errorf("cancel task: %w", err)
	}

	s.log.Info().Str("task_id", id).Str("actor_id", actor.ID).Msg("task cancelled")
	return id, nil
}

// GetTask returns the task whatever its state, so a closer can see the
// outcome of their close.
func (s *TaskService) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return task, nil
}

func (s *TaskService) ListTasksForDog(ctx context.Context, dogID string) ([]*domain.Task, error) {
	tasks, err := s.tasks.ListActiveForDog(ctx, dogID)
	if err != nil {
		return nil, fmt.Errorf("list tasks for dog: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) ListActiveTasks(ctx context.Context) ([]*domain.Task, error) {
	tasks, err := s.tasks.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active tasks: %w", err)
	}
	return tasks, nil
}

// ListCompletedTasks returns closed tasks. An empty closedBy lists every
// closed task.
func (s *TaskService) ListCompletedTasks(ctx context.Context, closedBy string) ([]*domain.Task, error) {
	tasks, err := s.tasks.ListClosed(ctx, closedBy)
	if err != nil {
		return nil, fmt.Errorf("list completed tasks: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) modifiable(ctx context.Context, actor *domain.User, id string) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanModifyTask(task, actor) {
		return nil, domain.ErrForbidden
	}
	return task, nil
}
