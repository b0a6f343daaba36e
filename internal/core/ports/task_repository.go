package ports

import (
	"context"
	"time"

	"github.com/d1sgu1sed/DogCollars/internal/core/domain"
)

// TaskRepository defines persistence operations for tasks.
//
// Every write is conditional on the task still being active, so a write that
// loses a race against a close or a cancel reports domain.ErrTaskNotFound.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	// GetByID returns an active task.
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	// FindByID returns the task in any state, closed and cancelled included.
	FindByID(ctx context.Context, id string) (*domain.Task, error)
	// Update overwrites description, created_for and updated_at.
	Update(ctx context.Context, task *domain.Task) error
	// Close marks the task inactive and records who closed it and when.
	Close(ctx context.Context, id, closedBy string, at time.Time) error
	// Cancel marks the task inactive without a closer.
	Cancel(ctx context.Context, id string, at time.Time) error
	// CancelForDog cancels every active task of a dog and returns their ids.
	CancelForDog(ctx context.Context, dogID string, at time.Time) ([]string, error)
	ListActiveForDog(ctx context.Context, dogID string) ([]*domain.Task, error)
	ListActive(ctx context.Context) ([]*domain.Task, error)
	// ListClosed returns closed tasks, newest first. A non-empty closedBy
	// restricts the result to tasks closed by that user.
	ListClosed(ctx context.Context, closedBy string) ([]*domain.Task, error)
}
