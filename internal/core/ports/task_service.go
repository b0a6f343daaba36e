package ports

import (
	"context"

	"github.com/d1sgu1sed/DogCollars/internal/core/domain"
)

// CreateTaskInput carries all data needed to open a task for a dog.
type CreateTaskInput struct {
	Description    string
	CreatedFor     string
	IdempotencyKey string
}

// UpdateTaskInput carries the fields an active task may change. Nil fields
// are left untouched; activity and closer are never patchable.
type UpdateTaskInput struct {
	Description *string
	CreatedFor  *string
}

func (in UpdateTaskInput) Empty() bool {
	return in.Description == nil && in.CreatedFor == nil
}

// TaskService defines the task lifecycle use cases.
type TaskService interface {
	CreateTask(ctx context.Context, actor *domain.User, input CreateTaskInput) (*domain.Task, error)
	// CloseTask closes an active task on behalf of actor and returns its id.
	// Non-privileged actors must stand within the geofence of the dog.
	CloseTask(ctx context.Context, actor *domain.User, id string) (string, error)
	UpdateTask(ctx context.Context, actor *domain.User, id string, input UpdateTaskInput) (string, error)
	CancelTask(ctx context.Context, actor *domain.User, id string) (string, error)
	GetTask(ctx context.Context, id string) (*domain.Task, error)
	ListTasksForDog(ctx context.Context, dogID string) ([]*domain.Task, error)
	ListActiveTasks(ctx context.Context) ([]*domain.Task, error)
	ListCompletedTasks(ctx context.Context, closedBy string) ([]*domain.Task, error)
}
