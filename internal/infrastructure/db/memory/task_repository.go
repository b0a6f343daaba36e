package memory

import (
	"context"
	"sort"
	"time"

	"github.com/d1sgu1sed/DogCollars/internal/core/domain"
)

type TaskRepository struct {
	s *Store
}

func NewTaskRepository(s *Store) *TaskRepository {
	return &TaskRepository{s: s}
}

func (r *TaskRepository) Create(_ context.Context, task *domain.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.tasks[task.ID] = copyTask(task)
	return nil
}

// active must be called with the lock held.
func (r *TaskRepository) active(id string) (*domain.Task, error) {
	t, ok := r.s.tasks[id]
	if !ok || !t.IsActive {
		return nil, domain.ErrTaskNotFound
	}
	return t, nil
}

func (r *TaskRepository) GetByID(_ context.Context, id string) (*domain.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, err := r.active(id)
	if err != nil {
		return nil, err
	}
	return copyTask(t), nil
}

func (r *TaskRepository) FindByID(_ context.Context, id string) (*domain.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return copyTask(t), nil
}

func (r *TaskRepository) Update(_ context.Context, task *domain.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, err := r.active(task.ID)
	if err != nil {
		return err
	}
	t.Description = task.Description
	t.CreatedFor = task.CreatedFor
	t.UpdatedAt = task.UpdatedAt
	return nil
}

func (r *TaskRepository) Close(_ context.Context, id, closedBy string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, err := r.active(id)
	if err != nil {
		return err
	}
	t.IsActive = false
	t.ClosedBy = closedBy
	t.ClosedAt = &at
	t.UpdatedAt = at
	return nil
}

func (r *TaskRepository) Cancel(_ context.Context, id string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, err := r.active(id)
	if err != nil {
		return err
	}
	t.IsActive = false
	t.UpdatedAt = at
	return nil
}

func (r *TaskRepository) CancelForDog(_ context.Context, dogID string, at time.Time) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ids := []string{}
	for _, t := range r.s.tasks {
		if t.IsActive && t.CreatedFor == dogID {
			t.IsActive = false
			t.UpdatedAt = at
			ids = append(ids, t.ID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *TaskRepository) ListActiveForDog(_ context.Context, dogID string) ([]*domain.Task, error) {
	return r.filter(func(t *domain.Task) bool { return t.IsActive && t.CreatedFor == dogID }), nil
}

func (r *TaskRepository) ListActive(_ context.Context) ([]*domain.Task, error) {
	return r.filter(func(t *domain.Task) bool { return t.IsActive }), nil
}

func (r *TaskRepository) ListClosed(_ context.Context, closedBy string) ([]*domain.Task, error) {
	out := r.filter(func(t *domain.Task) bool {
		return t.Closed() && (closedBy == "" || t.ClosedBy == closedBy)
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].ClosedAt.After(*out[j].ClosedAt) })
	return out, nil
}

func (r *TaskRepository) filter(keep func(*domain.Task) bool) []*domain.Task {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []*domain.Task{}
	for _, t := range r.s.tasks {
		if keep(t) {
			out = append(out, copyTask(t))
		}
	}
	sortTasks(out)
	return out
}
