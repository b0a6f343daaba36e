package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/d1sgu1sed/DogCollars/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	clone := *u
	clone.Roles = append(domain.Roles(nil), u.Roles...)
	if u.Location != nil {
		loc := *u.Location
		clone.Location = &loc
	}
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrUserExists
		}
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok || !u.IsActive {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email && u.IsActive {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	cur, ok := r.users[user.ID]
	if !ok || !cur.IsActive {
		return domain.ErrUserNotFound
	}
	for id, u := range r.users {
		if id != user.ID && u.Email == user.Email {
			return domain.ErrUserExists
		}
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) Deactivate(_ context.Context, id string) error {
	u, ok := r.users[id]
	if !ok || !u.IsActive {
		return domain.ErrUserNotFound
	}
	u.IsActive = false
	return nil
}

// put stores a user directly, bypassing registration.
func (r *stubUserRepo) put(u *domain.User) *domain.User {
	u.IsActive = true
	r.users[u.ID] = cloneUser(u)
	return u
}

type stubDogRepo struct {
	dogs      map[string]*domain.Dog
	createErr error
}

func newStubDogRepo() *stubDogRepo {
	return &stubDogRepo{dogs: make(map[string]*domain.Dog)}
}

func cloneDog(d *domain.Dog) *domain.Dog {
	clone := *d
	if d.Location != nil {
		loc := *d.Location
		clone.Location = &loc
	}
	return &clone
}

func (r *stubDogRepo) Create(_ context.Context, dog *domain.Dog) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, d := range r.dogs {
		if d.Name == dog.Name {
			return domain.ErrDogExists
		}
	}
	r.dogs[dog.ID] = cloneDog(dog)
	return nil
}

func (r *stubDogRepo) GetByID(_ context.Context, id string) (*domain.Dog, error) {
	d, ok := r.dogs[id]
	if !ok || !d.IsActive {
		return nil, domain.ErrDogNotFound
	}
	return cloneDog(d), nil
}

func (r *stubDogRepo) FindByID(_ context.Context, id string) (*domain.Dog, error) {
	d, ok := r.dogs[id]
	if !ok {
		return nil, domain.ErrDogNotFound
	}
	return cloneDog(d), nil
}

func (r *stubDogRepo) GetByName(_ context.Context, name string) (*domain.Dog, error) {
	for _, d := range r.dogs {
		if d.Name == name && d.IsActive {
			return cloneDog(d), nil
		}
	}
	return nil, domain.ErrDogNotFound
}

func (r *stubDogRepo) Update(_ context.Context, dog *domain.Dog) error {
	cur, ok := r.dogs[dog.ID]
	if !ok || !cur.IsActive {
		return domain.ErrDogNotFound
	}
	for id, d := range r.dogs {
		if id != dog.ID && d.Name == dog.Name {
			return domain.ErrDogExists
		}
	}
	r.dogs[dog.ID] = cloneDog(dog)
	return nil
}

func (r *stubDogRepo) Deactivate(_ context.Context, id string) error {
	d, ok := r.dogs[id]
	if !ok || !d.IsActive {
		return domain.ErrDogNotFound
	}
	d.IsActive = false
	return nil
}

type stubTaskRepo struct {
	tasks map[string]*domain.Task
}

func newStubTaskRepo() *stubTaskRepo {
	return &stubTaskRepo{tasks: make(map[string]*domain.Task)}
}

func cloneTask(t *domain.Task) *domain.Task {
	clone := *t
	return &clone
}

func (r *stubTaskRepo) Create(_ context.Context, task *domain.Task) error {
	r.tasks[task.ID] = cloneTask(task)
	return nil
}

func (r *stubTaskRepo) active(id string) (*domain.Task, error) {
	t, ok := r.tasks[id]
	if !ok || !t.IsActive {
		return nil, domain.ErrTaskNotFound
	}
	return t, nil
}

func (r *stubTaskRepo) GetByID(_ context.Context, id string) (*domain.Task, error) {
	t, err := r.active(id)
	if err != nil {
		return nil, err
	}
	return cloneTask(t), nil
}

func (r *stubTaskRepo) FindByID(_ context.Context, id string) (*domain.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return cloneTask(t), nil
}

func (r *stubTaskRepo) Update(_ context.Context, task *domain.Task) error {
	t, err := r.active(task.ID)
	if err != nil {
		return err
	}
	t.Description = task.Description
	t.CreatedFor = task.CreatedFor
	t.UpdatedAt = task.UpdatedAt
	return nil
}

func (r *stubTaskRepo) Close(_ context.Context, id, closedBy string, at time.Time) error {
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

func (r *stubTaskRepo) Cancel(_ context.Context, id string, at time.Time) error {
	t, err := r.active(id)
	if err != nil {
		return err
	}
	t.IsActive = false
	t.UpdatedAt = at
	return nil
}

func (r *stubTaskRepo) CancelForDog(_ context.Context, dogID string, at time.Time) ([]string, error) {
	var ids []string
	for _, t := range r.tasks {
		if t.CreatedFor == dogID && t.IsActive {
			t.IsActive = false
			t.UpdatedAt = at
			ids = append(ids, t.ID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *stubTaskRepo) list(keep func(*domain.Task) bool) []*domain.Task {
	out := []*domain.Task{}
	for _, t := range r.tasks {
		if keep(t) {
			out = append(out, cloneTask(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *stubTaskRepo) ListActiveForDog(_ context.Context, dogID string) ([]*domain.Task, error) {
	return r.list(func(t *domain.Task) bool { return t.IsActive && t.CreatedFor == dogID }), nil
}

func (r *stubTaskRepo) ListActive(_ context.Context) ([]*domain.Task, error) {
	return r.list(func(t *domain.Task) bool { return t.IsActive }), nil
}

func (r *stubTaskRepo) ListClosed(_ context.Context, closedBy string) ([]*domain.Task, error) {
	return r.list(func(t *domain.Task) bool {
		return t.Closed() && (closedBy == "" || t.ClosedBy == closedBy)
	}), nil
}

// stubTx serialises units of work without any rollback.
type stubTx struct {
	mu    sync.Mutex
	calls int
}

func (tx *stubTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	tx.calls++
	return fn(ctx)
}

type stubIdempotency struct {
	keys      map[string]string
	lookupErr error
}

func newStubIdempotency() *stubIdempotency {
	return &stubIdempotency{keys: make(map[string]string)}
}

func (s *stubIdempotency) Lookup(_ context.Context, scope, key string) (string, bool, error) {
	if s.lookupErr != nil {
		return "", false, s.lookupErr
	}
	id, ok := s.keys[scope+"/"+key]
	return id, ok, nil
}

func (s *stubIdempotency) Remember(_ context.Context, scope, key, id string) error {
	if _, ok := s.keys[scope+"/"+key]; !ok {
		s.keys[scope+"/"+key] = id
	}
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

var (
	dogSpot  = domain.Coordinates{Lat: 55.7558, Lng: 37.6173}
	nearSpot = domain.Coordinates{Lat: 55.7562, Lng: 37.6173} // ~45 m north
	farSpot  = domain.Coordinates{Lat: 55.7658, Lng: 37.6173} // ~1.1 km north
)

func ptr[T any](v T) *T { return &v }

func plainUser(id string) *domain.User {
	return &domain.User{ID: id, Email: id + "@example.com", Roles: domain.NewRoles(domain.RoleUser), IsActive: true}
}

func adminUser(id string) *domain.User {
	u := plainUser(id)
	u.Roles = u.Roles.With(domain.RoleAdmin)
	return u
}

func superAdminUser(id string) *domain.User {
	u := plainUser(id)
	u.Roles = u.Roles.With(domain.RoleSuperAdmin)
	return u
}
