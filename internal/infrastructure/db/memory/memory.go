// Package memory is an in-process storage backend. It backs local
// development runs and the end-to-end API tests; nothing is persisted.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/d1sgu1sed/DogCollars/internal/core/domain"
)

// Store holds every collection behind one lock.
type Store struct {
	mu    sync.RWMutex
	users map[string]*domain.User
	dogs  map[string]*domain.Dog
	tasks map[string]*domain.Task

	txMu sync.Mutex
}

func NewStore() *Store {
	return &Store{
		users: make(map[string]*domain.User),
		dogs:  make(map[string]*domain.Dog),
		tasks: make(map[string]*domain.Task),
	}
}

// Ping satisfies the readiness check.
func (s *Store) Ping(context.Context) error { return nil }

// Transactor serialises units of work. There is no rollback: a failed unit
// keeps whatever writes it made before failing.
type Transactor struct {
	store *Store
}

func NewTransactor(store *Store) *Transactor {
	return &Transactor{store: store}
}

func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.store.txMu.Lock()
	defer t.store.txMu.Unlock()
	return fn(ctx)
}

func copyUser(u *domain.User) *domain.User {
	c := *u
	c.Roles = append(domain.Roles(nil), u.Roles...)
	c.Location = copyCoords(u.Location)
	return &c
}

func copyDog(d *domain.Dog) *domain.Dog {
	c := *d
	c.Location = copyCoords(d.Location)
	return &c
}

func copyTask(t *domain.Task) *domain.Task {
	c := *t
	if t.ClosedAt != nil {
		at := *t.ClosedAt
		c.ClosedAt = &at
	}
	return &c
}

func copyCoords(p *domain.Coordinates) *domain.Coordinates {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

func sortTasks(tasks []*domain.Task) {
	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].ID < tasks[j].ID
		}
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})
}
