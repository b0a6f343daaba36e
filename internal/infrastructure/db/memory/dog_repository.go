package memory

import (
	"context"

	"github.com/d1sgu1sed/DogCollars/internal/core/domain"
)

type DogRepository struct {
	s *Store
}

func NewDogRepository(s *Store) *DogRepository {
	return &DogRepository{s: s}
}

func (r *DogRepository) Create(_ context.Context, dog *domain.Dog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.nameTaken(dog.Name, "") {
		return domain.ErrDogExists
	}
	r.s.dogs[dog.ID] = copyDog(dog)
	return nil
}

func (r *DogRepository) GetByID(_ context.Context, id string) (*domain.Dog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	d, ok := r.s.dogs[id]
	if !ok || !d.IsActive {
		return nil, domain.ErrDogNotFound
	}
	return copyDog(d), nil
}

func (r *DogRepository) FindByID(_ context.Context, id string) (*domain.Dog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	d, ok := r.s.dogs[id]
	if !ok {
		return nil, domain.ErrDogNotFound
	}
	return copyDog(d), nil
}

func (r *DogRepository) GetByName(_ context.Context, name string) (*domain.Dog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, d := range r.s.dogs {
		if d.Name == name && d.IsActive {
			return copyDog(d), nil
		}
	}
	return nil, domain.ErrDogNotFound
}

func (r *DogRepository) Update(_ context.Context, dog *domain.Dog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.dogs[dog.ID]
	if !ok || !cur.IsActive {
		return domain.ErrDogNotFound
	}
	if r.nameTaken(dog.Name, dog.ID) {
		return domain.ErrDogExists
	}

	cur.Name = dog.Name
	cur.Gender = dog.Gender
	cur.Location = copyCoords(dog.Location)
	cur.UpdatedAt = dog.UpdatedAt
	return nil
}

func (r *DogRepository) Deactivate(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	d, ok := r.s.dogs[id]
	if !ok || !d.IsActive {
		return domain.ErrDogNotFound
	}
	d.IsActive = false
	return nil
}

// nameTaken checks active and inactive dogs alike. Lock must be held.
func (r *DogRepository) nameTaken(name, exceptID string) bool {
	for id, d := range r.s.dogs {
		if id != exceptID && d.Name == name {
			return true
		}
	}
	return false
}
