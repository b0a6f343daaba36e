package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/d1sgu1sed/DogCollars/internal/core/domain"
)

const dogColumns = `id, name, gender, created_by, is_active, latitude, longitude, created_at, updated_at`

type DogRepository struct {
	pool *pgxpool.Pool
}

func NewDogRepository(pool *pgxpool.Pool) *DogRepository {
	return &DogRepository{pool: pool}
}

func (r *DogRepository) Create(ctx context.Context, dog *domain.Dog) error {
	query := `INSERT INTO dogs (` + dogColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	lat, lng := latLng(dog.Location)

	_, err := conn(ctx, r.pool).Exec(ctx, query,
		dog.ID,
		dog.Name,
		string(dog.Gender),
		dog.CreatedBy,
		dog.IsActive,
		lat,
		lng,
		dog.CreatedAt,
		dog.UpdatedAt,
	)
	if err != nil {
		switch code, constraint := pgError(err); code {
		case codeUniqueViolation:
			return domain.ErrDogExists
		case codeForeignKeyViolation:
			return foreignKeyError(constraint)
		}
		return fmt.Errorf("insert dog: %w", err)
	}
	return nil
}

func (r *DogRepository) GetByID(ctx context.Context, id string) (*domain.Dog, error) {
	return r.queryOne(ctx, `SELECT `+dogColumns+` FROM dogs WHERE id = $1 AND is_active`, id)
}

func (r *DogRepository) FindByID(ctx context.Context, id string) (*domain.Dog, error) {
	return r.queryOne(ctx, `SELECT `+dogColumns+` FROM dogs WHERE id = $1`, id)
}

func (r *DogRepository) GetByName(ctx context.Context, name string) (*domain.Dog, error) {
	return r.queryOne(ctx, `SELECT `+dogColumns+` FROM dogs WHERE name = $1 AND is_active`, name)
}

func (r *DogRepository) queryOne(ctx context.Context, query, arg string) (*domain.Dog, error) {
	var (
		d        domain.Dog
		gender   string
		lat, lng *float64
	)
	err := conn(ctx, r.pool).QueryRow(ctx, query, arg).Scan(
		&d.ID,
		&d.Name,
		&gender,
		&d.CreatedBy,
		&d.IsActive,
		&lat,
		&lng,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDogNotFound
		}
		return nil, fmt.Errorf("get dog: %w", err)
	}
	d.Gender = domain.Gender(gender)
	d.Location = coords(lat, lng)
	return &d, nil
}

func (r *DogRepository) Update(ctx context.Context, dog *domain.Dog) error {
	query := `
		UPDATE dogs
		SET name = $2, gender = $3, latitude = $4, longitude = $5, updated_at = $6
		WHERE id = $1 AND is_active
	`
	lat, lng := latLng(dog.Location)

	tag, err := conn(ctx, r.pool).Exec(ctx, query, dog.ID, dog.Name, string(dog.Gender), lat, lng, dog.UpdatedAt)
	if err != nil {
		if code, _ := pgError(err); code == codeUniqueViolation {
			return domain.ErrDogExists
		}
		return fmt.Errorf("update dog: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDogNotFound
	}
	return nil
}

func (r *DogRepository) Deactivate(ctx context.Context, id string) error {
	tag, err := conn(ctx, r.pool).Exec(ctx,
		`UPDATE dogs SET is_active = false, updated_at = NOW() WHERE id = $1 AND is_active`, id)
	if err != nil {
		return fmt.Errorf("deactivate dog: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDogNotFound
	}
	return nil
}
