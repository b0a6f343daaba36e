package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/d1sgu1sed/DogCollars/internal/core/domain"
)

const userColumns = `id, name, surname, email, password_hash, roles, is_active, latitude, longitude, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	lat, lng := latLng(user.Location)

	_, err := conn(ctx, r.pool).Exec(ctx, query,
		user.ID,
		user.Name,
		user.Surname,
		user.Email,
		user.PasswordHash,
		user.Roles.Strings(),
		user.IsActive,
		lat,
		lng,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if code, _ := pgError(err); code == codeUniqueViolation {
			return domain.ErrUserExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.queryOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 AND is_active`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.queryOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1 AND is_active`, email)
}

func (r *UserRepository) queryOne(ctx context.Context, query string, arg string) (*domain.User, error) {
	var (
		u        domain.User
		roles    []string
		lat, lng *float64
	)
	err := conn(ctx, r.pool).QueryRow(ctx, query, arg).Scan(
		&u.ID,
		&u.Name,
		&u.Surname,
		&u.Email,
		&u.PasswordHash,
		&roles,
		&u.IsActive,
		&lat,
		&lng,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if u.Roles, err = domain.ParseRoles(roles); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", u.ID, err)
	}
	u.Location = coords(lat, lng)
	return &u, nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET name = $2, surname = $3, email = $4, roles = $5, latitude = $6, longitude = $7, updated_at = $8
		WHERE id = $1 AND is_active
	`
	lat, lng := latLng(user.Location)

	tag, err := conn(ctx, r.pool).Exec(ctx, query,
		user.ID,
		user.Name,
		user.Surname,
		user.Email,
		user.Roles.Strings(),
		lat,
		lng,
		user.UpdatedAt,
	)
	if err != nil {
		if code, _ := pgError(err); code == codeUniqueViolation {
			return domain.ErrUserExists
		}
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Deactivate(ctx context.Context, id string) error {
	tag, err := conn(ctx, r.pool).Exec(ctx,
		`UPDATE users SET is_active = false, updated_at = NOW() WHERE id = $1 AND is_active`, id)
	if err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
