package postgres

import (
	"context"

	"github.com/dvrhm/protrack/protrack-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository implements domain.UserRepository using PostgreSQL
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	ctx := context.Background()
	user, err := scanUser(r.pool.QueryRow(ctx, `
		SELECT id, email, full_name, created_at FROM users WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// List retrieves all users ordered by name
func (r *UserRepository) List() ([]*domain.User, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT id, email, full_name, created_at FROM users ORDER BY full_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u         domain.User
		createdAt pgtype.Timestamptz
	)
	if err := row.Scan(&u.ID, &u.Email, &u.FullName, &createdAt); err != nil {
		return nil, err
	}
	u.CreatedAt = createdAt.Time
	return &u, nil
}
