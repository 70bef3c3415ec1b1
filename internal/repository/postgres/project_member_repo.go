package postgres

import (
	"context"
	"errors"

	"github.com/dvrhm/protrack/protrack-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProjectMemberRepository implements domain.ProjectMemberRepository using PostgreSQL
type ProjectMemberRepository struct {
	pool *pgxpool.Pool
}

// NewProjectMemberRepository creates a new ProjectMemberRepository
func NewProjectMemberRepository(pool *pgxpool.Pool) *ProjectMemberRepository {
	return &ProjectMemberRepository{pool: pool}
}

const memberSelectSQL = `
	SELECT m.id, m.project_id, m.user_id, m.role, m.assigned_at,
	       u.id, u.email, u.full_name, u.created_at
	FROM project_members m
	JOIN users u ON u.id = m.user_id`

// Create adds a membership row. The (project_id, user_id) unique constraint
// backs the one-membership-per-user rule.
func (r *ProjectMemberRepository) Create(member *domain.ProjectMember) (*domain.ProjectMember, error) {
	ctx := context.Background()

	var id uuid.UUID
	err := r.pool.QueryRow(ctx, `
		INSERT INTO project_members (project_id, user_id, role)
		VALUES ($1, $2, $3)
		RETURNING id`,
		member.ProjectID, member.UserID, textOrNil(member.Role)).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyMember
		}
		return nil, err
	}

	created, err := scanMember(r.pool.QueryRow(ctx, memberSelectSQL+` WHERE m.id = $1`, id))
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ListByProject retrieves a project's members in assignment order
func (r *ProjectMemberRepository) ListByProject(projectID uuid.UUID) ([]*domain.ProjectMember, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, memberSelectSQL+`
		WHERE m.project_id = $1
		ORDER BY m.assigned_at`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*domain.ProjectMember
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, rows.Err()
}

// GetByProjectAndUser retrieves a single membership
func (r *ProjectMemberRepository) GetByProjectAndUser(projectID, userID uuid.UUID) (*domain.ProjectMember, error) {
	ctx := context.Background()
	member, err := scanMember(r.pool.QueryRow(ctx, memberSelectSQL+`
		WHERE m.project_id = $1 AND m.user_id = $2`, projectID, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}
	return member, nil
}

// Delete removes a membership
func (r *ProjectMemberRepository) Delete(projectID, userID uuid.UUID) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM project_members WHERE project_id = $1 AND user_id = $2`,
		projectID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

func scanMember(row pgx.Row) (*domain.ProjectMember, error) {
	var (
		m             domain.ProjectMember
		u             domain.User
		role          pgtype.Text
		assignedAt    pgtype.Timestamptz
		userCreatedAt pgtype.Timestamptz
	)
	err := row.Scan(&m.ID, &m.ProjectID, &m.UserID, &role, &assignedAt,
		&u.ID, &u.Email, &u.FullName, &userCreatedAt)
	if err != nil {
		return nil, err
	}
	if role.Valid {
		m.Role = &role.String
	}
	m.AssignedAt = assignedAt.Time
	u.CreatedAt = userCreatedAt.Time
	m.User = &u
	return &m, nil
}
