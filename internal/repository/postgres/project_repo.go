package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/dvrhm/protrack/protrack-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const projectColumns = `id, name, description, status, start_date, end_date, budget, spent, owner_id, created_at, updated_at`

// ProjectRepository implements domain.ProjectRepository using PostgreSQL
type ProjectRepository struct {
	pool *pgxpool.Pool
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(pool *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{pool: pool}
}

// Create creates a new project
func (r *ProjectRepository) Create(project *domain.Project) (*domain.Project, error) {
	ctx := context.Background()

	budget, err := decimalToPgNumeric(project.Budget)
	if err != nil {
		return nil, fmt.Errorf("invalid budget: %w", err)
	}

	var startDate, endDate pgtype.Date
	if project.StartDate != nil {
		startDate.Time = *project.StartDate
		startDate.Valid = true
	}
	if project.EndDate != nil {
		endDate.Time = *project.EndDate
		endDate.Valid = true
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO projects (name, description, status, start_date, end_date, budget, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+projectColumns,
		project.Name, textOrNil(project.Description), string(project.Status),
		startDate, endDate, budget, project.OwnerID)

	return scanProject(row)
}

// GetByID retrieves a project by its ID
func (r *ProjectRepository) GetByID(id uuid.UUID) (*domain.Project, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	project, err := scanProject(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrProjectNotFound
		}
		return nil, err
	}
	return project, nil
}

// List retrieves projects with an optional status filter and pagination
func (r *ProjectRepository) List(filters *domain.ProjectFilters) ([]*domain.Project, error) {
	ctx := context.Background()

	skip := int32(0)
	limit := int32(domain.DefaultListLimit)
	var status *domain.ProjectStatus
	if filters != nil {
		if filters.Skip > 0 {
			skip = filters.Skip
		}
		if filters.Limit > 0 {
			limit = filters.Limit
		}
		status = filters.Status
	}

	var (
		rows pgx.Rows
		err  error
	)
	if status != nil {
		rows, err = r.pool.Query(ctx, `
			SELECT `+projectColumns+` FROM projects
			WHERE status = $1
			ORDER BY created_at DESC
			OFFSET $2 LIMIT $3`, string(*status), skip, limit)
	} else {
		rows, err = r.pool.Query(ctx, `
			SELECT `+projectColumns+` FROM projects
			ORDER BY created_at DESC
			OFFSET $1 LIMIT $2`, skip, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectProjects(rows)
}

// Update applies the supplied fields to a project. The spent column is never
// written here; only the expense repository's recompute touches it.
func (r *ProjectRepository) Update(id uuid.UUID, data *domain.UpdateProjectData) (*domain.Project, error) {
	ctx := context.Background()

	var budget pgtype.Numeric
	if data.Budget != nil {
		var err error
		budget, err = decimalToPgNumeric(*data.Budget)
		if err != nil {
			return nil, fmt.Errorf("invalid budget: %w", err)
		}
	}

	var status pgtype.Text
	if data.Status != nil {
		status.String = string(*data.Status)
		status.Valid = true
	}

	var startDate, endDate pgtype.Date
	if data.StartDate != nil {
		startDate.Time = *data.StartDate
		startDate.Valid = true
	}
	if data.EndDate != nil {
		endDate.Time = *data.EndDate
		endDate.Valid = true
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE projects SET
			name        = COALESCE($2, name),
			description = COALESCE($3, description),
			status      = COALESCE($4, status),
			start_date  = COALESCE($5, start_date),
			end_date    = COALESCE($6, end_date),
			budget      = COALESCE($7, budget),
			updated_at  = now()
		WHERE id = $1
		RETURNING `+projectColumns,
		id, textOrNil(data.Name), textOrNil(data.Description), status, startDate, endDate, budget)

	project, err := scanProject(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrProjectNotFound
		}
		return nil, err
	}
	return project, nil
}

// Delete removes a project; tasks and expenses cascade via foreign keys
func (r *ProjectRepository) Delete(id uuid.UUID) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

// Count returns the total number of projects
func (r *ProjectRepository) Count() (int64, error) {
	ctx := context.Background()
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM projects`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus returns project counts grouped by status, zero-filled
func (r *ProjectRepository) CountByStatus() (*domain.ProjectStatusCounts, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM projects GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := &domain.ProjectStatusCounts{}
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		switch domain.ProjectStatus(status) {
		case domain.ProjectStatusPlanning:
			counts.Planning = count
		case domain.ProjectStatusInProgress:
			counts.InProgress = count
		case domain.ProjectStatusCompleted:
			counts.Completed = count
		case domain.ProjectStatusArchived:
			counts.Archived = count
		}
	}
	return counts, rows.Err()
}

// SumBudgets returns the summed budget and spent across all projects
func (r *ProjectRepository) SumBudgets() (*domain.BudgetTotals, error) {
	ctx := context.Background()
	var budget, spent pgtype.Numeric
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(budget), 0), COALESCE(SUM(spent), 0) FROM projects`).Scan(&budget, &spent)
	if err != nil {
		return nil, err
	}
	return &domain.BudgetTotals{
		TotalBudget: pgNumericToDecimal(budget),
		TotalSpent:  pgNumericToDecimal(spent),
	}, nil
}

// CountOverdue counts projects past their end date that are still planned or running
func (r *ProjectRepository) CountOverdue(today time.Time) (int64, error) {
	ctx := context.Background()
	var count int64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM projects
		WHERE end_date < $1 AND status IN ('planning', 'in_progress')`,
		pgtype.Date{Time: today, Valid: true}).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func scanProject(row pgx.Row) (*domain.Project, error) {
	var (
		p                  domain.Project
		description        pgtype.Text
		status             string
		startDate, endDate pgtype.Date
		budget, spent      pgtype.Numeric
		createdAt          pgtype.Timestamptz
		updatedAt          pgtype.Timestamptz
	)
	err := row.Scan(&p.ID, &p.Name, &description, &status, &startDate, &endDate,
		&budget, &spent, &p.OwnerID, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	p.Status = domain.ProjectStatus(status)
	p.Budget = pgNumericToDecimal(budget)
	p.Spent = pgNumericToDecimal(spent)
	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time
	if description.Valid {
		p.Description = &description.String
	}
	if startDate.Valid {
		t := startDate.Time
		p.StartDate = &t
	}
	if endDate.Valid {
		t := endDate.Time
		p.EndDate = &t
	}
	return &p, nil
}

func collectProjects(rows pgx.Rows) ([]*domain.Project, error) {
	var projects []*domain.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}
