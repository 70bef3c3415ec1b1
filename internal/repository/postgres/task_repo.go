package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dvrhm/protrack/protrack-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const taskColumns = `id, project_id, name, description, status, priority, assignee_id, created_by_id, due_date, completed_at, created_at, updated_at`

const pendingStatusesSQL = `('todo', 'in_progress', 'in_review')`

// TaskRepository implements domain.TaskRepository using PostgreSQL
type TaskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

// Create creates a new task
func (r *TaskRepository) Create(task *domain.Task) (*domain.Task, error) {
	ctx := context.Background()

	var dueDate pgtype.Date
	if task.DueDate != nil {
		dueDate.Time = *task.DueDate
		dueDate.Valid = true
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO tasks (project_id, name, description, status, priority, assignee_id, created_by_id, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+taskColumns,
		task.ProjectID, task.Name, textOrNil(task.Description), string(task.Status),
		string(task.Priority), uuidOrNil(task.AssigneeID), uuidOrNil(task.CreatedByID), dueDate)

	return scanTask(row)
}

// GetByID retrieves a task by its ID
func (r *TaskRepository) GetByID(id uuid.UUID) (*domain.Task, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	task, err := scanTask(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

// List retrieves tasks matching the filters. The overdue filter is evaluated
// against the supplied date, not persisted state.
func (r *TaskRepository) List(filters *domain.TaskFilters, today time.Time) ([]*domain.Task, error) {
	ctx := context.Background()

	where := make([]string, 0, 4)
	args := make([]any, 0, 4)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	skip := int32(0)
	limit := int32(domain.DefaultListLimit)
	if filters != nil {
		if filters.ProjectID != nil {
			where = append(where, "project_id = "+arg(*filters.ProjectID))
		}
		if filters.AssigneeID != nil {
			where = append(where, "assignee_id = "+arg(*filters.AssigneeID))
		}
		if filters.Status != nil {
			where = append(where, "status = "+arg(string(*filters.Status)))
		}
		if filters.Overdue != nil {
			day := arg(pgtype.Date{Time: today, Valid: true})
			if *filters.Overdue {
				where = append(where, "due_date < "+day+" AND status IN "+pendingStatusesSQL)
			} else {
				where = append(where, "(due_date IS NULL OR due_date >= "+day+" OR status NOT IN "+pendingStatusesSQL+")")
			}
		}
		if filters.Skip > 0 {
			skip = filters.Skip
		}
		if filters.Limit > 0 {
			limit = filters.Limit
		}
	}

	query := `SELECT ` + taskColumns + ` FROM tasks`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC OFFSET ` + arg(skip) + ` LIMIT ` + arg(limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// Update applies the supplied fields to a task
func (r *TaskRepository) Update(id uuid.UUID, data *domain.UpdateTaskData) (*domain.Task, error) {
	ctx := context.Background()

	var status, priority pgtype.Text
	if data.Status != nil {
		status.String = string(*data.Status)
		status.Valid = true
	}
	if data.Priority != nil {
		priority.String = string(*data.Priority)
		priority.Valid = true
	}

	var dueDate pgtype.Date
	if data.DueDate != nil {
		dueDate.Time = *data.DueDate
		dueDate.Valid = true
	}

	var completedAt pgtype.Timestamptz
	if data.CompletedAt != nil {
		completedAt.Time = *data.CompletedAt
		completedAt.Valid = true
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE tasks SET
			name         = COALESCE($2, name),
			description  = COALESCE($3, description),
			status       = COALESCE($4, status),
			priority     = COALESCE($5, priority),
			assignee_id  = COALESCE($6, assignee_id),
			due_date     = COALESCE($7, due_date),
			completed_at = CASE WHEN $9 THEN NULL ELSE COALESCE($8, completed_at) END,
			updated_at   = now()
		WHERE id = $1
		RETURNING `+taskColumns,
		id, textOrNil(data.Name), textOrNil(data.Description), status, priority,
		uuidOrNil(data.AssigneeID), dueDate, completedAt, data.ClearCompletedAt)

	task, err := scanTask(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

// Delete removes a task
func (r *TaskRepository) Delete(id uuid.UUID) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

// Count returns the total number of tasks
func (r *TaskRepository) Count() (int64, error) {
	ctx := context.Background()
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// CountOverdue counts tasks past their due date that are still open
func (r *TaskRepository) CountOverdue(today time.Time) (int64, error) {
	ctx := context.Background()
	var count int64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM tasks
		WHERE due_date < $1 AND status IN `+pendingStatusesSQL,
		pgtype.Date{Time: today, Valid: true}).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// CountPendingByAssignee counts a user's open tasks
func (r *TaskRepository) CountPendingByAssignee(assigneeID uuid.UUID) (int64, error) {
	ctx := context.Background()
	var count int64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM tasks
		WHERE assignee_id = $1 AND status IN `+pendingStatusesSQL, assigneeID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var (
		t                       domain.Task
		description             pgtype.Text
		status, priority        string
		assigneeID, createdByID pgtype.UUID
		dueDate                 pgtype.Date
		completedAt             pgtype.Timestamptz
		createdAt, updatedAt    pgtype.Timestamptz
	)
	err := row.Scan(&t.ID, &t.ProjectID, &t.Name, &description, &status, &priority,
		&assigneeID, &createdByID, &dueDate, &completedAt, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	t.Status = domain.TaskStatus(status)
	t.Priority = domain.TaskPriority(priority)
	t.CreatedAt = createdAt.Time
	t.UpdatedAt = updatedAt.Time
	if description.Valid {
		t.Description = &description.String
	}
	t.AssigneeID = pgUUIDToPtr(assigneeID)
	t.CreatedByID = pgUUIDToPtr(createdByID)
	if dueDate.Valid {
		d := dueDate.Time
		t.DueDate = &d
	}
	if completedAt.Valid {
		c := completedAt.Time
		t.CompletedAt = &c
	}
	return &t, nil
}
