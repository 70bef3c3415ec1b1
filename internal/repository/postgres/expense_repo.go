package postgres

import (
	"context"
	"fmt"

	"github.com/dvrhm/protrack/protrack-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const expenseColumns = `id, project_id, amount, description, category, recorded_at, created_by_id, created_at, updated_at`

// recomputeSpentSQL resets a project's spent total to the sum of its current
// expense rows. Full re-aggregation keeps the total self-correcting; it runs
// inside the same transaction as the expense mutation, after the project row
// has been locked.
const recomputeSpentSQL = `
	UPDATE projects SET
		spent = COALESCE((SELECT SUM(amount) FROM expenses WHERE project_id = $1), 0),
		updated_at = now()
	WHERE id = $1`

// lockProjectSQL serializes expense mutations per project so two concurrent
// recomputes cannot commit a stale sum.
const lockProjectSQL = `SELECT id FROM projects WHERE id = $1 FOR UPDATE`

// ExpenseRepository implements domain.ExpenseRepository using PostgreSQL
type ExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates a new ExpenseRepository
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

// Create inserts an expense and recomputes the owning project's spent total
// in a single transaction
func (r *ExpenseRepository) Create(expense *domain.Expense) (*domain.Expense, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(expense.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var lockedID uuid.UUID
	if err := tx.QueryRow(ctx, lockProjectSQL, expense.ProjectID).Scan(&lockedID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrProjectNotFound
		}
		return nil, err
	}

	recordedAt := pgtype.Timestamptz{Time: expense.RecordedAt, Valid: true}

	row := tx.QueryRow(ctx, `
		INSERT INTO expenses (project_id, amount, description, category, recorded_at, created_by_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+expenseColumns,
		expense.ProjectID, amount, expense.Description, textOrNil(expense.Category),
		recordedAt, uuidOrNil(expense.CreatedByID))

	created, err := scanExpense(row)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, recomputeSpentSQL, expense.ProjectID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

// GetByID retrieves an expense by its ID
func (r *ExpenseRepository) GetByID(id uuid.UUID) (*domain.Expense, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, id)
	expense, err := scanExpense(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}
	return expense, nil
}

// Update applies the supplied fields and recomputes the owning project's
// spent total in a single transaction
func (r *ExpenseRepository) Update(id uuid.UUID, data *domain.UpdateExpenseData) (*domain.Expense, error) {
	ctx := context.Background()

	var amount pgtype.Numeric
	if data.Amount != nil {
		var err error
		amount, err = decimalToPgNumeric(*data.Amount)
		if err != nil {
			return nil, fmt.Errorf("invalid amount: %w", err)
		}
	}

	var recordedAt pgtype.Timestamptz
	if data.RecordedAt != nil {
		recordedAt.Time = *data.RecordedAt
		recordedAt.Valid = true
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	projectID, err := r.lockOwningProject(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx, `
		UPDATE expenses SET
			amount      = COALESCE($2, amount),
			description = COALESCE($3, description),
			category    = CASE WHEN $6 THEN NULL ELSE COALESCE($4, category) END,
			recorded_at = COALESCE($5, recorded_at),
			updated_at  = now()
		WHERE id = $1
		RETURNING `+expenseColumns,
		id, amount, textOrNil(data.Description), textOrNil(data.Category), recordedAt,
		data.ClearCategory)

	updated, err := scanExpense(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}

	if _, err := tx.Exec(ctx, recomputeSpentSQL, projectID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes an expense and recomputes the owning project's spent total
// in a single transaction
func (r *ExpenseRepository) Delete(id uuid.UUID) error {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	projectID, err := r.lockOwningProject(ctx, tx, id)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}

	if _, err := tx.Exec(ctx, recomputeSpentSQL, projectID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// lockOwningProject resolves the expense's project and takes the per-project
// row lock. Returns ErrExpenseNotFound if the expense does not exist.
func (r *ExpenseRepository) lockOwningProject(ctx context.Context, tx pgx.Tx, expenseID uuid.UUID) (uuid.UUID, error) {
	var projectID uuid.UUID
	err := tx.QueryRow(ctx, `SELECT project_id FROM expenses WHERE id = $1`, expenseID).Scan(&projectID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return uuid.Nil, domain.ErrExpenseNotFound
		}
		return uuid.Nil, err
	}

	var lockedID uuid.UUID
	if err := tx.QueryRow(ctx, lockProjectSQL, projectID).Scan(&lockedID); err != nil {
		return uuid.Nil, err
	}
	return projectID, nil
}

// ListByProject retrieves a project's expenses ordered by recorded_at descending
func (r *ExpenseRepository) ListByProject(projectID uuid.UUID, skip, limit int32) ([]*domain.Expense, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT `+expenseColumns+` FROM expenses
		WHERE project_id = $1
		ORDER BY recorded_at DESC
		OFFSET $2 LIMIT $3`, projectID, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []*domain.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	return expenses, rows.Err()
}

// CountByProject returns the number of expenses recorded against a project
func (r *ExpenseRepository) CountByProject(projectID uuid.UUID) (int64, error) {
	ctx := context.Background()
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM expenses WHERE project_id = $1`, projectID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func scanExpense(row pgx.Row) (*domain.Expense, error) {
	var (
		e           domain.Expense
		amount      pgtype.Numeric
		category    pgtype.Text
		recordedAt  pgtype.Timestamptz
		createdByID pgtype.UUID
		createdAt   pgtype.Timestamptz
		updatedAt   pgtype.Timestamptz
	)
	err := row.Scan(&e.ID, &e.ProjectID, &amount, &e.Description, &category,
		&recordedAt, &createdByID, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	e.Amount = pgNumericToDecimal(amount)
	e.RecordedAt = recordedAt.Time
	e.CreatedAt = createdAt.Time
	e.UpdatedAt = updatedAt.Time
	if category.Valid {
		e.Category = &category.String
	}
	e.CreatedByID = pgUUIDToPtr(createdByID)
	return &e, nil
}
