package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dvrhm/protrack/protrack-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const auditLogColumns = `id, user_id, action_type, resource_type, resource_id, resource_name, details, timestamp, ip_address`

// AuditLogRepository implements domain.AuditLogRepository using PostgreSQL
type AuditLogRepository struct {
	pool *pgxpool.Pool
}

// NewAuditLogRepository creates a new AuditLogRepository
func NewAuditLogRepository(pool *pgxpool.Pool) *AuditLogRepository {
	return &AuditLogRepository{pool: pool}
}

// Insert appends an audit log entry
func (r *AuditLogRepository) Insert(entry *domain.AuditLog) (*domain.AuditLog, error) {
	ctx := context.Background()

	var details []byte
	if entry.Details != nil {
		var err error
		details, err = json.Marshal(entry.Details)
		if err != nil {
			return nil, fmt.Errorf("invalid details: %w", err)
		}
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO audit_logs (user_id, action_type, resource_type, resource_id, resource_name, details, ip_address)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+auditLogColumns,
		uuidOrNil(entry.UserID), entry.ActionType, entry.ResourceType,
		uuidOrNil(entry.ResourceID), textOrNil(entry.ResourceName), details, textOrNil(entry.IPAddress))

	return scanAuditLog(row)
}

// List retrieves audit log entries matching the filters, newest first, along
// with the total match count
func (r *AuditLogRepository) List(filters *domain.AuditLogFilters) ([]*domain.AuditLog, int64, error) {
	ctx := context.Background()

	where := make([]string, 0, 6)
	args := make([]any, 0, 6)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	skip := int32(0)
	limit := int32(domain.DefaultListLimit)
	if filters != nil {
		if filters.UserID != nil {
			where = append(where, "user_id = "+arg(*filters.UserID))
		}
		if filters.ActionType != nil {
			where = append(where, "action_type = "+arg(*filters.ActionType))
		}
		if filters.ResourceType != nil {
			where = append(where, "resource_type = "+arg(*filters.ResourceType))
		}
		if filters.ResourceID != nil {
			where = append(where, "resource_id = "+arg(*filters.ResourceID))
		}
		if filters.StartDate != nil {
			where = append(where, "timestamp >= "+arg(*filters.StartDate))
		}
		if filters.EndDate != nil {
			where = append(where, "timestamp <= "+arg(*filters.EndDate))
		}
		if filters.Skip > 0 {
			skip = filters.Skip
		}
		if filters.Limit > 0 {
			limit = filters.Limit
		}
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = ` WHERE ` + strings.Join(where, " AND ")
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM audit_logs`+whereSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + auditLogColumns + ` FROM audit_logs` + whereSQL +
		` ORDER BY timestamp DESC OFFSET ` + arg(skip) + ` LIMIT ` + arg(limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var logs []*domain.AuditLog
	for rows.Next() {
		entry, err := scanAuditLog(rows)
		if err != nil {
			return nil, 0, err
		}
		logs = append(logs, entry)
	}
	return logs, total, rows.Err()
}

func scanAuditLog(row pgx.Row) (*domain.AuditLog, error) {
	var (
		entry                domain.AuditLog
		userID, resourceID   pgtype.UUID
		resourceName, ipAddr pgtype.Text
		details              []byte
		timestamp            pgtype.Timestamptz
	)
	err := row.Scan(&entry.ID, &userID, &entry.ActionType, &entry.ResourceType,
		&resourceID, &resourceName, &details, &timestamp, &ipAddr)
	if err != nil {
		return nil, err
	}
	entry.UserID = pgUUIDToPtr(userID)
	entry.ResourceID = pgUUIDToPtr(resourceID)
	entry.Timestamp = timestamp.Time
	if resourceName.Valid {
		entry.ResourceName = &resourceName.String
	}
	if ipAddr.Valid {
		entry.IPAddress = &ipAddr.String
	}
	if len(details) > 0 {
		if err := json.Unmarshal(details, &entry.Details); err != nil {
			return nil, fmt.Errorf("invalid details payload: %w", err)
		}
	}
	return &entry, nil
}
