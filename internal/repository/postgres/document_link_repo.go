package postgres

import (
	"context"

	"github.com/dvrhm/protrack/protrack-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const documentLinkColumns = `id, project_id, title, url, description, created_by_id, created_at, updated_at`

// DocumentLinkRepository implements domain.DocumentLinkRepository using PostgreSQL
type DocumentLinkRepository struct {
	pool *pgxpool.Pool
}

// NewDocumentLinkRepository creates a new DocumentLinkRepository
func NewDocumentLinkRepository(pool *pgxpool.Pool) *DocumentLinkRepository {
	return &DocumentLinkRepository{pool: pool}
}

// Create inserts a document link
func (r *DocumentLinkRepository) Create(link *domain.DocumentLink) (*domain.DocumentLink, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO document_links (project_id, title, url, description, created_by_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+documentLinkColumns,
		link.ProjectID, link.Title, link.URL, textOrNil(link.Description),
		uuidOrNil(link.CreatedByID))
	return scanDocumentLink(row)
}

// GetByID retrieves a document link by its ID
func (r *DocumentLinkRepository) GetByID(id uuid.UUID) (*domain.DocumentLink, error) {
	ctx := context.Background()
	link, err := scanDocumentLink(r.pool.QueryRow(ctx, `
		SELECT `+documentLinkColumns+` FROM document_links WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrDocumentLinkNotFound
		}
		return nil, err
	}
	return link, nil
}

// ListByProject retrieves a project's document links newest first
func (r *DocumentLinkRepository) ListByProject(projectID uuid.UUID) ([]*domain.DocumentLink, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT `+documentLinkColumns+` FROM document_links
		WHERE project_id = $1
		ORDER BY created_at DESC`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []*domain.DocumentLink
	for rows.Next() {
		link, err := scanDocumentLink(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

// Update applies the supplied fields to a document link
func (r *DocumentLinkRepository) Update(id uuid.UUID, data *domain.UpdateDocumentLinkData) (*domain.DocumentLink, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		UPDATE document_links SET
			title       = COALESCE($2, title),
			description = COALESCE($3, description),
			updated_at  = now()
		WHERE id = $1
		RETURNING `+documentLinkColumns,
		id, textOrNil(data.Title), textOrNil(data.Description))

	link, err := scanDocumentLink(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrDocumentLinkNotFound
		}
		return nil, err
	}
	return link, nil
}

// Delete removes a document link
func (r *DocumentLinkRepository) Delete(id uuid.UUID) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx, `DELETE FROM document_links WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDocumentLinkNotFound
	}
	return nil
}

func scanDocumentLink(row pgx.Row) (*domain.DocumentLink, error) {
	var (
		l           domain.DocumentLink
		description pgtype.Text
		createdByID pgtype.UUID
		createdAt   pgtype.Timestamptz
		updatedAt   pgtype.Timestamptz
	)
	err := row.Scan(&l.ID, &l.ProjectID, &l.Title, &l.URL, &description,
		&createdByID, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if description.Valid {
		l.Description = &description.String
	}
	l.CreatedByID = pgUUIDToPtr(createdByID)
	l.CreatedAt = createdAt.Time
	l.UpdatedAt = updatedAt.Time
	return &l, nil
}
