package dao

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sharmayn/autoposter/internal/domain/queue/entity"
)

// ContentPostgres implements ContentRepository for PostgreSQL
type ContentPostgres struct {
	pool *pgxpool.Pool
}

// NewContentPostgres creates a new PostgreSQL content repository
func NewContentPostgres(pool *pgxpool.Pool) *ContentPostgres {
	return &ContentPostgres{pool: pool}
}

// Create inserts a new content item
func (r *ContentPostgres) Create(ctx context.Context, item *entity.ContentItem) error {
	query := `
		INSERT INTO content_items (id, media_path, title, description, link, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		item.ID,
		item.MediaPath,
		item.Title,
		nullable(item.Description),
		nullable(item.Link),
		item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting content item: %w", err)
	}

	return nil
}

// GetByID retrieves a content item by ID
func (r *ContentPostgres) GetByID(ctx context.Context, id string) (*entity.ContentItem, error) {
	query := `
		SELECT id, media_path, title, description, link, created_at, completed_at
		FROM content_items
		WHERE id = $1
	`

	row := r.pool.QueryRow(ctx, query, id)

	item, err := scanContentItem(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning content item: %w", err)
	}

	return item, nil
}

// List retrieves content items newest first
func (r *ContentPostgres) List(ctx context.Context, opts ListOptions) ([]entity.ContentItem, error) {
	query := `
		SELECT id, media_path, title, description, link, created_at, completed_at
		FROM content_items
		ORDER BY created_at DESC
	`
	args := []interface{}{}
	if opts.Limit > 0 {
		query += " LIMIT $1"
		args = append(args, opts.Limit)
		if opts.Offset > 0 {
			query += " OFFSET $2"
			args = append(args, opts.Offset)
		}
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying content items: %w", err)
	}
	defer rows.Close()

	return collectContentItems(rows)
}

// ListUnscheduled retrieves content items with no schedule entries yet
func (r *ContentPostgres) ListUnscheduled(ctx context.Context) ([]entity.ContentItem, error) {
	query := `
		SELECT ci.id, ci.media_path, ci.title, ci.description, ci.link, ci.created_at, ci.completed_at
		FROM content_items ci
		WHERE NOT EXISTS (
			SELECT 1 FROM schedule_entries se WHERE se.content_id = ci.id
		)
		ORDER BY ci.created_at ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying unscheduled items: %w", err)
	}
	defer rows.Close()

	return collectContentItems(rows)
}

// SetCompleted stamps the completion time for a content item
func (r *ContentPostgres) SetCompleted(ctx context.Context, id string, at time.Time) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE content_items SET completed_at = $2 WHERE id = $1 AND completed_at IS NULL",
		id, at,
	)
	if err != nil {
		return fmt.Errorf("setting completed: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContentItem(row rowScanner) (*entity.ContentItem, error) {
	var item entity.ContentItem
	var description, link *string
	var completedAt *time.Time

	err := row.Scan(
		&item.ID,
		&item.MediaPath,
		&item.Title,
		&description,
		&link,
		&item.CreatedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	if description != nil {
		item.Description = *description
	}
	if link != nil {
		item.Link = *link
	}
	item.CompletedAt = completedAt

	return &item, nil
}

func collectContentItems(rows pgx.Rows) ([]entity.ContentItem, error) {
	var items []entity.ContentItem
	for rows.Next() {
		item, err := scanContentItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		items = append(items, *item)
	}
	return items, nil
}

// nullable maps empty strings to SQL NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
