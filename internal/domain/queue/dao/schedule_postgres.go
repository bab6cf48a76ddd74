package dao

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sharmayn/autoposter/internal/domain/queue/entity"
)

// SchedulePostgres implements ScheduleRepository for PostgreSQL
type SchedulePostgres struct {
	pool *pgxpool.Pool
}

// NewSchedulePostgres creates a new PostgreSQL schedule repository
func NewSchedulePostgres(pool *pgxpool.Pool) *SchedulePostgres {
	return &SchedulePostgres{pool: pool}
}

// Insert adds a schedule entry; a (content_id, account_id) conflict is
// skipped and reported via the boolean return
func (r *SchedulePostgres) Insert(ctx context.Context, e *entity.ScheduleEntry) (bool, error) {
	query := `
		INSERT INTO schedule_entries (id, content_id, account_id, platform, scheduled_at, status, retry_count)
		VALUES ($1, $2, $3, $4, $5, $6, 0)
		ON CONFLICT (content_id, account_id) DO NOTHING
	`

	tag, err := r.pool.Exec(ctx, query,
		e.ID,
		e.ContentID,
		e.AccountID,
		e.Platform,
		e.ScheduledAt,
		entity.ScheduleStatusPending,
	)
	if err != nil {
		return false, fmt.Errorf("inserting schedule entry: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// GetByID retrieves a schedule entry by ID
func (r *SchedulePostgres) GetByID(ctx context.Context, id string) (*entity.ScheduleEntry, error) {
	query := `
		SELECT id, content_id, account_id, platform, scheduled_at, status, posted_at, retry_count, error_message
		FROM schedule_entries
		WHERE id = $1
	`

	entry, err := scanScheduleEntry(r.pool.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning schedule entry: %w", err)
	}

	return entry, nil
}

// NextDue retrieves the single earliest-due entry: pending, already due,
// under the retry ceiling, and owned by an enabled account
func (r *SchedulePostgres) NextDue(ctx context.Context, now time.Time, maxRetries int) (*entity.DueEntry, error) {
	query := dueEntryQuery + `
		WHERE se.status = $1
		  AND se.scheduled_at <= $2
		  AND se.retry_count < $3
		  AND a.enabled = TRUE
		ORDER BY se.scheduled_at ASC
		LIMIT 1
	`

	row := r.pool.QueryRow(ctx, query, entity.ScheduleStatusPending, now, maxRetries)

	entry, err := scanDueEntry(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning due entry: %w", err)
	}

	return entry, nil
}

// ListUpcoming retrieves pending entries for enabled accounts, earliest first
func (r *SchedulePostgres) ListUpcoming(ctx context.Context, limit int) ([]entity.DueEntry, error) {
	query := dueEntryQuery + `
		WHERE se.status = $1 AND a.enabled = TRUE
		ORDER BY se.scheduled_at ASC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, entity.ScheduleStatusPending, limit)
	if err != nil {
		return nil, fmt.Errorf("querying upcoming entries: %w", err)
	}
	defer rows.Close()

	var entries []entity.DueEntry
	for rows.Next() {
		entry, err := scanDueEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		entries = append(entries, *entry)
	}

	return entries, nil
}

// ListByContent retrieves all entries for one content item
func (r *SchedulePostgres) ListByContent(ctx context.Context, contentID string) ([]entity.ScheduleEntry, error) {
	query := `
		SELECT id, content_id, account_id, platform, scheduled_at, status, posted_at, retry_count, error_message
		FROM schedule_entries
		WHERE content_id = $1
		ORDER BY scheduled_at ASC
	`

	rows, err := r.pool.Query(ctx, query, contentID)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	var entries []entity.ScheduleEntry
	for rows.Next() {
		entry, err := scanScheduleEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		entries = append(entries, *entry)
	}

	return entries, nil
}

// MarkPosted records a successful post
func (r *SchedulePostgres) MarkPosted(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE schedule_entries
		SET status = $2, posted_at = $3
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, id, entity.ScheduleStatusPosted, at)
	if err != nil {
		return fmt.Errorf("marking posted: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrScheduleNotFound
	}

	return nil
}

// MarkFailed increments the retry count and stores the error message.
// Reaching the ceiling flips the entry to exhausted. The whole change is
// one statement so a lost connection can never commit half of it.
func (r *SchedulePostgres) MarkFailed(ctx context.Context, id string, errMsg string, maxRetries int) error {
	query := `
		UPDATE schedule_entries
		SET retry_count = retry_count + 1,
		    error_message = $2,
		    status = CASE WHEN retry_count + 1 >= $3 THEN $4 ELSE status END
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, id, errMsg, maxRetries, entity.ScheduleStatusExhausted)
	if err != nil {
		return fmt.Errorf("marking failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrScheduleNotFound
	}

	return nil
}

// CountIncomplete counts entries for a content item not yet posted
func (r *SchedulePostgres) CountIncomplete(ctx context.Context, contentID string) (int, error) {
	query := `
		SELECT COUNT(*) FROM schedule_entries
		WHERE content_id = $1 AND status != $2
	`

	var count int
	err := r.pool.QueryRow(ctx, query, contentID, entity.ScheduleStatusPosted).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting incomplete entries: %w", err)
	}

	return count, nil
}

// dueEntryQuery joins schedule entries with their content and account,
// the shape the dispatch loop and the upcoming report consume.
const dueEntryQuery = `
	SELECT se.id, se.content_id, se.account_id, se.platform, se.scheduled_at,
	       se.status, se.posted_at, se.retry_count, se.error_message,
	       ci.media_path, ci.title, ci.description, ci.link,
	       a.name, a.profile_id
	FROM schedule_entries se
	JOIN content_items ci ON se.content_id = ci.id
	JOIN accounts a ON se.account_id = a.id
`

func scanScheduleEntry(row rowScanner) (*entity.ScheduleEntry, error) {
	var e entity.ScheduleEntry
	var postedAt *time.Time
	var errorMessage *string

	err := row.Scan(
		&e.ID,
		&e.ContentID,
		&e.AccountID,
		&e.Platform,
		&e.ScheduledAt,
		&e.Status,
		&postedAt,
		&e.RetryCount,
		&errorMessage,
	)
	if err != nil {
		return nil, err
	}

	e.PostedAt = postedAt
	if errorMessage != nil {
		e.ErrorMessage = *errorMessage
	}

	return &e, nil
}

func scanDueEntry(row rowScanner) (*entity.DueEntry, error) {
	var e entity.DueEntry
	var postedAt *time.Time
	var errorMessage, description, link *string

	err := row.Scan(
		&e.ID,
		&e.ContentID,
		&e.AccountID,
		&e.Platform,
		&e.ScheduledAt,
		&e.Status,
		&postedAt,
		&e.RetryCount,
		&errorMessage,
		&e.MediaPath,
		&e.Title,
		&description,
		&link,
		&e.AccountName,
		&e.ProfileID,
	)
	if err != nil {
		return nil, err
	}

	e.PostedAt = postedAt
	if errorMessage != nil {
		e.ErrorMessage = *errorMessage
	}
	if description != nil {
		e.Description = *description
	}
	if link != nil {
		e.Link = *link
	}

	return &e, nil
}
