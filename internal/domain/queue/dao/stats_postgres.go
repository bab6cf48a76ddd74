package dao

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sharmayn/autoposter/internal/domain/queue/entity"
)

// StatsPostgres implements StatsRepository for PostgreSQL
type StatsPostgres struct {
	pool *pgxpool.Pool
}

// NewStatsPostgres creates a new PostgreSQL statistics repository
func NewStatsPostgres(pool *pgxpool.Pool) *StatsPostgres {
	return &StatsPostgres{pool: pool}
}

// GetStatistics retrieves queue-wide counters
func (r *StatsPostgres) GetStatistics(ctx context.Context) (*entity.QueueStatistics, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM content_items),
			(SELECT COUNT(*) FROM accounts WHERE enabled = TRUE),
			(SELECT COUNT(*) FROM schedule_entries WHERE status = 'posted'),
			(SELECT COUNT(*) FROM schedule_entries WHERE status = 'pending'),
			(SELECT COUNT(*) FROM schedule_entries WHERE status = 'exhausted'),
			(SELECT COUNT(*) FROM schedule_entries
			 WHERE status = 'pending' AND scheduled_at <= NOW() + INTERVAL '1 hour')
	`

	var stats entity.QueueStatistics
	err := r.pool.QueryRow(ctx, query).Scan(
		&stats.TotalItems,
		&stats.TotalAccounts,
		&stats.CompletedPosts,
		&stats.PendingPosts,
		&stats.ExhaustedPosts,
		&stats.DueNextHour,
	)
	if err != nil {
		return nil, fmt.Errorf("querying statistics: %w", err)
	}
	stats.PossiblePosts = stats.TotalItems * stats.TotalAccounts

	rows, err := r.pool.Query(ctx, `
		SELECT platform, COUNT(*)
		FROM accounts
		WHERE enabled = TRUE
		GROUP BY platform
		ORDER BY platform
	`)
	if err != nil {
		return nil, fmt.Errorf("querying accounts by platform: %w", err)
	}
	defer rows.Close()

	stats.AccountsByPlatform = make(map[entity.Platform]int)
	for rows.Next() {
		var platform entity.Platform
		var count int
		if err := rows.Scan(&platform, &count); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		stats.AccountsByPlatform[platform] = count
	}

	return &stats, nil
}

// ListProgress retrieves per-item completion from the queue_status view
func (r *StatsPostgres) ListProgress(ctx context.Context, opts ListOptions) ([]entity.ItemProgress, error) {
	query := `
		SELECT content_id, title, total_entries, posted_entries, complete
		FROM queue_status
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
		return nil, fmt.Errorf("querying queue status: %w", err)
	}
	defer rows.Close()

	var progress []entity.ItemProgress
	for rows.Next() {
		var p entity.ItemProgress
		if err := rows.Scan(&p.ContentID, &p.Title, &p.TotalEntries, &p.PostedEntries, &p.Complete); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		progress = append(progress, p)
	}

	return progress, nil
}
