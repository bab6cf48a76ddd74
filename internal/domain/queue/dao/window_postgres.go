package dao

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sharmayn/autoposter/internal/domain/queue/entity"
)

// WindowPostgres implements WindowRepository for PostgreSQL
type WindowPostgres struct {
	pool *pgxpool.Pool
}

// NewWindowPostgres creates a new PostgreSQL window repository
func NewWindowPostgres(pool *pgxpool.Pool) *WindowPostgres {
	return &WindowPostgres{pool: pool}
}

// EnsureDefaults seeds the stock posting windows, skipping platforms
// already configured
func (r *WindowPostgres) EnsureDefaults(ctx context.Context) error {
	query := `
		INSERT INTO platform_windows (platform, min_hour, max_hour, min_delay_minutes, max_delay_minutes, enabled)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (platform) DO NOTHING
	`

	for _, w := range entity.DefaultWindows() {
		_, err := r.pool.Exec(ctx, query,
			w.Platform, w.MinHour, w.MaxHour, w.MinDelayMinutes, w.MaxDelayMinutes, w.Enabled,
		)
		if err != nil {
			return fmt.Errorf("seeding window for %s: %w", w.Platform, err)
		}
	}

	return nil
}

// List retrieves every configured window
func (r *WindowPostgres) List(ctx context.Context) ([]entity.PlatformWindow, error) {
	query := `
		SELECT platform, min_hour, max_hour, min_delay_minutes, max_delay_minutes, enabled
		FROM platform_windows
		ORDER BY platform
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying windows: %w", err)
	}
	defer rows.Close()

	var windows []entity.PlatformWindow
	for rows.Next() {
		var w entity.PlatformWindow
		err := rows.Scan(&w.Platform, &w.MinHour, &w.MaxHour, &w.MinDelayMinutes, &w.MaxDelayMinutes, &w.Enabled)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		windows = append(windows, w)
	}

	return windows, nil
}

// Get retrieves the window for one platform
func (r *WindowPostgres) Get(ctx context.Context, platform entity.Platform) (*entity.PlatformWindow, error) {
	query := `
		SELECT platform, min_hour, max_hour, min_delay_minutes, max_delay_minutes, enabled
		FROM platform_windows
		WHERE platform = $1
	`

	var w entity.PlatformWindow
	err := r.pool.QueryRow(ctx, query, platform).Scan(
		&w.Platform, &w.MinHour, &w.MaxHour, &w.MinDelayMinutes, &w.MaxDelayMinutes, &w.Enabled,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning window: %w", err)
	}

	return &w, nil
}

// Update replaces the window policy for a platform
func (r *WindowPostgres) Update(ctx context.Context, w *entity.PlatformWindow) error {
	query := `
		UPDATE platform_windows
		SET min_hour = $2, max_hour = $3, min_delay_minutes = $4, max_delay_minutes = $5, enabled = $6
		WHERE platform = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		w.Platform, w.MinHour, w.MaxHour, w.MinDelayMinutes, w.MaxDelayMinutes, w.Enabled,
	)
	if err != nil {
		return fmt.Errorf("updating window: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrWindowNotFound
	}

	return nil
}
