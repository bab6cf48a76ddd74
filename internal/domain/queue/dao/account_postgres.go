package dao

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sharmayn/autoposter/internal/domain/queue/entity"
)

// AccountPostgres implements AccountRepository for PostgreSQL
type AccountPostgres struct {
	pool *pgxpool.Pool
}

// NewAccountPostgres creates a new PostgreSQL account repository
func NewAccountPostgres(pool *pgxpool.Pool) *AccountPostgres {
	return &AccountPostgres{pool: pool}
}

// Upsert inserts an account; on a (platform, name) conflict the browser
// profile reference is updated instead
func (r *AccountPostgres) Upsert(ctx context.Context, acc *entity.Account) (string, error) {
	query := `
		INSERT INTO accounts (id, platform, name, profile_id, enabled, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (platform, name)
		DO UPDATE SET profile_id = EXCLUDED.profile_id
		RETURNING id
	`

	var id string
	err := r.pool.QueryRow(ctx, query,
		acc.ID,
		acc.Platform,
		acc.Name,
		acc.ProfileID,
		acc.Enabled,
		acc.CreatedAt,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("upserting account: %w", err)
	}

	return id, nil
}

// GetByID retrieves an account by ID
func (r *AccountPostgres) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	query := `
		SELECT id, platform, name, profile_id, enabled, created_at
		FROM accounts
		WHERE id = $1
	`

	var acc entity.Account
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&acc.ID,
		&acc.Platform,
		&acc.Name,
		&acc.ProfileID,
		&acc.Enabled,
		&acc.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning account: %w", err)
	}

	return &acc, nil
}

// List retrieves all accounts ordered by platform then name
func (r *AccountPostgres) List(ctx context.Context) ([]entity.Account, error) {
	query := `
		SELECT id, platform, name, profile_id, enabled, created_at
		FROM accounts
		ORDER BY platform, name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying accounts: %w", err)
	}
	defer rows.Close()

	var accounts []entity.Account
	for rows.Next() {
		var acc entity.Account
		err := rows.Scan(&acc.ID, &acc.Platform, &acc.Name, &acc.ProfileID, &acc.Enabled, &acc.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		accounts = append(accounts, acc)
	}

	return accounts, nil
}

// ListPostable retrieves enabled accounts whose platform window is enabled
func (r *AccountPostgres) ListPostable(ctx context.Context) ([]PostableAccount, error) {
	query := `
		SELECT a.id, a.platform, a.name, a.profile_id, a.enabled, a.created_at,
		       pw.min_hour, pw.max_hour, pw.min_delay_minutes, pw.max_delay_minutes, pw.enabled
		FROM accounts a
		JOIN platform_windows pw ON a.platform = pw.platform
		WHERE a.enabled = TRUE AND pw.enabled = TRUE
		ORDER BY a.platform, a.name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying postable accounts: %w", err)
	}
	defer rows.Close()

	var out []PostableAccount
	for rows.Next() {
		var pa PostableAccount
		err := rows.Scan(
			&pa.Account.ID,
			&pa.Account.Platform,
			&pa.Account.Name,
			&pa.Account.ProfileID,
			&pa.Account.Enabled,
			&pa.Account.CreatedAt,
			&pa.Window.MinHour,
			&pa.Window.MaxHour,
			&pa.Window.MinDelayMinutes,
			&pa.Window.MaxDelayMinutes,
			&pa.Window.Enabled,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		pa.Window.Platform = pa.Account.Platform
		out = append(out, pa)
	}

	return out, nil
}

// SetEnabled flips the enabled flag
func (r *AccountPostgres) SetEnabled(ctx context.Context, id string, enabled bool) (bool, error) {
	tag, err := r.pool.Exec(ctx, "UPDATE accounts SET enabled = $2 WHERE id = $1", id, enabled)
	if err != nil {
		return false, fmt.Errorf("updating account: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Delete removes an account
func (r *AccountPostgres) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, "DELETE FROM accounts WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("deleting account: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
