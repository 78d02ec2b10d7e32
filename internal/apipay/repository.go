package apipay

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var (
	ErrSettingsNotFound = errors.New("api settings not found")
	ErrTokenNotFound    = errors.New("api token not found")
)

const settingsColumns = "id, user_id, api_enabled, api_token, callback_domain, created_at, updated_at"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// GetOrCreate returns the user's settings row, inserting the default
// row on first access. The upsert keeps a concurrent first access from
// failing on the unique user_id constraint.
func (r *repository) GetOrCreate(ctx context.Context, userID string) (*Settings, error) {
	var settings Settings
	query := fmt.Sprintf(`
		INSERT INTO api_settings (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING %s`, settingsColumns)

	if err := r.db.GetContext(ctx, &settings, query, userID); err != nil {
		return nil, fmt.Errorf("failed to load api settings: %w", err)
	}
	return &settings, nil
}

func (r *repository) SetEnabled(ctx context.Context, userID string, enabled bool) (*Settings, error) {
	query := fmt.Sprintf(`
		UPDATE api_settings
		SET api_enabled = $1, updated_at = NOW()
		WHERE user_id = $2
		RETURNING %s`, settingsColumns)
	return r.updateOne(ctx, query, enabled, userID)
}

func (r *repository) SetToken(ctx context.Context, userID, token string) (*Settings, error) {
	query := fmt.Sprintf(`
		UPDATE api_settings
		SET api_token = $1, updated_at = NOW()
		WHERE user_id = $2
		RETURNING %s`, settingsColumns)
	return r.updateOne(ctx, query, token, userID)
}

// ClearToken revokes the token and disables the API in one statement,
// so a revoked token can never be left usable by a crash in between.
func (r *repository) ClearToken(ctx context.Context, userID string) (*Settings, error) {
	query := fmt.Sprintf(`
		UPDATE api_settings
		SET api_token = NULL, api_enabled = FALSE, updated_at = NOW()
		WHERE user_id = $1
		RETURNING %s`, settingsColumns)
	return r.updateOne(ctx, query, userID)
}

func (r *repository) UpdateDomain(ctx context.Context, userID, domain string) (*Settings, error) {
	query := fmt.Sprintf(`
		UPDATE api_settings
		SET callback_domain = $1, updated_at = NOW()
		WHERE user_id = $2
		RETURNING %s`, settingsColumns)
	return r.updateOne(ctx, query, domain, userID)
}

func (r *repository) FindByToken(ctx context.Context, token string) (*Settings, error) {
	var settings Settings
	query := fmt.Sprintf("SELECT %s FROM api_settings WHERE api_token = $1", settingsColumns)

	if err := r.db.GetContext(ctx, &settings, query, token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to look up api token: %w", err)
	}
	return &settings, nil
}

func (r *repository) TokenExists(ctx context.Context, token string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		"SELECT EXISTS (SELECT 1 FROM api_settings WHERE api_token = $1)", token)
	if err != nil {
		return false, fmt.Errorf("failed to check api token: %w", err)
	}
	return exists, nil
}

func (r *repository) updateOne(ctx context.Context, query string, args ...interface{}) (*Settings, error) {
	var settings Settings
	if err := r.db.GetContext(ctx, &settings, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSettingsNotFound
		}
		return nil, fmt.Errorf("failed to update api settings: %w", err)
	}
	return &settings, nil
}
