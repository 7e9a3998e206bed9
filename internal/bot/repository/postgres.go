package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/umanagarjuna/steam-bot/internal/bot/domain"
)

// Schema creates the preference table if it does not exist yet.
const Schema = `
CREATE TABLE IF NOT EXISTS user_preferences (
    user_id    BIGINT PRIMARY KEY,
    chat_info  JSONB NOT NULL DEFAULT '{}'::jsonb,
    settings   JSONB NOT NULL DEFAULT '{}'::jsonb,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

type PostgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create user_preferences: %w", err)
	}
	return nil
}

type preferenceRow struct {
	UserID    int64     `db:"user_id"`
	ChatInfo  []byte    `db:"chat_info"`
	Settings  []byte    `db:"settings"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r *PostgresRepository) Get(ctx context.Context, userID int64) (*domain.UserPreferences, error) {
	var row preferenceRow
	query := `
        SELECT user_id, chat_info, settings, updated_at
        FROM user_preferences
        WHERE user_id = $1`

	err := r.db.GetContext(ctx, &row, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}

	prefs := &domain.UserPreferences{UserID: row.UserID}
	if err := json.Unmarshal(row.ChatInfo, &prefs.ChatInfo); err != nil {
		return nil, fmt.Errorf("failed to unmarshal chat info: %w", err)
	}
	if err := json.Unmarshal(row.Settings, &prefs.Settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	return prefs, nil
}

func (r *PostgresRepository) Save(ctx context.Context, prefs *domain.UserPreferences) error {
	chatInfo, err := json.Marshal(prefs.ChatInfo)
	if err != nil {
		return fmt.Errorf("failed to marshal chat info: %w", err)
	}
	settings, err := json.Marshal(prefs.Settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	query := `
        INSERT INTO user_preferences (user_id, chat_info, settings)
        VALUES ($1, $2, $3)
        ON CONFLICT (user_id) DO UPDATE
        SET chat_info = EXCLUDED.chat_info,
            settings = EXCLUDED.settings,
            updated_at = NOW()`

	if _, err := r.db.ExecContext(ctx, query, prefs.UserID, chatInfo, settings); err != nil {
		return fmt.Errorf("failed to save user %d: %w", prefs.UserID, err)
	}
	return nil
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
