package repository

import (
	"context"

	"github.com/umanagarjuna/steam-bot/internal/bot/domain"
)

// Repository persists whole preference records. Get returns domain.ErrNotFound
// for unknown users.
type Repository interface {
	Get(ctx context.Context, userID int64) (*domain.UserPreferences, error)
	Save(ctx context.Context, prefs *domain.UserPreferences) error
	Ping(ctx context.Context) error
}
