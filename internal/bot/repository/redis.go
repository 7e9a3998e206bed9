package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/umanagarjuna/steam-bot/internal/bot/domain"
)

const userPrefix = "user-"

type RedisRepository struct {
	client *redis.Client
}

func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client}
}

func userKey(userID int64) string {
	return fmt.Sprintf("%s%d", userPrefix, userID)
}

func (r *RedisRepository) Get(ctx context.Context, userID int64) (*domain.UserPreferences, error) {
	val, err := r.client.Get(ctx, userKey(userID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}

	var prefs domain.UserPreferences
	if err := json.Unmarshal(val, &prefs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user %d: %w", userID, err)
	}
	prefs.UserID = userID
	return &prefs, nil
}

func (r *RedisRepository) Save(ctx context.Context, prefs *domain.UserPreferences) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to marshal user %d: %w", prefs.UserID, err)
	}
	if err := r.client.Set(ctx, userKey(prefs.UserID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save user %d: %w", prefs.UserID, err)
	}
	return nil
}

func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
