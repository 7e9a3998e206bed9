package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/umanagarjuna/steam-bot/internal/bot/domain"
	"github.com/umanagarjuna/steam-bot/internal/bot/repository"
)

// PreferenceService owns the merge rules for user preference records.
//
// UpdateSettings is a read-modify-write without a lock or transaction: two
// concurrent updates for the same user can lose one of the patches.
type PreferenceService struct {
	repo   repository.Repository
	logger *zap.Logger
}

func NewPreferenceService(repo repository.Repository, logger *zap.Logger) *PreferenceService {
	return &PreferenceService{
		repo:   repo,
		logger: logger,
	}
}

func (s *PreferenceService) Get(ctx context.Context, userID int64) (*domain.UserPreferences, error) {
	return s.repo.Get(ctx, userID)
}

// GetOrCreate returns the stored record, saving a default one first if the
// user is unknown.
func (s *PreferenceService) GetOrCreate(ctx context.Context, userID int64) (*domain.UserPreferences, error) {
	prefs, err := s.repo.Get(ctx, userID)
	if err == nil {
		return prefs, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	prefs = &domain.UserPreferences{
		UserID:   userID,
		ChatInfo: domain.ChatInfo{ID: userID},
		Settings: domain.DefaultSettings(),
	}
	if err := s.repo.Save(ctx, prefs); err != nil {
		return nil, fmt.Errorf("failed to create user %d: %w", userID, err)
	}
	return prefs, nil
}

// Upsert records the chat metadata seen on an inbound message. Settings are
// never touched.
func (s *PreferenceService) Upsert(ctx context.Context, userID int64, chat domain.ChatInfo) error {
	prefs, err := s.repo.Get(ctx, userID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		prefs = &domain.UserPreferences{
			UserID:   userID,
			ChatInfo: chat,
			Settings: domain.DefaultSettings(),
		}
		s.logger.Info("New user", zap.Int64("user_id", userID))
	case err != nil:
		return err
	case prefs.ChatInfo == chat:
		return nil
	default:
		prefs.ChatInfo = chat
	}

	if err := s.repo.Save(ctx, prefs); err != nil {
		return fmt.Errorf("failed to upsert user %d: %w", userID, err)
	}
	return nil
}

func (s *PreferenceService) UpdateSettings(ctx context.Context, userID int64, patch domain.SettingsPatch) (domain.Settings, error) {
	prefs, err := s.repo.Get(ctx, userID)
	if err != nil {
		return domain.Settings{}, err
	}

	prefs.Settings = patch.Apply(prefs.Settings)
	if err := s.repo.Save(ctx, prefs); err != nil {
		return domain.Settings{}, fmt.Errorf("failed to update settings for user %d: %w", userID, err)
	}
	return prefs.Settings, nil
}

// SettingsFor never fails: unknown users and store errors fall back to the
// defaults so that read-only paths keep working.
func (s *PreferenceService) SettingsFor(ctx context.Context, userID int64) domain.Settings {
	prefs, err := s.repo.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("Failed to read user settings",
				zap.Error(err), zap.Int64("user_id", userID))
		}
		return domain.DefaultSettings()
	}
	return prefs.Settings
}
