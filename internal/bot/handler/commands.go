package handler

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/umanagarjuna/steam-bot/internal/bot/domain"
	"github.com/umanagarjuna/steam-bot/internal/bot/format"
	"github.com/umanagarjuna/steam-bot/pkg/validator"
)

var (
	markdown       = domain.SendOptions{Markdown: true}
	markdownNoLink = domain.SendOptions{Markdown: true, DisablePreview: true}
	plain          = domain.SendOptions{}
)

func (a *App) notify(ctx context.Context, chatID int64, action domain.ChatAction) {
	if err := a.transport.Notify(ctx, chatID, action); err != nil {
		a.logger.Debug("Failed to send chat action",
			zap.Error(err), zap.Int64("chat_id", chatID))
	}
}

func (a *App) reply(ctx context.Context, chatID int64, text string) error {
	return a.transport.SendText(ctx, chatID, text, plain)
}

func (a *App) search(ctx context.Context, req Request) error {
	a.notify(ctx, req.ChatID, domain.ActionTyping)

	settings := a.preferences.SettingsFor(ctx, req.UserID)
	entries, err := a.steam.Search(ctx, req.Args, settings)
	if err != nil {
		a.logUpstream("Search failed", err, req)
	}
	return a.transport.SendText(ctx, req.ChatID, a.formatter.GamesList(entries), markdownNoLink)
}

func (a *App) appCard(ctx context.Context, req Request) error {
	a.notify(ctx, req.ChatID, domain.ActionTyping)

	appID := argument(req, "/app_")
	if err := validator.ValidateAppID(appID); err != nil {
		return a.reply(ctx, req.ChatID, format.NothingFound)
	}

	details, err := a.steam.AppDetails(ctx, appID, a.preferences.SettingsFor(ctx, req.UserID))
	if err != nil {
		a.logUpstream("App details failed", err, req)
		return a.reply(ctx, req.ChatID, format.NothingFound)
	}

	card, err := a.formatter.GameCard(details)
	if err != nil {
		return err
	}
	return a.transport.SendText(ctx, req.ChatID, card, markdown)
}

func (a *App) screenshots(ctx context.Context, req Request) error {
	a.notify(ctx, req.ChatID, domain.ActionUploadPhoto)

	appID := argument(req, "/scr_")
	if err := validator.ValidateAppID(appID); err != nil {
		return a.reply(ctx, req.ChatID, format.NoScreenshots)
	}

	details, err := a.steam.AppDetails(ctx, appID, a.preferences.SettingsFor(ctx, req.UserID))
	if err != nil {
		a.logUpstream("App details failed", err, req)
		return a.reply(ctx, req.ChatID, format.NoScreenshots)
	}
	if len(details.Screenshots) == 0 {
		return a.reply(ctx, req.ChatID, format.NoScreenshots)
	}

	for _, scr := range details.Screenshots {
		a.tasks.Go(ctx, "send-screenshot", func(ctx context.Context) error {
			data, err := a.steam.Download(ctx, scr.PathFull)
			if err != nil {
				return err
			}
			return a.transport.SendPhoto(ctx, req.ChatID, fmt.Sprintf("scr-%d.jpg", scr.ID), data)
		})
	}
	return nil
}

func (a *App) news(ctx context.Context, req Request) error {
	a.notify(ctx, req.ChatID, domain.ActionTyping)

	appID := argument(req, "/news_")
	if err := validator.ValidateAppID(appID); err != nil {
		return a.reply(ctx, req.ChatID, format.NoNews)
	}

	items, err := a.steam.News(ctx, appID, a.newsCount)
	if err != nil {
		a.logUpstream("News failed", err, req)
	}
	if len(items) == 0 {
		return a.reply(ctx, req.ChatID, format.NoNews)
	}

	for _, item := range items {
		a.tasks.Go(ctx, "send-news", func(ctx context.Context) error {
			card, err := a.formatter.NewsCard(item)
			if err != nil {
				return err
			}
			return a.transport.SendText(ctx, req.ChatID, card, markdown)
		})
	}
	return nil
}

func (a *App) feedback(ctx context.Context, req Request) error {
	if req.Args == "" {
		return a.reply(ctx, req.ChatID, format.FeedbackEmpty)
	}

	if a.adminID != 0 {
		if err := a.reply(ctx, a.adminID, format.Feedback(req.ChatID, req.Args)); err != nil {
			a.logger.Error("Failed to forward feedback",
				zap.Error(err), zap.Int64("chat_id", req.ChatID))
		}
	} else {
		a.logger.Info("Feedback received",
			zap.Int64("chat_id", req.ChatID), zap.String("text", req.Args))
	}
	return a.reply(ctx, req.ChatID, format.FeedbackThanks)
}

func (a *App) settings(ctx context.Context, req Request) error {
	return a.reply(ctx, req.ChatID, format.SettingsHelp)
}

func (a *App) lang(ctx context.Context, req Request) error {
	language, ok := domain.Lookup(domain.Languages, req.Args)
	if req.Args == "" || !ok {
		rows := format.Group(domain.Labels(domain.Languages), 2)
		return a.transport.SendKeyboard(ctx, req.ChatID, format.LanguagePrompt, rows)
	}
	return a.saveSettings(ctx, req, domain.SettingsPatch{Language: &language}, format.LanguageSaved)
}

func (a *App) region(ctx context.Context, req Request) error {
	region, ok := domain.Lookup(domain.Regions, req.Args)
	if req.Args == "" || !ok {
		rows := format.Group(domain.Labels(domain.Regions), 3)
		return a.transport.SendKeyboard(ctx, req.ChatID, format.RegionPrompt, rows)
	}
	return a.saveSettings(ctx, req, domain.SettingsPatch{Region: &region}, format.RegionSaved)
}

func (a *App) saveSettings(ctx context.Context, req Request, patch domain.SettingsPatch, confirmation string) error {
	if _, err := a.preferences.UpdateSettings(ctx, req.UserID, patch); err != nil {
		a.logger.Error("Failed to save settings",
			zap.Error(err), zap.Int64("user_id", req.UserID))
		return a.reply(ctx, req.ChatID, format.SettingsFailed)
	}
	return a.reply(ctx, req.ChatID, confirmation)
}

func (a *App) start(ctx context.Context, req Request) error {
	return a.reply(ctx, req.ChatID, format.Welcome)
}

func (a *App) logUpstream(msg string, err error, req Request) {
	if errors.Is(err, domain.ErrEmptyResult) {
		a.logger.Debug(msg, zap.Error(err), zap.String("command", req.Command))
		return
	}
	a.logger.Error(msg, zap.Error(err), zap.String("command", req.Command))
}
