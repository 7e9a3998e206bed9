package handler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/umanagarjuna/steam-bot/internal/bot/domain"
	"github.com/umanagarjuna/steam-bot/internal/bot/format"
	"github.com/umanagarjuna/steam-bot/internal/bot/metrics"
	"github.com/umanagarjuna/steam-bot/internal/bot/service"
	"github.com/umanagarjuna/steam-bot/internal/bot/steam"
	"github.com/umanagarjuna/steam-bot/internal/bot/tasks"
)

const DefaultNewsCount = 3

type Config struct {
	AdminID   int64
	NewsCount int
}

// App carries everything a handler needs. One App serves all updates.
type App struct {
	transport   domain.Transport
	steam       *steam.Client
	preferences *service.PreferenceService
	formatter   *format.Formatter
	tasks       *tasks.Supervisor
	publisher   domain.EventPublisher
	metrics     metrics.Metrics
	logger      *zap.Logger

	adminID   int64
	newsCount int
	router    *Router
}

func NewApp(transport domain.Transport, steamClient *steam.Client, preferences *service.PreferenceService,
	formatter *format.Formatter, supervisor *tasks.Supervisor, publisher domain.EventPublisher,
	m metrics.Metrics, logger *zap.Logger, cfg Config) *App {

	if m == nil {
		m = metrics.Nop{}
	}
	if cfg.NewsCount <= 0 {
		cfg.NewsCount = DefaultNewsCount
	}

	a := &App{
		transport:   transport,
		steam:       steamClient,
		preferences: preferences,
		formatter:   formatter,
		tasks:       supervisor,
		publisher:   publisher,
		metrics:     m,
		logger:      logger,
		adminID:     cfg.AdminID,
		newsCount:   cfg.NewsCount,
	}
	a.router = NewRouter(a.routes(), a.search, a.start, m)
	return a
}

func (a *App) routes() []Route {
	return []Route{
		{Prefix: "/search", Handle: a.search},
		{Prefix: "/app_", Handle: a.appCard},
		{Prefix: "/scr_", Handle: a.screenshots},
		{Prefix: "/news_", Handle: a.news},
		{Prefix: "/feedback", Handle: a.feedback},
		{Prefix: "/settings", Handle: a.settings},
		{Prefix: "/lang", Handle: a.lang},
		{Prefix: "/cc", Handle: a.region},
		{Prefix: "/start", Handle: a.start},
		{Prefix: "/help", Handle: a.start},
	}
}

// HandleMessage records the sender and routes the message.
func (a *App) HandleMessage(ctx context.Context, msg domain.Message) error {
	a.track(ctx, domain.KindMessage, msg.UserID, msg.ChatID, msg.Text)

	if err := a.preferences.Upsert(ctx, msg.UserID, msg.Chat); err != nil {
		a.logger.Warn("Failed to record user",
			zap.Error(err), zap.Int64("user_id", msg.UserID))
	}

	if command, ok := keyboardCommand(msg.Text); ok {
		return a.router.Dispatch(ctx, domain.Message{
			ChatID: msg.ChatID,
			UserID: msg.UserID,
			Text:   command + " " + strings.TrimSpace(msg.Text),
		})
	}
	return a.router.Dispatch(ctx, msg)
}

// HandleInlineQuery answers an inline search with one article per game.
func (a *App) HandleInlineQuery(ctx context.Context, query domain.InlineQuery) ([]domain.InlineResult, error) {
	a.track(ctx, domain.KindInlineQuery, query.UserID, 0, query.Query)

	if strings.TrimSpace(query.Query) == "" {
		return nil, nil
	}

	settings := a.preferences.SettingsFor(ctx, query.UserID)
	entries, err := a.steam.Search(ctx, query.Query, settings)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(entries))
	results := make([]domain.InlineResult, 0, len(entries))
	for _, e := range entries {
		if seen[e.AppID] {
			continue
		}
		seen[e.AppID] = true
		results = append(results, domain.InlineResult{
			ID:          e.AppID,
			Title:       e.Name,
			Text:        format.InlineMessage(e),
			Description: e.Price,
			ThumbURL:    e.Image,
		})
	}
	return results, nil
}

// HandleChosenInlineResult sends the picked game's card to the user privately.
func (a *App) HandleChosenInlineResult(ctx context.Context, userID int64, resultID string) error {
	a.track(ctx, domain.KindInlineResult, userID, 0, resultID)

	return a.appCard(ctx, Request{
		ChatID:  userID,
		UserID:  userID,
		Command: "/app_" + resultID,
	})
}

// HandleCallback routes callback data exactly like a typed command.
func (a *App) HandleCallback(ctx context.Context, userID int64, data string) error {
	a.track(ctx, domain.KindCallback, userID, 0, data)

	if _, err := a.preferences.GetOrCreate(ctx, userID); err != nil {
		a.logger.Warn("Failed to record user",
			zap.Error(err), zap.Int64("user_id", userID))
	}

	return a.router.Dispatch(ctx, domain.Message{
		ChatID: userID,
		UserID: userID,
		Text:   data,
	})
}

func (a *App) track(ctx context.Context, kind string, userID, chatID int64, text string) {
	event := &domain.InteractionEvent{
		Kind:      kind,
		UserID:    userID,
		ChatID:    chatID,
		Text:      text,
		Timestamp: time.Now().UTC(),
	}
	if command, _, err := ParseCommand(text, nil); err == nil {
		event.Command = command
	}

	a.tasks.Go(ctx, "publish-interaction", func(ctx context.Context) error {
		if err := a.publisher.PublishInteraction(ctx, event); err != nil {
			return fmt.Errorf("publish %s from %d: %w", kind, userID, err)
		}
		return nil
	})
}

// keyboardCommand maps a reply-keyboard label back to the command that showed
// the keyboard.
func keyboardCommand(text string) (string, bool) {
	text = strings.TrimSpace(text)
	for _, label := range domain.Labels(domain.Languages) {
		if text == label {
			return "/lang", true
		}
	}
	for _, label := range domain.Labels(domain.Regions) {
		if text == label {
			return "/cc", true
		}
	}
	return "", false
}
