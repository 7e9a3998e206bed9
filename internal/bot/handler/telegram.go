package handler

import (
	"bytes"
	"context"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
	"gopkg.in/telebot.v3/middleware"

	"github.com/umanagarjuna/steam-bot/internal/bot/domain"
	"github.com/umanagarjuna/steam-bot/internal/bot/format"
)

const inlineCacheTime = 10

// TelegramTransport sends replies through the Bot API.
type TelegramTransport struct {
	bot    *tele.Bot
	logger *zap.Logger
}

func NewTelegramTransport(bot *tele.Bot, logger *zap.Logger) *TelegramTransport {
	return &TelegramTransport{bot: bot, logger: logger}
}

func (t *TelegramTransport) SendText(ctx context.Context, chatID int64, text string, opts domain.SendOptions) error {
	send := &tele.SendOptions{DisableWebPagePreview: opts.DisablePreview}
	if opts.Markdown {
		send.ParseMode = tele.ModeMarkdown
	}
	_, err := t.bot.Send(tele.ChatID(chatID), text, send)
	return err
}

// SendPhoto uploads data as a photo captioned with name.
func (t *TelegramTransport) SendPhoto(ctx context.Context, chatID int64, name string, data []byte) error {
	if _, err := t.bot.Send(tele.ChatID(chatID), photoMessage(name, data)); err != nil {
		return err
	}
	t.logger.Debug("Photo sent", zap.Int64("chat_id", chatID), zap.String("name", name))
	return nil
}

func (t *TelegramTransport) SendKeyboard(ctx context.Context, chatID int64, text string, rows [][]string) error {
	markup := &tele.ReplyMarkup{OneTimeKeyboard: true, ResizeKeyboard: true}
	keyboard := make([]tele.Row, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tele.Btn, 0, len(row))
		for _, label := range row {
			buttons = append(buttons, markup.Text(label))
		}
		keyboard = append(keyboard, markup.Row(buttons...))
	}
	markup.Reply(keyboard...)

	_, err := t.bot.Send(tele.ChatID(chatID), text, markup)
	return err
}

func (t *TelegramTransport) Notify(ctx context.Context, chatID int64, action domain.ChatAction) error {
	return t.bot.Notify(tele.ChatID(chatID), tele.ChatAction(action))
}

// RegisterTelegram binds the App to the bot's update stream. Unregistered
// commands fall through to OnText, which routes them.
func RegisterTelegram(ctx context.Context, b *tele.Bot, app *App) {
	b.Use(middleware.Recover())

	b.Handle(tele.OnText, func(c tele.Context) error {
		return app.HandleMessage(ctx, messageFromTelegram(c.Message()))
	})

	b.Handle(tele.OnQuery, func(c tele.Context) error {
		q := c.Query()
		results, err := app.HandleInlineQuery(ctx, domain.InlineQuery{
			ID:     q.ID,
			UserID: q.Sender.ID,
			Query:  q.Text,
		})
		if err != nil {
			app.logger.Debug("Inline search failed", zap.Error(err), zap.String("query", q.Text))
		}
		return c.Answer(&tele.QueryResponse{
			Results:           inlineResults(results),
			CacheTime:         inlineCacheTime,
			SwitchPMText:      format.SwitchPMText,
			SwitchPMParameter: "inline",
		})
	})

	b.Handle(tele.OnInlineResult, func(c tele.Context) error {
		r := c.InlineResult()
		return app.HandleChosenInlineResult(ctx, r.Sender.ID, r.ResultID)
	})

	b.Handle(tele.OnCallback, func(c tele.Context) error {
		cb := c.Callback()
		return answerCallback(ctx, app, cb.Sender.ID, cb.Data, func() error { return c.Respond() })
	})
}

func photoMessage(name string, data []byte) *tele.Photo {
	return &tele.Photo{File: tele.FromReader(bytes.NewReader(data)), Caption: name}
}

// answerCallback dispatches the callback data and always acknowledges the
// query so the client stops its progress indicator.
func answerCallback(ctx context.Context, app *App, userID int64, data string, respond func() error) error {
	if err := app.HandleCallback(ctx, userID, data); err != nil {
		app.logger.Error("Callback failed",
			zap.Error(err), zap.Int64("user_id", userID), zap.String("data", data))
	}
	return respond()
}

func messageFromTelegram(m *tele.Message) domain.Message {
	msg := domain.Message{
		ChatID: m.Chat.ID,
		UserID: m.Chat.ID,
		Text:   m.Text,
		Chat: domain.ChatInfo{
			ID:        m.Chat.ID,
			Type:      string(m.Chat.Type),
			Title:     m.Chat.Title,
			Username:  m.Chat.Username,
			FirstName: m.Chat.FirstName,
			LastName:  m.Chat.LastName,
		},
	}
	if m.Sender != nil {
		msg.UserID = m.Sender.ID
	}
	for _, e := range m.Entities {
		msg.Entities = append(msg.Entities, domain.Entity{
			Type:   string(e.Type),
			Offset: e.Offset,
			Length: e.Length,
		})
	}
	return msg
}

func inlineResults(results []domain.InlineResult) tele.Results {
	out := make(tele.Results, 0, len(results))
	for _, r := range results {
		article := &tele.ArticleResult{
			Title:       r.Title,
			Text:        r.Text,
			Description: r.Description,
			ThumbURL:    r.ThumbURL,
		}
		article.SetResultID(r.ID)
		out = append(out, article)
	}
	return out
}
