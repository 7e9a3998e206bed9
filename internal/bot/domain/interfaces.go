package domain

import "context"

// EventPublisher interface for publishing analytics events
type EventPublisher interface {
	PublishInteraction(ctx context.Context, event *InteractionEvent) error
	Close() error
}

// Transport is the outbound side of the messaging platform.
type Transport interface {
	SendText(ctx context.Context, chatID int64, text string, opts SendOptions) error
	SendPhoto(ctx context.Context, chatID int64, name string, data []byte) error
	SendKeyboard(ctx context.Context, chatID int64, text string, rows [][]string) error
	Notify(ctx context.Context, chatID int64, action ChatAction) error
}
