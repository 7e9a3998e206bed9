package domain

import "time"

// EntityBotCommand marks a command span inside a message.
const EntityBotCommand = "bot_command"

// Entity is a typed span of a message text. Offset and Length count UTF-16
// code units, as delivered by the messaging platform.
type Entity struct {
	Type   string
	Offset int
	Length int
}

// Message is an inbound chat message reduced to what the router needs.
type Message struct {
	ChatID   int64
	UserID   int64
	Text     string
	Entities []Entity
	Chat     ChatInfo
}

// InlineQuery is an inline-mode search typed in any chat.
type InlineQuery struct {
	ID     string
	UserID int64
	Query  string
}

// InlineResult is one article offered in reply to an inline query.
type InlineResult struct {
	ID          string
	Title       string
	Text        string
	Description string
	ThumbURL    string
}

// ChatAction is the activity indicator shown while a handler works.
type ChatAction string

const (
	ActionTyping      ChatAction = "typing"
	ActionUploadPhoto ChatAction = "upload_photo"
)

// SendOptions tune how a text message is rendered.
type SendOptions struct {
	Markdown       bool
	DisablePreview bool
}

// Interaction kinds published to analytics.
const (
	KindMessage      = "message"
	KindInlineQuery  = "inline_query"
	KindInlineResult = "inline_result"
	KindCallback     = "callback"
)

// InteractionEvent is an analytics record for one inbound update.
type InteractionEvent struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	UserID    int64     `json:"user_id"`
	ChatID    int64     `json:"chat_id,omitempty"`
	Command   string    `json:"command,omitempty"`
	Text      string    `json:"text,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
