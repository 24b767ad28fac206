package model

import "time"

// Типы входящих сообщений для журнала бота.
const (
	MessageTypePhoto    = "photo"
	MessageTypeVoice    = "voice"
	MessageTypeAudio    = "audio"
	MessageTypeVideo    = "video"
	MessageTypeDocument = "document"
	MessageTypeText     = "text"
	MessageTypeCommand  = "command"
	MessageTypeLocation = "location"
	MessageTypeUnknown  = "unknown"
)

// BotLog представляет запись журнала входящих сообщений бота.
type BotLog struct {
	ID             int64     `db:"id"`
	TelegramUserID *int64    `db:"telegram_user_id"`
	ChatID         *int64    `db:"chat_id"`
	MessageType    *string   `db:"message_type"`
	Payload        []byte    `db:"payload"` // jsonb
	CreatedAt      time.Time `db:"created_at"`
}
