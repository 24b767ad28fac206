package repository

import (
	"fmt"

	"github.com/IvanTsarou/GenTS/internal/model"

	"github.com/jmoiron/sqlx"
)

// BotLogRepository обеспечивает запись журнала входящих сообщений бота.
type BotLogRepository struct {
	db *sqlx.DB
}

// NewBotLogRepository создает новый репозиторий журнала бота.
func NewBotLogRepository(db *sqlx.DB) *BotLogRepository {
	return &BotLogRepository{db: db}
}

// Save сохраняет запись журнала.
func (r *BotLogRepository) Save(entry *model.BotLog) error {
	_, err := r.db.Exec(
		`INSERT INTO bot_logs (telegram_user_id, chat_id, message_type, payload)
		 VALUES ($1, $2, $3, $4)`,
		entry.TelegramUserID, entry.ChatID, entry.MessageType, entry.Payload)
	if err != nil {
		return fmt.Errorf("ошибка при сохранении записи журнала: %w", err)
	}
	return nil
}

// ListByUser возвращает последние записи журнала пользователя.
func (r *BotLogRepository) ListByUser(telegramUserID int64, limit int) ([]model.BotLog, error) {
	logs := []model.BotLog{}
	err := r.db.Select(&logs,
		"SELECT * FROM bot_logs WHERE telegram_user_id=$1 ORDER BY id DESC LIMIT $2",
		telegramUserID, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении журнала: %w", err)
	}
	return logs, nil
}
