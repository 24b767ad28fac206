package model

import "time"

// Статусы поездки.
const (
	TripStatusActive    = "active"
	TripStatusCompleted = "completed"
	TripStatusArchived  = "archived"
)

// Trip представляет поездку, ограниченный набор медиа и отзывов участников.
type Trip struct {
	ID              string    `db:"id"`
	Name            string    `db:"name"`
	CreatedBy       *string   `db:"created_by"`
	TelegramGroupID *int64    `db:"telegram_group_id"` // группа, к которой привязана поездка (NULL для личных чатов)
	Status          string    `db:"status"`
	CreatedAt       time.Time `db:"created_at"`
}
