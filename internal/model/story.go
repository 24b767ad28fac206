package model

import "time"

// Статусы генерации story.
const (
	StoryStatusPending    = "pending"
	StoryStatusGenerating = "generating"
	StoryStatusCompleted  = "completed"
	StoryStatusFailed     = "failed"
)

// Story представляет сгенерированный (или ожидающий генерации) рассказ о поездке.
type Story struct {
	ID        string    `db:"id"`
	TripID    string    `db:"trip_id"`
	Content   *string   `db:"content"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
