package repository

import (
	"fmt"

	"github.com/IvanTsarou/GenTS/internal/model"

	"github.com/jmoiron/sqlx"
)

// StoryRepository обеспечивает доступ к данным story в базе данных.
type StoryRepository struct {
	db *sqlx.DB
}

// NewStoryRepository создает новый репозиторий story.
func NewStoryRepository(db *sqlx.DB) *StoryRepository {
	return &StoryRepository{db: db}
}

// GetByTrip возвращает story поездки.
func (r *StoryRepository) GetByTrip(tripID string) (*model.Story, error) {
	var story model.Story
	err := r.db.Get(&story, "SELECT * FROM stories WHERE trip_id=$1", tripID)
	if err != nil {
		return nil, err
	}
	return &story, nil
}

// UpsertPending создает story в статусе pending или переводит существующую в pending.
func (r *StoryRepository) UpsertPending(tripID string) error {
	_, err := r.db.Exec(
		`INSERT INTO stories (trip_id, status) VALUES ($1, $2)
		 ON CONFLICT (trip_id) DO UPDATE SET status=$2, updated_at=now()`,
		tripID, model.StoryStatusPending)
	if err != nil {
		return fmt.Errorf("не удалось поставить story в очередь: %w", err)
	}
	return nil
}

// UpdateStatus обновляет статус story.
func (r *StoryRepository) UpdateStatus(tripID, status string) error {
	_, err := r.db.Exec(
		"UPDATE stories SET status=$1, updated_at=now() WHERE trip_id=$2", status, tripID)
	if err != nil {
		return fmt.Errorf("не удалось обновить статус story: %w", err)
	}
	return nil
}

// SetContent сохраняет сгенерированный текст и помечает story завершенной.
func (r *StoryRepository) SetContent(tripID, content string) error {
	_, err := r.db.Exec(
		"UPDATE stories SET content=$1, status=$2, updated_at=now() WHERE trip_id=$3",
		content, model.StoryStatusCompleted, tripID)
	if err != nil {
		return fmt.Errorf("не удалось сохранить текст story: %w", err)
	}
	return nil
}
