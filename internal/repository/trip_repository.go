package repository

import (
	"fmt"

	"github.com/IvanTsarou/GenTS/internal/model"

	"github.com/jmoiron/sqlx"
)

// TripRepository обеспечивает доступ к данным поездок в базе данных.
type TripRepository struct {
	db *sqlx.DB
}

// NewTripRepository создает новый репозиторий поездок.
func NewTripRepository(db *sqlx.DB) *TripRepository {
	return &TripRepository{db: db}
}

// Create создает новую поездку. Возвращает ID созданной записи.
func (r *TripRepository) Create(trip *model.Trip) (string, error) {
	query := `INSERT INTO trips (name, created_by, telegram_group_id, status)
	          VALUES ($1, $2, $3, $4) RETURNING id`
	var id string
	err := r.db.QueryRow(query, trip.Name, trip.CreatedBy, trip.TelegramGroupID, trip.Status).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("не удалось создать поездку: %w", err)
	}
	return id, nil
}

// GetByID возвращает поездку по идентификатору.
func (r *TripRepository) GetByID(id string) (*model.Trip, error) {
	var trip model.Trip
	err := r.db.Get(&trip, "SELECT * FROM trips WHERE id=$1", id)
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

// GetActiveByGroup возвращает активную поездку, привязанную к Telegram-группе.
func (r *TripRepository) GetActiveByGroup(groupID int64) (*model.Trip, error) {
	var trip model.Trip
	err := r.db.Get(&trip,
		`SELECT * FROM trips WHERE telegram_group_id=$1 AND status=$2
		 ORDER BY created_at DESC LIMIT 1`, groupID, model.TripStatusActive)
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

// GetActiveByCreator возвращает последнюю активную поездку пользователя (личный чат).
func (r *TripRepository) GetActiveByCreator(userID string) (*model.Trip, error) {
	var trip model.Trip
	err := r.db.Get(&trip,
		`SELECT * FROM trips WHERE created_by=$1 AND status=$2
		 ORDER BY created_at DESC LIMIT 1`, userID, model.TripStatusActive)
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

// ListByGroup возвращает поездки Telegram-группы, новые первыми.
func (r *TripRepository) ListByGroup(groupID int64) ([]model.Trip, error) {
	trips := []model.Trip{}
	err := r.db.Select(&trips,
		"SELECT * FROM trips WHERE telegram_group_id=$1 ORDER BY created_at DESC", groupID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении списка поездок: %w", err)
	}
	return trips, nil
}

// ListByCreator возвращает поездки пользователя, новые первыми.
func (r *TripRepository) ListByCreator(userID string) ([]model.Trip, error) {
	trips := []model.Trip{}
	err := r.db.Select(&trips,
		"SELECT * FROM trips WHERE created_by=$1 ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении списка поездок: %w", err)
	}
	return trips, nil
}
