package repository

import (
	"fmt"
	"time"

	"github.com/IvanTsarou/GenTS/internal/model"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// MediaRepository обеспечивает доступ к данным медиафайлов в базе данных.
type MediaRepository struct {
	db *sqlx.DB
}

// NewMediaRepository создает новый репозиторий медиа.
func NewMediaRepository(db *sqlx.DB) *MediaRepository {
	return &MediaRepository{db: db}
}

// Create сохраняет новую запись медиа с заранее сгенерированным ID.
func (r *MediaRepository) Create(m *model.Media) error {
	query := `INSERT INTO media (id, trip_id, location_id, user_id, telegram_file_id,
	                             file_url, thumbnail_url, shot_at, lat, lng, caption)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.Exec(query,
		m.ID, m.TripID, m.LocationID, m.UserID, m.TelegramFileID,
		m.FileURL, m.ThumbnailURL, m.ShotAt, m.Lat, m.Lng, m.Caption)
	if err != nil {
		return fmt.Errorf("не удалось сохранить медиа: %w", err)
	}
	return nil
}

// ListByTripWithAuthors возвращает медиа поездки с именами авторов,
// по возрастанию даты съемки.
func (r *MediaRepository) ListByTripWithAuthors(tripID string) ([]model.MediaWithAuthor, error) {
	media := []model.MediaWithAuthor{}
	err := r.db.Select(&media,
		`SELECT m.*, u.name AS author_name, u.username AS author_username
		 FROM media m JOIN users u ON m.user_id = u.id
		 WHERE m.trip_id=$1
		 ORDER BY m.shot_at NULLS LAST, m.created_at`, tripID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении медиа поездки: %w", err)
	}
	return media, nil
}

// GetByTelegramFileID ищет медиа поездки по Telegram FileID (для обработки реплаев).
func (r *MediaRepository) GetByTelegramFileID(tripID, fileID string) (*model.Media, error) {
	var m model.Media
	err := r.db.Get(&m,
		"SELECT * FROM media WHERE trip_id=$1 AND telegram_file_id=$2", tripID, fileID)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// LatestGeotagged возвращает последнее геотегированное медиа пользователя в
// поездке, созданное не раньше since. Если такого нет, возвращает sql.ErrNoRows.
func (r *MediaRepository) LatestGeotagged(tripID, userID string, since time.Time) (*model.Media, error) {
	var m model.Media
	err := r.db.Get(&m,
		`SELECT * FROM media
		 WHERE trip_id=$1 AND user_id=$2 AND location_id IS NOT NULL AND created_at >= $3
		 ORDER BY created_at DESC LIMIT 1`, tripID, userID, since)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListUnlinked возвращает последние медиа пользователя без локации и координат.
func (r *MediaRepository) ListUnlinked(tripID, userID string, limit int) ([]model.Media, error) {
	media := []model.Media{}
	err := r.db.Select(&media,
		`SELECT * FROM media
		 WHERE trip_id=$1 AND user_id=$2 AND location_id IS NULL AND lat IS NULL
		 ORDER BY created_at DESC LIMIT $3`, tripID, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка при поиске непривязанных медиа: %w", err)
	}
	return media, nil
}

// AttachLocation привязывает локацию и координаты к набору медиа (бэкфилл
// после сообщения с геопозицией).
func (r *MediaRepository) AttachLocation(mediaIDs []string, locationID string, lat, lng float64) error {
	_, err := r.db.Exec(
		`UPDATE media SET location_id=$1, lat=$2, lng=$3 WHERE id = ANY($4)`,
		locationID, lat, lng, pq.Array(mediaIDs))
	if err != nil {
		return fmt.Errorf("не удалось привязать локацию к медиа: %w", err)
	}
	return nil
}

// CountByLocationAndUser возвращает число медиа пользователя в локации (для лимитов).
func (r *MediaRepository) CountByLocationAndUser(locationID, userID string) (int, error) {
	var count int
	err := r.db.Get(&count,
		"SELECT COUNT(*) FROM media WHERE location_id=$1 AND user_id=$2", locationID, userID)
	if err != nil {
		return 0, fmt.Errorf("ошибка при подсчете медиа: %w", err)
	}
	return count, nil
}

// CountByLocation возвращает число медиа локации.
func (r *MediaRepository) CountByLocation(locationID string) (int, error) {
	var count int
	err := r.db.Get(&count, "SELECT COUNT(*) FROM media WHERE location_id=$1", locationID)
	if err != nil {
		return 0, fmt.Errorf("ошибка при подсчете медиа: %w", err)
	}
	return count, nil
}

// CountByTrip возвращает число медиа поездки.
func (r *MediaRepository) CountByTrip(tripID string) (int, error) {
	var count int
	err := r.db.Get(&count, "SELECT COUNT(*) FROM media WHERE trip_id=$1", tripID)
	if err != nil {
		return 0, fmt.Errorf("ошибка при подсчете медиа: %w", err)
	}
	return count, nil
}

// CountShotDays возвращает число различных календарных дат съемки в поездке.
func (r *MediaRepository) CountShotDays(tripID string) (int, error) {
	var count int
	err := r.db.Get(&count,
		`SELECT COUNT(DISTINCT DATE(shot_at AT TIME ZONE 'UTC'))
		 FROM media WHERE trip_id=$1 AND shot_at IS NOT NULL`, tripID)
	if err != nil {
		return 0, fmt.Errorf("ошибка при подсчете дней поездки: %w", err)
	}
	return count, nil
}
