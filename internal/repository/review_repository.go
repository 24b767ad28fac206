package repository

import (
	"fmt"

	"github.com/IvanTsarou/GenTS/internal/model"

	"github.com/jmoiron/sqlx"
)

// ReviewRepository обеспечивает доступ к данным отзывов в базе данных.
type ReviewRepository struct {
	db *sqlx.DB
}

// NewReviewRepository создает новый репозиторий отзывов.
func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create сохраняет новый отзыв с заранее сгенерированным ID.
func (r *ReviewRepository) Create(rev *model.Review) error {
	query := `INSERT INTO reviews (id, trip_id, location_id, user_id, text, format, audio_url, day_date)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(query,
		rev.ID, rev.TripID, rev.LocationID, rev.UserID, rev.Text, rev.Format, rev.AudioURL, rev.DayDate)
	if err != nil {
		return fmt.Errorf("не удалось сохранить отзыв: %w", err)
	}
	return nil
}

// ListByTripWithAuthors возвращает отзывы поездки с именами авторов,
// по возрастанию даты создания.
func (r *ReviewRepository) ListByTripWithAuthors(tripID string) ([]model.ReviewWithAuthor, error) {
	reviews := []model.ReviewWithAuthor{}
	err := r.db.Select(&reviews,
		`SELECT rv.*, u.name AS author_name, u.username AS author_username
		 FROM reviews rv JOIN users u ON rv.user_id = u.id
		 WHERE rv.trip_id=$1
		 ORDER BY rv.created_at`, tripID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении отзывов поездки: %w", err)
	}
	return reviews, nil
}

// CountByLocationAndUser возвращает число отзывов пользователя в локации (для лимитов).
func (r *ReviewRepository) CountByLocationAndUser(locationID, userID string) (int, error) {
	var count int
	err := r.db.Get(&count,
		"SELECT COUNT(*) FROM reviews WHERE location_id=$1 AND user_id=$2", locationID, userID)
	if err != nil {
		return 0, fmt.Errorf("ошибка при подсчете отзывов: %w", err)
	}
	return count, nil
}

// CountByLocation возвращает число отзывов локации.
func (r *ReviewRepository) CountByLocation(locationID string) (int, error) {
	var count int
	err := r.db.Get(&count, "SELECT COUNT(*) FROM reviews WHERE location_id=$1", locationID)
	if err != nil {
		return 0, fmt.Errorf("ошибка при подсчете отзывов: %w", err)
	}
	return count, nil
}

// CountByTrip возвращает число отзывов поездки.
func (r *ReviewRepository) CountByTrip(tripID string) (int, error) {
	var count int
	err := r.db.Get(&count, "SELECT COUNT(*) FROM reviews WHERE trip_id=$1", tripID)
	if err != nil {
		return 0, fmt.Errorf("ошибка при подсчете отзывов: %w", err)
	}
	return count, nil
}
