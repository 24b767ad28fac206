package model

import "time"

// Форматы отзыва.
const (
	ReviewFormatText  = "text"
	ReviewFormatAudio = "audio"
)

// Review представляет текстовый или голосовой отзыв участника. Неизменяем
// после создания. DayDate хранит календарную дату дня поездки (не момент
// создания); колонка DATE возвращается драйвером как time.Time с полночью UTC.
type Review struct {
	ID         string     `db:"id"`
	TripID     string     `db:"trip_id"`
	LocationID *string    `db:"location_id"`
	UserID     string     `db:"user_id"`
	Text       *string    `db:"text"`
	Format     string     `db:"format"`
	AudioURL   *string    `db:"audio_url"`
	DayDate    *time.Time `db:"day_date"`
	CreatedAt  time.Time  `db:"created_at"`
}

// ReviewWithAuthor объединяет отзыв с именем автора (JOIN users).
type ReviewWithAuthor struct {
	Review
	AuthorName     *string `db:"author_name"`
	AuthorUsername *string `db:"author_username"`
}

// Author возвращает отображаемое имя автора.
func (r *ReviewWithAuthor) Author() string {
	if r.AuthorName != nil && *r.AuthorName != "" {
		return *r.AuthorName
	}
	if r.AuthorUsername != nil && *r.AuthorUsername != "" {
		return *r.AuthorUsername
	}
	return "Unknown"
}
