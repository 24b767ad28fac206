package model

import "time"

// Media представляет загруженное фото или видео поездки. Привязка к локации
// (location_id, lat, lng) может дозаполняться позже, например когда
// геолокация приходит отдельным сообщением после фото.
type Media struct {
	ID             string     `db:"id"`
	TripID         string     `db:"trip_id"`
	LocationID     *string    `db:"location_id"`
	UserID         string     `db:"user_id"`
	TelegramFileID *string    `db:"telegram_file_id"`
	FileURL        *string    `db:"file_url"`
	ThumbnailURL   *string    `db:"thumbnail_url"`
	ShotAt         *time.Time `db:"shot_at"` // дата съемки из EXIF
	Lat            *float64   `db:"lat"`
	Lng            *float64   `db:"lng"`
	Caption        *string    `db:"caption"`
	CreatedAt      time.Time  `db:"created_at"`
}

// MediaWithAuthor объединяет медиа с именем автора (JOIN users).
type MediaWithAuthor struct {
	Media
	AuthorName     *string `db:"author_name"`
	AuthorUsername *string `db:"author_username"`
}

// Author возвращает отображаемое имя автора.
func (m *MediaWithAuthor) Author() string {
	if m.AuthorName != nil && *m.AuthorName != "" {
		return *m.AuthorName
	}
	if m.AuthorUsername != nil && *m.AuthorUsername != "" {
		return *m.AuthorUsername
	}
	return "Unknown"
}
