package model

// Производное (не хранимое) представление поездки: дни -> локации -> фото/отзывы.
// Сериализуется в JSON для API и генератора story.

// StructuredTrip содержит итог структурирования поездки.
type StructuredTrip struct {
	Trip TripSummary     `json:"trip"`
	Days []StructuredDay `json:"days"`
}

// TripSummary содержит краткие сведения о поездке.
type TripSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// StructuredDay описывает один календарный день поездки.
type StructuredDay struct {
	Date      string               `json:"date"`       // YYYY-MM-DD
	DayNumber int                  `json:"day_number"` // с 1
	Locations []StructuredLocation `json:"locations"`
}

// StructuredLocation собирает все фото и отзывы одной локации в рамках дня.
type StructuredLocation struct {
	Location LocationSnapshot   `json:"location"`
	Photos   []StructuredPhoto  `json:"photos"`
	Reviews  []StructuredReview `json:"reviews"`
}

// LocationSnapshot хранит денормализованный срез локации на момент чтения.
type LocationSnapshot struct {
	ID          string  `json:"id"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	Country     *string `json:"country"`
}

// StructuredPhoto описывает фото в составе локации.
type StructuredPhoto struct {
	ID           string  `json:"id"`
	URL          *string `json:"url"`
	ThumbnailURL *string `json:"thumbnail_url"`
	Caption      *string `json:"caption"`
	ShotAt       *string `json:"shot_at"`
	Author       string  `json:"author"`
}

// StructuredReview описывает отзыв в составе локации.
type StructuredReview struct {
	ID        string  `json:"id"`
	Text      *string `json:"text"`
	Format    string  `json:"format"`
	Author    string  `json:"author"`
	CreatedAt string  `json:"created_at"`
}
