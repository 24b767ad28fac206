package model

import "time"

// Location представляет реальное место поездки, полученное кластеризацией
// геотегов. Координаты неизменяемы после создания; описательные поля могут
// дозаполняться обогащением (геокодер, Wikipedia).
type Location struct {
	ID          string    `db:"id"`
	TripID      string    `db:"trip_id"`
	Name        *string   `db:"name"`
	Address     *string   `db:"address"`
	City        *string   `db:"city"`
	Country     *string   `db:"country"`
	Lat         *float64  `db:"lat"` // NULL: локация без координат, не участвует в поиске ближайшей
	Lng         *float64  `db:"lng"`
	Description *string   `db:"description"`
	WikiURL     *string   `db:"wiki_url"`
	PlaceType   *string   `db:"place_type"`
	CreatedAt   time.Time `db:"created_at"`
}

// DisplayName возвращает название локации (имя, затем город).
func (l *Location) DisplayName() string {
	if l.Name != nil && *l.Name != "" {
		return *l.Name
	}
	if l.City != nil && *l.City != "" {
		return *l.City
	}
	return "Без названия"
}
