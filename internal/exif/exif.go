// Package exif извлекает дату съемки и GPS-координаты из загруженных файлов.
package exif

import (
	"bytes"
	"time"

	goexif "github.com/rwcarlsen/goexif/exif"

	"github.com/IvanTsarou/GenTS/internal/geo"
)

// Data содержит извлеченные метаданные. Оба поля могут отсутствовать.
type Data struct {
	ShotAt      *time.Time
	Coordinates *geo.Coordinates
}

// Extract разбирает EXIF. Ошибки разбора не фатальны: файл без метаданных
// (или видео без EXIF) дает пустой результат.
func Extract(data []byte) Data {
	x, err := goexif.Decode(bytes.NewReader(data))
	if err != nil {
		return Data{}
	}

	result := Data{}

	if dt, err := x.DateTime(); err == nil {
		result.ShotAt = &dt
	}

	if lat, lng, err := x.LatLong(); err == nil {
		result.Coordinates = &geo.Coordinates{Lat: lat, Lng: lng}
	}

	return result
}
