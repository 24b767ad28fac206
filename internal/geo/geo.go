// Package geo содержит геометрию кластеризации: расстояние по большому кругу
// и поиск ближайшей известной локации в пределах радиуса кластера.
package geo

import (
	"math"

	"github.com/IvanTsarou/GenTS/internal/model"
)

const (
	// ClusterRadiusMeters задает порог, в пределах которого две точки считаются одним местом.
	ClusterRadiusMeters = 200.0
	earthRadiusMeters   = 6371000.0
)

// Coordinates хранит пару координат в градусах.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func toRadians(degrees float64) float64 {
	return degrees * (math.Pi / 180)
}

// Distance возвращает расстояние между точками в метрах (формула гаверсинусов).
func Distance(a, b Coordinates) float64 {
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	deltaLat := toRadians(b.Lat - a.Lat)
	deltaLng := toRadians(b.Lng - a.Lng)

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(deltaLng/2)*math.Sin(deltaLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMeters * c
}

// FindNearest возвращает ближайшую к point локацию, если она не дальше
// ClusterRadiusMeters, иначе nil. Локации без координат не участвуют в поиске.
// При равных расстояниях побеждает первая встреченная, результат детерминирован
// при одинаковом порядке locations. Набор локаций одной поездки мал, линейный
// проход достаточен.
func FindNearest(point Coordinates, locations []model.Location) *model.Location {
	var nearest *model.Location
	minDistance := math.Inf(1)

	for i := range locations {
		loc := &locations[i]
		if loc.Lat == nil || loc.Lng == nil {
			continue
		}
		d := Distance(point, Coordinates{Lat: *loc.Lat, Lng: *loc.Lng})
		if d <= ClusterRadiusMeters && d < minDistance {
			minDistance = d
			nearest = loc
		}
	}

	return nearest
}
