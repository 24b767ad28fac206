package repository

import (
	"fmt"

	"github.com/IvanTsarou/GenTS/internal/model"

	"github.com/jmoiron/sqlx"
)

// LocationRepository обеспечивает доступ к данным локаций в базе данных.
type LocationRepository struct {
	db *sqlx.DB
}

// NewLocationRepository создает новый репозиторий локаций.
func NewLocationRepository(db *sqlx.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

// Create сохраняет новую локацию. Возвращает созданную запись.
func (r *LocationRepository) Create(loc *model.Location) (*model.Location, error) {
	query := `INSERT INTO locations (trip_id, name, address, city, country, lat, lng, description, wiki_url, place_type)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          RETURNING *`
	var created model.Location
	err := r.db.Get(&created, query,
		loc.TripID, loc.Name, loc.Address, loc.City, loc.Country,
		loc.Lat, loc.Lng, loc.Description, loc.WikiURL, loc.PlaceType)
	if err != nil {
		return nil, fmt.Errorf("не удалось создать локацию: %w", err)
	}
	return &created, nil
}

// ListByTrip возвращает все локации поездки в порядке создания.
func (r *LocationRepository) ListByTrip(tripID string) ([]model.Location, error) {
	locations := []model.Location{}
	err := r.db.Select(&locations,
		"SELECT * FROM locations WHERE trip_id=$1 ORDER BY created_at", tripID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении списка локаций: %w", err)
	}
	return locations, nil
}

// GetByID получает локацию по идентификатору.
func (r *LocationRepository) GetByID(id string) (*model.Location, error) {
	var location model.Location
	err := r.db.Get(&location, "SELECT * FROM locations WHERE id=$1", id)
	if err != nil {
		return nil, err
	}
	return &location, nil
}
