package service

import (
	"database/sql"
	"errors"

	"github.com/IvanTsarou/GenTS/internal/model"
	"github.com/IvanTsarou/GenTS/internal/repository"
)

// TripService содержит бизнес-логику, связанную с поездками.
type TripService struct {
	trips     *repository.TripRepository
	media     *repository.MediaRepository
	reviews   *repository.ReviewRepository
	locations *repository.LocationRepository
}

// NewTripService создает новый сервис поездок.
func NewTripService(trips *repository.TripRepository, media *repository.MediaRepository,
	reviews *repository.ReviewRepository, locations *repository.LocationRepository) *TripService {
	return &TripService{trips: trips, media: media, reviews: reviews, locations: locations}
}

// CreateTrip создает активную поездку. groupID привязывает поездку к
// Telegram-группе; при nil поездка считается личной поездкой создателя.
func (s *TripService) CreateTrip(name, createdBy string, groupID *int64) (*model.Trip, error) {
	trip := &model.Trip{
		Name:            name,
		CreatedBy:       &createdBy,
		TelegramGroupID: groupID,
		Status:          model.TripStatusActive,
	}
	id, err := s.trips.Create(trip)
	if err != nil {
		return nil, err
	}
	return s.trips.GetByID(id)
}

// ActiveTrip возвращает активную поездку чата: для группы привязанную к
// группе, для личного чата последнюю активную поездку пользователя.
// (nil, nil) значит, что активной поездки нет.
func (s *TripService) ActiveTrip(chatID int64, isGroup bool, userID string) (*model.Trip, error) {
	var trip *model.Trip
	var err error
	if isGroup {
		trip, err = s.trips.GetActiveByGroup(chatID)
	} else {
		trip, err = s.trips.GetActiveByCreator(userID)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return trip, nil
}

// ListTrips возвращает поездки чата, новые первыми.
func (s *TripService) ListTrips(chatID int64, isGroup bool, userID string) ([]model.Trip, error) {
	if isGroup {
		return s.trips.ListByGroup(chatID)
	}
	return s.trips.ListByCreator(userID)
}

// GetByID возвращает поездку по идентификатору.
func (s *TripService) GetByID(id string) (*model.Trip, error) {
	return s.trips.GetByID(id)
}

// TripStats содержит сводку поездки для команды /status.
type TripStats struct {
	Days      int
	Locations int
	Photos    int
	Reviews   int
}

// Stats считает сводку по поездке.
func (s *TripService) Stats(tripID string) (*TripStats, error) {
	days, err := s.media.CountShotDays(tripID)
	if err != nil {
		return nil, err
	}
	locations, err := s.locations.ListByTrip(tripID)
	if err != nil {
		return nil, err
	}
	photos, err := s.media.CountByTrip(tripID)
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviews.CountByTrip(tripID)
	if err != nil {
		return nil, err
	}
	return &TripStats{
		Days:      days,
		Locations: len(locations),
		Photos:    photos,
		Reviews:   reviews,
	}, nil
}

// LocationWithCounts содержит локацию со счетчиками для команды /locations.
type LocationWithCounts struct {
	Location model.Location
	Photos   int
	Reviews  int
}

// LocationsWithCounts возвращает локации поездки со счетчиками фото и отзывов.
func (s *TripService) LocationsWithCounts(tripID string) ([]LocationWithCounts, error) {
	locations, err := s.locations.ListByTrip(tripID)
	if err != nil {
		return nil, err
	}
	result := make([]LocationWithCounts, 0, len(locations))
	for _, loc := range locations {
		photos, err := s.media.CountByLocation(loc.ID)
		if err != nil {
			return nil, err
		}
		reviews, err := s.reviews.CountByLocation(loc.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, LocationWithCounts{Location: loc, Photos: photos, Reviews: reviews})
	}
	return result, nil
}
