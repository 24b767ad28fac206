package service

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/IvanTsarou/GenTS/internal/model"
)

// ErrTripNotFound возвращается при структурировании несуществующей поездки.
var ErrTripNotFound = errors.New("поездка не найдена")

// unassignedBucketID задает ключ псевдолокации для контента без привязки.
const unassignedBucketID = "unassigned"

// unassignedBucketName задает отображаемое имя псевдолокации.
const unassignedBucketName = "Без локации"

// TripReader читает поездку.
type TripReader interface {
	GetByID(id string) (*model.Trip, error)
}

// MediaLister читает медиа поездки с авторами.
type MediaLister interface {
	ListByTripWithAuthors(tripID string) ([]model.MediaWithAuthor, error)
}

// ReviewLister читает отзывы поездки с авторами.
type ReviewLister interface {
	ListByTripWithAuthors(tripID string) ([]model.ReviewWithAuthor, error)
}

// LocationLister читает локации поездки.
type LocationLister interface {
	ListByTrip(tripID string) ([]model.Location, error)
}

// StructureService восстанавливает хронологию поездки из плоских записей:
// дни -> локации -> фото и отзывы.
type StructureService struct {
	trips     TripReader
	media     MediaLister
	reviews   ReviewLister
	locations LocationLister
}

// NewStructureService создает новый сервис структурирования.
func NewStructureService(trips TripReader, media MediaLister, reviews ReviewLister, locations LocationLister) *StructureService {
	return &StructureService{
		trips:     trips,
		media:     media,
		reviews:   reviews,
		locations: locations,
	}
}

// StructureTrip читает все данные поездки и строит ее структуру.
func (s *StructureService) StructureTrip(tripID string) (*model.StructuredTrip, error) {
	trip, err := s.trips.GetByID(tripID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTripNotFound
		}
		return nil, fmt.Errorf("ошибка при чтении поездки: %w", err)
	}

	media, err := s.media.ListByTripWithAuthors(tripID)
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviews.ListByTripWithAuthors(tripID)
	if err != nil {
		return nil, err
	}
	locations, err := s.locations.ListByTrip(tripID)
	if err != nil {
		return nil, err
	}

	return Build(trip, media, reviews, locations), nil
}

// Build структурирует поездку без побочных эффектов. Повторный вызов на тех же данных
// дает идентичный результат; побочных эффектов нет.
//
// Ключ дня для медиа: календарная дата shot_at (иначе created_at), для
// отзывов: day_date (иначе created_at); дата берется по UTC без смещения.
// Дни сортируются по возрастанию даты и нумеруются с единицы. Внутри дня
// сначала обрабатываются все фото, затем все отзывы; локации идут в
// порядок первого появления в этом проходе. Контент без локации, как и
// контент с битой ссылкой на локацию, попадает в псевдолокацию «Без локации».
func Build(trip *model.Trip, media []model.MediaWithAuthor, reviews []model.ReviewWithAuthor, locations []model.Location) *model.StructuredTrip {
	locationsByID := make(map[string]*model.Location, len(locations))
	for i := range locations {
		locationsByID[locations[i].ID] = &locations[i]
	}

	type dayContent struct {
		photos  []model.MediaWithAuthor
		reviews []model.ReviewWithAuthor
	}
	dayMap := make(map[string]*dayContent)

	day := func(key string) *dayContent {
		d, ok := dayMap[key]
		if !ok {
			d = &dayContent{}
			dayMap[key] = d
		}
		return d
	}

	for _, m := range media {
		d := day(mediaDayKey(&m.Media))
		d.photos = append(d.photos, m)
	}
	for _, r := range reviews {
		d := day(reviewDayKey(&r.Review))
		d.reviews = append(d.reviews, r)
	}

	// Формат YYYY-MM-DD сортируется лексикографически
	dates := make([]string, 0, len(dayMap))
	for date := range dayMap {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	days := make([]model.StructuredDay, 0, len(dates))
	for i, date := range dates {
		content := dayMap[date]

		buckets := map[string]*model.StructuredLocation{}
		order := []string{}

		bucket := func(locationID *string) *model.StructuredLocation {
			key := unassignedBucketID
			var loc *model.Location
			if locationID != nil {
				if found, ok := locationsByID[*locationID]; ok {
					key = *locationID
					loc = found
				}
				// Битая ссылка деградирует в псевдолокацию
			}
			b, ok := buckets[key]
			if !ok {
				b = &model.StructuredLocation{
					Location: locationSnapshot(key, loc),
					Photos:   []model.StructuredPhoto{},
					Reviews:  []model.StructuredReview{},
				}
				buckets[key] = b
				order = append(order, key)
			}
			return b
		}

		for _, m := range content.photos {
			b := bucket(m.LocationID)
			b.Photos = append(b.Photos, model.StructuredPhoto{
				ID:           m.ID,
				URL:          m.FileURL,
				ThumbnailURL: m.ThumbnailURL,
				Caption:      m.Caption,
				ShotAt:       formatInstant(m.ShotAt),
				Author:       m.Author(),
			})
		}
		for _, r := range content.reviews {
			b := bucket(r.LocationID)
			b.Reviews = append(b.Reviews, model.StructuredReview{
				ID:        r.ID,
				Text:      r.Text,
				Format:    r.Format,
				Author:    r.Author(),
				CreatedAt: r.CreatedAt.UTC().Format(time.RFC3339),
			})
		}

		dayLocations := make([]model.StructuredLocation, 0, len(order))
		for _, key := range order {
			dayLocations = append(dayLocations, *buckets[key])
		}

		days = append(days, model.StructuredDay{
			Date:      date,
			DayNumber: i + 1,
			Locations: dayLocations,
		})
	}

	return &model.StructuredTrip{
		Trip: model.TripSummary{
			ID:        trip.ID,
			Name:      trip.Name,
			Status:    trip.Status,
			CreatedAt: trip.CreatedAt.UTC().Format(time.RFC3339),
		},
		Days: days,
	}
}

func mediaDayKey(m *model.Media) string {
	if m.ShotAt != nil {
		return m.ShotAt.UTC().Format("2006-01-02")
	}
	return m.CreatedAt.UTC().Format("2006-01-02")
}

func reviewDayKey(r *model.Review) string {
	if r.DayDate != nil {
		return r.DayDate.UTC().Format("2006-01-02")
	}
	return r.CreatedAt.UTC().Format("2006-01-02")
}

func locationSnapshot(key string, loc *model.Location) model.LocationSnapshot {
	if loc == nil {
		name := unassignedBucketName
		return model.LocationSnapshot{ID: key, Name: &name}
	}
	return model.LocationSnapshot{
		ID:          loc.ID,
		Name:        loc.Name,
		Description: loc.Description,
		Address:     loc.Address,
		City:        loc.City,
		Country:     loc.Country,
	}
}

func formatInstant(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.UTC().Format(time.RFC3339)
	return &formatted
}
