package service

import (
	"context"
	"sync"

	"github.com/IvanTsarou/GenTS/internal/geo"
	"github.com/IvanTsarou/GenTS/internal/geocode"
	"github.com/IvanTsarou/GenTS/internal/model"
	"github.com/IvanTsarou/GenTS/internal/wiki"

	"go.uber.org/zap"
)

// UnknownPlaceName подставляется как имя локации, когда обогащение недоступно.
const UnknownPlaceName = "Неизвестное место"

// LocationStore описывает хранилище локаций, используемое при кластеризации.
type LocationStore interface {
	ListByTrip(tripID string) ([]model.Location, error)
	Create(loc *model.Location) (*model.Location, error)
	GetByID(id string) (*model.Location, error)
}

// Geocoder выполняет обратное геокодирование координат.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, point geo.Coordinates) (*geocode.Result, error)
}

// KnowledgeBase ищет описание места по названию.
type KnowledgeBase interface {
	Search(ctx context.Context, query string) (*wiki.Result, error)
}

// LocationService решает, относится ли новая точка к существующей локации
// поездки или образует новую, и создает новые локации с обогащением.
type LocationService struct {
	locations LocationStore
	geocoder  Geocoder
	wiki      KnowledgeBase
	log       *zap.Logger
	tripLocks sync.Map // tripID -> *sync.Mutex
}

// NewLocationService создает новый сервис локаций.
func NewLocationService(locations LocationStore, geocoder Geocoder, kb KnowledgeBase, log *zap.Logger) *LocationService {
	return &LocationService{
		locations: locations,
		geocoder:  geocoder,
		wiki:      kb,
		log:       log,
	}
}

// Resolve возвращает локацию для точки: существующую в пределах радиуса
// кластера или новую. За вызов создается не более одной локации; ошибки
// обогащения не мешают созданию. Последовательность проверка-создание
// сериализуется по поездке, чтобы процесс не гонялся сам с собой
// (межпроцессные дубликаты остаются допустимыми).
func (s *LocationService) Resolve(ctx context.Context, tripID string, point geo.Coordinates) (*model.Location, error) {
	mu := s.tripLock(tripID)
	mu.Lock()
	defer mu.Unlock()

	existing, err := s.locations.ListByTrip(tripID)
	if err != nil {
		return nil, err
	}

	if nearest := geo.FindNearest(point, existing); nearest != nil {
		return nearest, nil
	}

	draft := s.enrich(ctx, point)
	draft.TripID = tripID
	lat, lng := point.Lat, point.Lng
	draft.Lat = &lat
	draft.Lng = &lng

	return s.locations.Create(draft)
}

// GetByID возвращает локацию по идентификатору (обертка над хранилищем).
func (s *LocationService) GetByID(id string) (*model.Location, error) {
	return s.locations.GetByID(id)
}

// ListByTrip возвращает все локации поездки.
func (s *LocationService) ListByTrip(tripID string) ([]model.Location, error) {
	return s.locations.ListByTrip(tripID)
}

// enrich собирает черновик новой локации: сначала обратное геокодирование,
// затем по его результату ищется описание. Порядок стадий обязателен:
// запрос к базе знаний строится из названия, которое вернул геокодер.
func (s *LocationService) enrich(ctx context.Context, point geo.Coordinates) *model.Location {
	name := UnknownPlaceName
	draft := &model.Location{Name: &name}

	geocoded, err := s.geocoder.ReverseGeocode(ctx, point)
	if err != nil {
		s.log.Warn("обратное геокодирование не удалось",
			zap.Float64("lat", point.Lat), zap.Float64("lng", point.Lng), zap.Error(err))
		return draft
	}
	if geocoded == nil {
		return draft
	}

	draft.Name = &geocoded.Name
	draft.Address = optional(geocoded.Address)
	draft.City = optional(geocoded.City)
	draft.Country = optional(geocoded.Country)
	draft.PlaceType = optional(geocoded.PlaceType)

	article, err := s.wiki.Search(ctx, geocoded.Name)
	if err != nil {
		s.log.Warn("поиск описания не удался", zap.String("place", geocoded.Name), zap.Error(err))
		return draft
	}
	if article != nil {
		draft.Description = optional(article.Description)
		draft.WikiURL = optional(article.URL)
	}

	return draft
}

func (s *LocationService) tripLock(tripID string) *sync.Mutex {
	mu, _ := s.tripLocks.LoadOrStore(tripID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
