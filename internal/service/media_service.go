package service

import (
	"context"
	"time"

	"github.com/IvanTsarou/GenTS/internal/geo"
	"github.com/IvanTsarou/GenTS/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// PhotoLimitPerLocation ограничивает число медиа одного пользователя на локацию.
	PhotoLimitPerLocation = 3
	// backfillBatchSize задает, сколько последних непривязанных медиа связывает
	// одно сообщение с геопозицией.
	backfillBatchSize = 5
)

// MediaStore описывает хранилище медиа.
type MediaStore interface {
	Create(m *model.Media) error
	CountByLocationAndUser(locationID, userID string) (int, error)
	ListUnlinked(tripID, userID string, limit int) ([]model.Media, error)
	AttachLocation(mediaIDs []string, locationID string, lat, lng float64) error
}

// LocationResolver кластеризует точку в локацию поездки.
type LocationResolver interface {
	Resolve(ctx context.Context, tripID string, point geo.Coordinates) (*model.Location, error)
}

// MediaService сохраняет фото и видео и дозаполняет привязку к локациям.
type MediaService struct {
	media    MediaStore
	resolver LocationResolver
	log      *zap.Logger
	now      func() time.Time
}

// NewMediaService создает новый сервис медиа.
func NewMediaService(media MediaStore, resolver LocationResolver, log *zap.Logger) *MediaService {
	return &MediaService{
		media:    media,
		resolver: resolver,
		log:      log,
		now:      time.Now,
	}
}

// SaveMediaInput содержит параметры сохранения уже загруженного медиафайла.
type SaveMediaInput struct {
	TripID         string
	UserID         string
	TelegramFileID string
	FileURL        string
	ThumbnailURL   *string
	ShotAt         *time.Time
	Coordinates    *geo.Coordinates
	Caption        *string
}

// SaveMediaResult описывает итог сохранения.
type SaveMediaResult struct {
	Media            *model.Media
	Location         *model.Location // nil, если медиа без привязки
	LimitReached     bool            // лимит на локацию: медиа сохранено без привязки
	NeedsGeolocation bool            // нет координат: ждем сообщение с геопозицией
}

// SaveMedia сохраняет медиа. Если координаты есть, кластеризует их в локацию
// (с учетом лимита); если нет, оставляет запись непривязанной для
// последующего бэкфилла. Дата съемки по умолчанию равна моменту сохранения.
func (s *MediaService) SaveMedia(ctx context.Context, in SaveMediaInput) (*SaveMediaResult, error) {
	m := &model.Media{
		ID:             uuid.NewString(),
		TripID:         in.TripID,
		UserID:         in.UserID,
		TelegramFileID: &in.TelegramFileID,
		FileURL:        &in.FileURL,
		ThumbnailURL:   in.ThumbnailURL,
		Caption:        in.Caption,
	}

	shotAt := s.now()
	if in.ShotAt != nil {
		shotAt = *in.ShotAt
	}
	m.ShotAt = &shotAt

	if in.Coordinates == nil {
		if err := s.media.Create(m); err != nil {
			return nil, err
		}
		return &SaveMediaResult{Media: m, NeedsGeolocation: true}, nil
	}

	location, err := s.resolver.Resolve(ctx, in.TripID, *in.Coordinates)
	if err != nil {
		// Кластеризация не удалась; медиа важнее привязки
		s.log.Error("не удалось определить локацию медиа", zap.String("trip_id", in.TripID), zap.Error(err))
		location = nil
	}

	limitReached := false
	if location != nil {
		count, err := s.media.CountByLocationAndUser(location.ID, in.UserID)
		if err != nil {
			return nil, err
		}
		if count >= PhotoLimitPerLocation {
			limitReached = true
		}
	}

	lat, lng := in.Coordinates.Lat, in.Coordinates.Lng
	m.Lat = &lat
	m.Lng = &lng
	if location != nil && !limitReached {
		m.LocationID = &location.ID
	}

	if err := s.media.Create(m); err != nil {
		return nil, err
	}

	return &SaveMediaResult{Media: m, Location: location, LimitReached: limitReached}, nil
}

// AttachGeolocationResult описывает итог бэкфилла геолокации.
type AttachGeolocationResult struct {
	Location *model.Location
	Attached int // сколько медиа привязано
}

// AttachGeolocation привязывает последние непривязанные медиа пользователя
// к локации, полученной из пришедшей геопозиции, и дозаполняет их координаты.
func (s *MediaService) AttachGeolocation(ctx context.Context, tripID, userID string, point geo.Coordinates) (*AttachGeolocationResult, error) {
	unlinked, err := s.media.ListUnlinked(tripID, userID, backfillBatchSize)
	if err != nil {
		return nil, err
	}
	if len(unlinked) == 0 {
		return &AttachGeolocationResult{}, nil
	}

	location, err := s.resolver.Resolve(ctx, tripID, point)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(unlinked))
	for _, m := range unlinked {
		ids = append(ids, m.ID)
	}
	if err := s.media.AttachLocation(ids, location.ID, point.Lat, point.Lng); err != nil {
		return nil, err
	}

	return &AttachGeolocationResult{Location: location, Attached: len(ids)}, nil
}
