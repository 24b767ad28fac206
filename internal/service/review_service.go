package service

import (
	"database/sql"
	"errors"
	"time"

	"github.com/IvanTsarou/GenTS/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// ReviewLimitPerLocation ограничивает число отзывов одного пользователя на локацию.
	ReviewLimitPerLocation = 3
	// lastPhotoWindow задает окно давности для эвристики «последнее фото пользователя».
	lastPhotoWindow = 2 * time.Hour
)

// MediaFinder дает выборки медиа, нужные для привязки контента к локации.
type MediaFinder interface {
	GetByTelegramFileID(tripID, fileID string) (*model.Media, error)
	LatestGeotagged(tripID, userID string, since time.Time) (*model.Media, error)
}

// ReviewStore описывает хранилище отзывов.
type ReviewStore interface {
	Create(rev *model.Review) error
	CountByLocationAndUser(locationID, userID string) (int, error)
}

// LocationGetter читает локацию по идентификатору.
type LocationGetter interface {
	GetByID(id string) (*model.Location, error)
}

// ReviewService сохраняет отзывы и привязывает контент без собственных
// координат к наиболее вероятной локации.
type ReviewService struct {
	reviews   ReviewStore
	media     MediaFinder
	locations LocationGetter
	log       *zap.Logger
	now       func() time.Time
}

// NewReviewService создает новый сервис отзывов.
func NewReviewService(reviews ReviewStore, media MediaFinder, locations LocationGetter, log *zap.Logger) *ReviewService {
	return &ReviewService{
		reviews:   reviews,
		media:     media,
		locations: locations,
		log:       log,
		now:       time.Now,
	}
}

// FindLocationForContent подбирает локацию для контента без координат.
// Эвристики по убыванию уверенности:
//  1. реплай на фото: берется локация этого фото (срок давности не важен);
//  2. последнее геотегированное медиа того же пользователя за 2 часа.
//
// nil без ошибки означает, что контент останется без привязки; это нормальный результат.
func (s *ReviewService) FindLocationForContent(tripID, userID, replyFileID string) (*model.Location, error) {
	if replyFileID != "" {
		media, err := s.media.GetByTelegramFileID(tripID, replyFileID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		if media != nil && media.LocationID != nil {
			return s.locations.GetByID(*media.LocationID)
		}
	}

	windowStart := s.now().Add(-lastPhotoWindow)
	recent, err := s.media.LatestGeotagged(tripID, userID, windowStart)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if recent.LocationID == nil {
		return nil, nil
	}
	return s.locations.GetByID(*recent.LocationID)
}

// SaveReviewResult описывает итог сохранения отзыва.
type SaveReviewResult struct {
	Review       *model.Review
	Location     *model.Location // nil, если отзыв без привязки
	LimitReached bool            // отзыв не сохранен: достигнут лимит на локацию
}

// SaveTextReview сохраняет текстовый отзыв, привязывая его к локации
// эвристиками FindLocationForContent. Днем поездки считается текущая дата UTC.
func (s *ReviewService) SaveTextReview(tripID, userID, text, replyFileID string) (*SaveReviewResult, error) {
	return s.save(tripID, userID, replyFileID, &model.Review{
		Text:   &text,
		Format: model.ReviewFormatText,
	})
}

// SaveVoiceReview сохраняет голосовой отзыв с уже загруженным аудио.
// Текст замещается заглушкой до транскрипции.
func (s *ReviewService) SaveVoiceReview(tripID, userID, audioURL, replyFileID string) (*SaveReviewResult, error) {
	placeholder := "[Голосовое сообщение: требуется транскрипция]"
	return s.save(tripID, userID, replyFileID, &model.Review{
		Text:     &placeholder,
		Format:   model.ReviewFormatAudio,
		AudioURL: &audioURL,
	})
}

func (s *ReviewService) save(tripID, userID, replyFileID string, rev *model.Review) (*SaveReviewResult, error) {
	location, err := s.FindLocationForContent(tripID, userID, replyFileID)
	if err != nil {
		return nil, err
	}

	// Лимит мягкий: проверка и вставка не атомарны
	if location != nil {
		count, err := s.reviews.CountByLocationAndUser(location.ID, userID)
		if err != nil {
			return nil, err
		}
		if count >= ReviewLimitPerLocation {
			return &SaveReviewResult{Location: location, LimitReached: true}, nil
		}
	}

	rev.ID = uuid.NewString()
	rev.TripID = tripID
	rev.UserID = userID
	now := s.now().UTC()
	dayDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	rev.DayDate = &dayDate
	if location != nil {
		rev.LocationID = &location.ID
	}

	if err := s.reviews.Create(rev); err != nil {
		return nil, err
	}

	return &SaveReviewResult{Review: rev, Location: location}, nil
}
