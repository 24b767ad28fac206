package service

import (
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/IvanTsarou/GenTS/internal/model"
	"github.com/IvanTsarou/GenTS/internal/repository"

	"go.uber.org/zap"
)

// ErrStoryNotFound возвращается, когда story для поездки еще не создавалась.
var ErrStoryNotFound = errors.New("story не найдена")

// StoryService управляет генерацией рассказа о поездке.
// Сама генерация текста заглушена: сервис собирает структуру поездки,
// публикует ее в лог и ставит story в очередь.
type StoryService struct {
	stories    *repository.StoryRepository
	structurer *StructureService
	log        *zap.Logger
}

// NewStoryService создает новый сервис story.
func NewStoryService(stories *repository.StoryRepository, structurer *StructureService, log *zap.Logger) *StoryService {
	return &StoryService{stories: stories, structurer: structurer, log: log}
}

// QueueGeneration строит структуру поездки и переводит story в статус pending.
// Возвращает построенную структуру.
func (s *StoryService) QueueGeneration(tripID string) (*model.StructuredTrip, error) {
	structured, err := s.structurer.StructureTrip(tripID)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(structured); err == nil {
		s.log.Info("структура поездки для генерации story",
			zap.String("trip_id", tripID),
			zap.ByteString("structured", payload))
	}

	if err := s.stories.UpsertPending(tripID); err != nil {
		return nil, err
	}

	// TODO: генерация текста по структуре (OpenAI), затем SetContent
	return structured, nil
}

// CompleteStory сохраняет текст, подготовленный внешним генератором,
// и помечает story завершенной.
func (s *StoryService) CompleteStory(tripID, content string) error {
	return s.stories.SetContent(tripID, content)
}

// FailGeneration помечает попытку генерации неудавшейся.
func (s *StoryService) FailGeneration(tripID string) error {
	return s.stories.UpdateStatus(tripID, model.StoryStatusFailed)
}

// GetStory возвращает story поездки.
func (s *StoryService) GetStory(tripID string) (*model.Story, error) {
	story, err := s.stories.GetByTrip(tripID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStoryNotFound
		}
		return nil, err
	}
	return story, nil
}
