package service

import "sync"

// StateService хранит временное состояние диалога в памяти процесса:
// сколько медиа пользователя ждут сообщения с геопозицией. Состояние
// живет до перезапуска; источником истины остается база (непривязанные медиа).
type StateService struct {
	awaitingLocation map[int64]int // TelegramID -> число медиа без геолокации
	mu               sync.Mutex
}

// NewStateService создает новый сервис состояния.
func NewStateService() *StateService {
	return &StateService{
		awaitingLocation: make(map[int64]int),
	}
}

// MarkAwaitingLocation отмечает, что у пользователя появилось медиа без геолокации.
func (s *StateService) MarkAwaitingLocation(telegramID int64) {
	s.mu.Lock()
	s.awaitingLocation[telegramID]++
	s.mu.Unlock()
}

// AwaitingLocation возвращает число медиа пользователя, ожидающих геопозицию.
func (s *StateService) AwaitingLocation(telegramID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.awaitingLocation[telegramID]
}

// ClearAwaitingLocation сбрасывает ожидание после привязки геолокации.
func (s *StateService) ClearAwaitingLocation(telegramID int64) {
	s.mu.Lock()
	delete(s.awaitingLocation, telegramID)
	s.mu.Unlock()
}
