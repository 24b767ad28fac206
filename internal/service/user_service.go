package service

import (
	"github.com/IvanTsarou/GenTS/internal/model"
	"github.com/IvanTsarou/GenTS/internal/repository"
)

// UserService содержит бизнес-логику, связанную с пользователями.
type UserService struct {
	users *repository.UserRepository
}

// NewUserService создает новый сервис пользователей.
func NewUserService(users *repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// GetByID возвращает пользователя по ID (обертка над репозиторием).
func (s *UserService) GetByID(id string) (*model.User, error) {
	return s.users.GetByID(id)
}

// GetByTelegramID возвращает пользователя по идентификатору Telegram.
func (s *UserService) GetByTelegramID(telegramID int64) (*model.User, error) {
	return s.users.GetByTelegramID(telegramID)
}

// List возвращает пользователей; при onlyPending только ожидающих верификации.
func (s *UserService) List(onlyPending bool) ([]model.User, error) {
	return s.users.List(onlyPending)
}

// SetVerified открывает или закрывает пользователю доступ к боту.
func (s *UserService) SetVerified(id string, verified bool) error {
	return s.users.SetVerified(id, verified)
}

// SetAdmin выдает или снимает права администратора.
func (s *UserService) SetAdmin(id string, admin bool) error {
	return s.users.SetAdmin(id, admin)
}

// VerifiedTelegramIDs возвращает telegram_id всех верифицированных пользователей.
func (s *UserService) VerifiedTelegramIDs() ([]int64, error) {
	return s.users.GetVerifiedTelegramIDs()
}
