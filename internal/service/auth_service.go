package service

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/IvanTsarou/GenTS/internal/model"
	"github.com/IvanTsarou/GenTS/internal/repository"
)

// AuthService отвечает за регистрацию пользователей и контроль доступа к боту.
type AuthService struct {
	users *repository.UserRepository
}

// NewAuthService создает новый сервис аутентификации.
func NewAuthService(users *repository.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// RegisterOrGet находит пользователя по Telegram ID или регистрирует нового
// (доступ неверифицированным откроет администратор). Возвращает пользователя
// и признак того, что запись только что создана.
func (s *AuthService) RegisterOrGet(telegramID int64, firstName, lastName, username string) (*model.User, bool, error) {
	user, err := s.users.GetByTelegramID(telegramID)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("ошибка при поиске пользователя: %w", err)
	}

	name := firstName
	if lastName != "" {
		name = firstName + " " + lastName
	}
	newUser := &model.User{
		TelegramID: telegramID,
		Name:       optional(name),
		Username:   optional(username),
		IsVerified: false,
		IsAdmin:    false,
	}
	id, err := s.users.Create(newUser)
	if err != nil {
		return nil, false, err
	}
	newUser.ID = id
	return newUser, true, nil
}

// GetVerified возвращает пользователя, если он существует и верифицирован.
// (nil, nil) значит, что пользователь неизвестен; (user, nil) с IsVerified=false
// ожидает подтверждения.
func (s *AuthService) GetVerified(telegramID int64) (*model.User, error) {
	user, err := s.users.GetByTelegramID(telegramID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// AdminTelegramIDs возвращает Telegram ID администраторов (для уведомлений
// о новых заявках на доступ).
func (s *AuthService) AdminTelegramIDs() ([]int64, error) {
	return s.users.GetAdminTelegramIDs()
}
