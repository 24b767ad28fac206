package repository

import (
	"fmt"

	"github.com/IvanTsarou/GenTS/internal/model"

	"github.com/jmoiron/sqlx"
)

// UserRepository обеспечивает доступ к данным пользователей в базе данных.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository создаёт новый репозиторий пользователей.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create добавляет нового пользователя. Возвращает ID созданной записи.
func (r *UserRepository) Create(user *model.User) (string, error) {
	query := `INSERT INTO users (telegram_id, name, username, is_verified, is_admin)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	var id string
	err := r.db.QueryRow(query, user.TelegramID, user.Name, user.Username, user.IsVerified, user.IsAdmin).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("не удалось создать пользователя: %w", err)
	}
	return id, nil
}

// GetByTelegramID ищет пользователя по его Telegram ID.
func (r *UserRepository) GetByTelegramID(telegramID int64) (*model.User, error) {
	var user model.User
	err := r.db.Get(&user, "SELECT * FROM users WHERE telegram_id=$1", telegramID)
	if err != nil {
		// sqlx.Get возвращает sql.ErrNoRows, если не найдено
		return nil, err
	}
	return &user, nil
}

// GetByID возвращает пользователя по внутреннему идентификатору.
func (r *UserRepository) GetByID(id string) (*model.User, error) {
	var user model.User
	err := r.db.Get(&user, "SELECT * FROM users WHERE id=$1", id)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// List возвращает пользователей; при onlyPending только ожидающих верификации.
func (r *UserRepository) List(onlyPending bool) ([]model.User, error) {
	users := []model.User{}
	query := "SELECT * FROM users ORDER BY created_at"
	if onlyPending {
		query = "SELECT * FROM users WHERE is_verified=false ORDER BY created_at"
	}
	if err := r.db.Select(&users, query); err != nil {
		return nil, fmt.Errorf("ошибка при получении списка пользователей: %w", err)
	}
	return users, nil
}

// SetVerified выставляет флаг верификации пользователя.
func (r *UserRepository) SetVerified(id string, verified bool) error {
	_, err := r.db.Exec("UPDATE users SET is_verified=$1 WHERE id=$2", verified, id)
	if err != nil {
		return fmt.Errorf("не удалось обновить верификацию пользователя: %w", err)
	}
	return nil
}

// SetAdmin выставляет флаг администратора.
func (r *UserRepository) SetAdmin(id string, admin bool) error {
	_, err := r.db.Exec("UPDATE users SET is_admin=$1 WHERE id=$2", admin, id)
	if err != nil {
		return fmt.Errorf("не удалось обновить права пользователя: %w", err)
	}
	return nil
}

// GetAdminTelegramIDs возвращает Telegram ID всех администраторов.
func (r *UserRepository) GetAdminTelegramIDs() ([]int64, error) {
	ids := []int64{}
	err := r.db.Select(&ids, "SELECT telegram_id FROM users WHERE is_admin=true")
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении списка администраторов: %w", err)
	}
	return ids, nil
}

// GetVerifiedTelegramIDs возвращает Telegram ID всех верифицированных пользователей.
func (r *UserRepository) GetVerifiedTelegramIDs() ([]int64, error) {
	ids := []int64{}
	err := r.db.Select(&ids, "SELECT telegram_id FROM users WHERE is_verified=true")
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении списка пользователей: %w", err)
	}
	return ids, nil
}
