package model

import "time"

// User представляет участника поездки, идентифицируемого по Telegram ID.
type User struct {
	ID         string    `db:"id"`
	TelegramID int64     `db:"telegram_id"`
	Name       *string   `db:"name"`
	Username   *string   `db:"username"`
	IsVerified bool      `db:"is_verified"` // доступ к боту открывает администратор
	IsAdmin    bool      `db:"is_admin"`
	CreatedAt  time.Time `db:"created_at"`
}

// DisplayName возвращает имя пользователя для отображения (имя, затем username).
func (u *User) DisplayName() string {
	if u.Name != nil && *u.Name != "" {
		return *u.Name
	}
	if u.Username != nil && *u.Username != "" {
		return *u.Username
	}
	return "Unknown"
}
