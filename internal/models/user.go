// Package models содержит доменные структуры сервиса событий: пользователей,
// события, категории, типы событий, записи на события и посты блога,
// а также DTO для приёма данных из JSON-запросов.
package models

import (
	"errors"
	"time"
)

// Роли пользователей.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User представляет пользователя системы.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // bcrypt-хэш, никогда не сериализуется
	Role         string    `json:"role"`
	Bio          *string   `json:"bio,omitempty"`
	Image        *string   `json:"image,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UserSummary краткое представление пользователя для вложенных ответов.
type UserSummary struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email,omitempty"`
	Image *string `json:"image,omitempty"`
	Bio   *string `json:"bio,omitempty"`
}

// Credentials данные для входа администратора.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ErrInvalidCredentials неверный email или пароль.
var ErrInvalidCredentials = errors.New("invalid credentials")

// LoginResponse ответ на успешный вход.
type LoginResponse struct {
	Token string `json:"token"`
}
