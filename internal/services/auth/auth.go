// Package services содержит логику бизнес-уровня для аутентификации администраторов
// и создания организатора по умолчанию.
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/magabrotheeeer/event-hub/internal/lib/password"
	"github.com/magabrotheeeer/event-hub/internal/models"
	"github.com/magabrotheeeer/event-hub/internal/storage"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// EnsureUser создаёт пользователя, если его ещё нет, и возвращает его ID.
	EnsureUser(ctx context.Context, user models.User) (string, error)

	// GetUserByEmail возвращает пользователя по email или storage.ErrUserNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// TokenMaker выпускает JWT для пользователя.
type TokenMaker interface {
	GenerateToken(userID, email, role string) (string, error)
}

// AuthService отвечает за вход администраторов и выпуск JWT.
type AuthService struct {
	users    UserRepository
	jwtMaker TokenMaker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker TokenMaker) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Login проверяет пароль пользователя и возвращает подписанный JWT.
// Неизвестный email и неверный пароль неразличимы для вызывающего.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (string, error) {
	user, err := s.users.GetUserByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, storage.ErrUserNotFound) {
		return "", models.ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", models.ErrInvalidCredentials
	}
	return s.jwtMaker.GenerateToken(user.ID, user.Email, user.Role)
}

// EnsureOrganizer создаёт администратора, которому назначаются события без автора.
// Без пароля в конфиге аккаунт получает случайный пароль и войти под ним нельзя.
func (s *AuthService) EnsureOrganizer(ctx context.Context, name, email, rawPassword string) (string, error) {
	var (
		hash string
		err  error
	)
	if rawPassword != "" {
		hash, err = password.GetHash(rawPassword)
	} else {
		hash, err = password.PlaceholderHash()
	}
	if err != nil {
		return "", err
	}

	return s.users.EnsureUser(ctx, models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	})
}
