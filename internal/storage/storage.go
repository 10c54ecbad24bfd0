// Package storage содержит ошибки слоя хранения, общие для репозитория,
// сервисов и HTTP-обработчиков.
package storage

import "errors"

var (
	// ErrEventNotFound событие не найдено.
	ErrEventNotFound = errors.New("event not found")
	// ErrRegistrationNotFound запись не найдена или принадлежит другому событию.
	ErrRegistrationNotFound = errors.New("registration not found")
	// ErrUserNotFound пользователь не найден.
	ErrUserNotFound = errors.New("user not found")
	// ErrEventCancelled событие отменено, запись невозможна.
	ErrEventCancelled = errors.New("event is cancelled")
	// ErrEventFull достигнута вместимость события.
	ErrEventFull = errors.New("event reached its capacity")
	// ErrRegistrationClosed событие не принимает записи.
	ErrRegistrationClosed = errors.New("event does not allow registrations")
	// ErrAlreadyRegistered у участника уже есть активная запись на событие.
	ErrAlreadyRegistered = errors.New("already registered for this event")
	// ErrNameRequired имя нужно, чтобы создать нового пользователя по email.
	ErrNameRequired = errors.New("name is required to create a new user")
	// ErrIdentityRequired не передан ни userId, ни email.
	ErrIdentityRequired = errors.New("userId or email is required")
	// ErrInvalidReference ссылка на несуществующий тип события, категорию или пользователя.
	ErrInvalidReference = errors.New("invalid reference")
)
