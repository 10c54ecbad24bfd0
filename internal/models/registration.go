package models

import (
	"errors"
	"time"
)

// Статусы записи на событие. Активными считаются PENDING и CONFIRMED,
// именно они учитываются при проверке вместимости события.
const (
	RegistrationPending   = "PENDING"
	RegistrationConfirmed = "CONFIRMED"
	RegistrationCancelled = "CANCELLED"
)

// ValidRegistrationStatus проверяет, что статус входит в допустимый набор.
func ValidRegistrationStatus(status string) bool {
	switch status {
	case RegistrationPending, RegistrationConfirmed, RegistrationCancelled:
		return true
	}
	return false
}

// Registration запись участника на событие. UserID заполнен, если участник
// известен системе, контактные данные сохраняются всегда.
type Registration struct {
	ID             string       `json:"id"`
	EventID        string       `json:"eventId"`
	UserID         *string      `json:"userId"`
	Name           string       `json:"name"`
	Email          string       `json:"email"`
	Phone          *string      `json:"phone"`
	City           *string      `json:"city"`
	Notes          *string      `json:"notes"`
	Status         string       `json:"status"`
	User           *UserSummary `json:"user,omitempty"`
	ReminderSentAt *time.Time   `json:"-"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

// AttendeeRequest тело запроса POST /events/{id}/register.
// Участник определяется по userId, либо по email (с созданием пользователя, если передано имя).
type AttendeeRequest struct {
	UserID string `json:"userId,omitempty" validate:"omitempty,uuid"`
	Email  string `json:"email,omitempty" validate:"omitempty,email"`
	Name   string `json:"name,omitempty"`
}

// DummyRegistration тело запроса POST /events/{id}/registrations.
type DummyRegistration struct {
	Name   string  `json:"name" validate:"required"`
	Email  string  `json:"email" validate:"required,email"`
	Phone  *string `json:"phone,omitempty"`
	City   *string `json:"city,omitempty"`
	Notes  *string `json:"notes,omitempty"`
	Status string  `json:"status,omitempty" validate:"omitempty,oneof=PENDING CONFIRMED CANCELLED"`
	UserID *string `json:"userId,omitempty" validate:"omitempty,uuid"`
}

// StatusRequest тело запроса на смену статуса записи.
type StatusRequest struct {
	Status string `json:"status"`
}

// AttendeeResult результат регистрации участника: запись и признак того,
// что была восстановлена ранее отменённая запись.
type AttendeeResult struct {
	Registration *Registration
	Reactivated  bool
}

// NewAttendee данные, которые сервис передаёт в хранилище для регистрации участника.
// PlaceholderHash используется, если по email придётся создать нового пользователя.
type NewAttendee struct {
	UserID          string
	Email           string
	Name            string
	PlaceholderHash string
}

// ErrInvalidStatus статус записи не входит в допустимый набор.
var ErrInvalidStatus = errors.New("invalid registration status")
