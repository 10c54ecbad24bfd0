package models

import (
	"errors"
	"time"
)

// Статусы события.
const (
	EventUpcoming  = "UPCOMING"
	EventOngoing   = "ONGOING"
	EventCompleted = "COMPLETED"
	EventCancelled = "CANCELLED"
)

// Event основная модель события.
// Capacity == nil означает отсутствие ограничения на количество участников.
type Event struct {
	ID                string          `json:"id"`
	Title             string          `json:"title"`
	Description       string          `json:"description"`
	Image             *string         `json:"image"`
	StartDate         time.Time       `json:"startDate"`
	EndDate           *time.Time      `json:"endDate"`
	Time              *string         `json:"time"`
	Location          string          `json:"location"`
	Address           *string         `json:"address"`
	City              string          `json:"city"`
	Price             *float64        `json:"price"`
	Capacity          *int            `json:"capacity"`
	Published         bool            `json:"published"`
	AllowRegistration bool            `json:"allowRegistration"`
	Status            string          `json:"status"`
	OrganizerID       string          `json:"organizerId"`
	EventTypeID       string          `json:"eventTypeId"`
	Organizer         *UserSummary    `json:"organizer,omitempty"`
	EventType         *EventType      `json:"eventType,omitempty"`
	Categories        []Category      `json:"categories"`
	Registrations     []*Registration `json:"registrations,omitempty"`
	Count             EventCount      `json:"_count"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// EventCount количество активных записей (PENDING и CONFIRMED) на событие.
type EventCount struct {
	Registrations int `json:"registrations"`
}

// PriceOrZero возвращает цену события, считая отсутствующую цену нулевой.
func (e *Event) PriceOrZero() float64 {
	if e.Price == nil {
		return 0
	}
	return *e.Price
}

// IsFree событие бесплатное, если цена не задана или равна нулю.
func (e *Event) IsFree() bool {
	return e.PriceOrZero() == 0
}

// DummyEvent используется для приёма данных события из JSON-запроса.
// Даты приходят строками в формате RFC3339 или 2006-01-02.
type DummyEvent struct {
	Title             string   `json:"title" validate:"required"`
	Description       string   `json:"description" validate:"required"`
	EventTypeID       string   `json:"eventTypeId" validate:"required"`
	StartDate         string   `json:"startDate" validate:"required"`
	Location          string   `json:"location" validate:"required"`
	City              string   `json:"city" validate:"required"`
	EndDate           string   `json:"endDate,omitempty"`
	Time              *string  `json:"time,omitempty"`
	Image             *string  `json:"image,omitempty"`
	Address           *string  `json:"address,omitempty"`
	Price             *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Capacity          *int     `json:"capacity,omitempty" validate:"omitempty,gte=0"`
	Published         *bool    `json:"published,omitempty"`
	AllowRegistration *bool    `json:"allowRegistration,omitempty"`
	Status            string   `json:"status,omitempty" validate:"omitempty,oneof=UPCOMING ONGOING COMPLETED CANCELLED"`
	CategoryIDs       []string `json:"categoryIds"`
}

// EventFlags флаги и статус события, которые при обновлении меняются только если
// переданы в запросе. nil оставляет сохранённое значение.
type EventFlags struct {
	Published         *bool
	AllowRegistration *bool
	Status            *string
}

// PublishRequest тело запроса на публикацию или снятие события с публикации.
type PublishRequest struct {
	Published *bool `json:"published" validate:"required"`
}

// ErrInvalidDate дата события не распознана.
var ErrInvalidDate = errors.New("invalid date, expected RFC3339 or YYYY-MM-DD")
