package models

// Notification сообщение о записи на событие, публикуемое в очередь уведомлений.
type Notification struct {
	Kind       string `json:"kind"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	EventID    string `json:"event_id"`
	EventTitle string `json:"event_title"`
	StartDate  string `json:"start_date"`
	Location   string `json:"location"`
	Status     string `json:"status"`
}

// Виды уведомлений.
const (
	NotificationCreated  = "registration.created"
	NotificationStatus   = "registration.status"
	NotificationReminder = "registration.reminder"
)

// Reminder напоминание о предстоящем событии по конкретной записи.
type Reminder struct {
	RegistrationID string
	Notification
}
