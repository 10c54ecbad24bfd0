package rabbitmq

// NotificationsExchange direct-обменник для уведомлений о записях.
const NotificationsExchange = "notifications"

// Очереди и ключи маршрутизации уведомлений.
const (
	RegistrationsQueue = "notifications.registrations"
	RegistrationsKey   = "registrations"
	RemindersQueue     = "notifications.reminders"
	RemindersKey       = "reminders"
)

// QueueConfig очередь и ключ, с которым она привязана к обменнику.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNotificationQueues возвращает все очереди уведомлений.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: RegistrationsQueue, RoutingKey: RegistrationsKey},
		{QueueName: RemindersQueue, RoutingKey: RemindersKey},
	}
}
