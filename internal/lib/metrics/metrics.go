// Package metrics объявляет метрики Prometheus сервиса событий.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Исходы записи на событие для метки outcome.
const (
	OutcomeCreated     = "created"
	OutcomeReactivated = "reactivated"
	OutcomeRejected    = "rejected"
	OutcomeError       = "error"
)

var (
	// RegistrationsTotal число попыток записи на событие по эндпоинту и исходу.
	RegistrationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "event_hub_registrations_total",
		Help: "Registration attempts by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})

	// NotificationsTotal число опубликованных и отправленных уведомлений.
	NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "event_hub_notifications_total",
		Help: "Notifications by kind and result.",
	}, []string{"kind", "result"})

	// EventStatusTransitions число событий, переведённых планировщиком в новый статус.
	EventStatusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "event_hub_event_status_transitions_total",
		Help: "Events moved to a new status by the scheduler.",
	}, []string{"status"})

	// HTTPRequestDuration длительность HTTP-запросов по маршруту, методу и коду ответа.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "event_hub_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method", "code"})
)
