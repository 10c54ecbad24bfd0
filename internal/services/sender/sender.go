// Package services отправляет участникам письма по уведомлениям из очереди.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/event-hub/internal/lib/metrics"
	"github.com/magabrotheeeer/event-hub/internal/lib/sl"
	"github.com/magabrotheeeer/event-hub/internal/lib/smtp"
	"github.com/magabrotheeeer/event-hub/internal/models"
)

// SenderService формирует и отправляет письма участникам.
type SenderService struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(log *slog.Logger, transport smtp.TransportInterface) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// Handle разбирает уведомление из очереди и отправляет письмо. Сообщения неизвестного
// вида подтверждаются без отправки.
func (s *SenderService) Handle(ctx context.Context, body []byte) error {
	var message models.Notification
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("Failed to unmarshal message body", "error", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	subject, text, ok := Render(message)
	if !ok {
		s.log.Warn("skipping notification of unknown kind", slog.String("kind", message.Kind))
		return nil
	}

	if err := s.sendEmail(ctx, []string{message.Email}, subject, text); err != nil {
		metrics.NotificationsTotal.WithLabelValues(message.Kind, "failed").Inc()
		return err
	}
	metrics.NotificationsTotal.WithLabelValues(message.Kind, "sent").Inc()
	return nil
}

// Render возвращает тему и текст письма для уведомления. ok == false для неизвестного вида.
func Render(n models.Notification) (subject, body string, ok bool) {
	when := formatDate(n.StartDate)
	switch n.Kind {
	case models.NotificationCreated:
		subject = "Inscripción recibida: " + n.EventTitle
		body = fmt.Sprintf("Hola, %s:\n\nHemos recibido tu inscripción al evento «%s».\n"+
			"Fecha: %s\nLugar: %s\nEstado: %s\n\n¡Te esperamos!",
			n.Name, n.EventTitle, when, n.Location, statusLabel(n.Status))
	case models.NotificationStatus:
		subject = "Tu inscripción ha cambiado: " + n.EventTitle
		body = fmt.Sprintf("Hola, %s:\n\nEl estado de tu inscripción al evento «%s» es ahora: %s.\n"+
			"Fecha: %s\nLugar: %s",
			n.Name, n.EventTitle, statusLabel(n.Status), when, n.Location)
	case models.NotificationReminder:
		subject = "Recordatorio: " + n.EventTitle
		body = fmt.Sprintf("Hola, %s:\n\nTe recordamos que el evento «%s» empieza pronto.\n"+
			"Fecha: %s\nLugar: %s\n\n¡Nos vemos allí!",
			n.Name, n.EventTitle, when, n.Location)
	default:
		return "", "", false
	}
	return subject, body, true
}

func statusLabel(status string) string {
	switch status {
	case models.RegistrationConfirmed:
		return "confirmada"
	case models.RegistrationPending:
		return "pendiente"
	case models.RegistrationCancelled:
		return "cancelada"
	default:
		return strings.ToLower(status)
	}
}

func formatDate(value string) string {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return value
	}
	return t.UTC().Format("02/01/2006 15:04") + " UTC"
}

func (s *SenderService) sendEmail(ctx context.Context, to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect(ctx)
	if err != nil {
		s.log.Error("Failed to connect to SMTP server", "error", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("Failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), "error", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("Failed to set RCPT TO", "recipient", addr, "error", sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("Failed to get Data writer", "error", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("Failed to write email body", "error", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("Failed to close Data writer", "error", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("Failed to quit SMTP client", "error", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", "to", to)
	return nil
}
