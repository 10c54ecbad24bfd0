package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/magabrotheeeer/event-hub/internal/models"
)

// AdvanceEventStatuses переводит события по времени: UPCOMING становится ONGOING
// после начала, UPCOMING и ONGOING становятся COMPLETED после окончания.
// Если дата окончания не задана, событие считается завершённым через сутки после начала.
// Отменённые события не затрагиваются. Возвращает ID начавшихся и завершённых событий.
func (s *Storage) AdvanceEventStatuses(ctx context.Context, now time.Time) (started, completed []string, err error) {
	const op = "storage.AdvanceEventStatuses"
	if err := checkCtx(ctx, op); err != nil {
		return nil, nil, err
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback() //nolint:errcheck

	completed, err = updateStatusIDs(ctx, tx,
		`UPDATE events SET status = $2, updated_at = now()
		 WHERE status IN ($3, $4)
		   AND coalesce(end_date, start_date + interval '1 day') < $1
		 RETURNING id`,
		now, models.EventCompleted, models.EventUpcoming, models.EventOngoing)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	started, err = updateStatusIDs(ctx, tx,
		`UPDATE events SET status = $2, updated_at = now()
		 WHERE status = $3 AND start_date <= $1
		 RETURNING id`,
		now, models.EventOngoing, models.EventUpcoming)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	return started, completed, nil
}

func updateStatusIDs(ctx context.Context, tx *sql.Tx, query string, args ...any) ([]string, error) {
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// FindPendingReminders возвращает подтверждённые записи на опубликованные и не отменённые события,
// которые начинаются в интервале [from, to), и по которым напоминание ещё не отправлялось.
func (s *Storage) FindPendingReminders(ctx context.Context, from, to time.Time) ([]*models.Reminder, error) {
	const op = "storage.FindPendingReminders"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT r.id, r.email, r.name, r.status, e.id, e.title, e.start_date, e.location
		FROM registrations r
		JOIN events e ON e.id = r.event_id
		WHERE r.status = 'CONFIRMED'
		  AND r.reminder_sent_at IS NULL
		  AND e.published
		  AND e.status <> 'CANCELLED'
		  AND e.start_date >= $1 AND e.start_date < $2
		ORDER BY e.start_date ASC`
	rows, err := s.DB.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	result := []*models.Reminder{}
	for rows.Next() {
		var startDate time.Time
		r := &models.Reminder{Notification: models.Notification{Kind: models.NotificationReminder}}
		if err := rows.Scan(&r.RegistrationID, &r.Email, &r.Name, &r.Status,
			&r.EventID, &r.EventTitle, &startDate, &r.Location); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		r.StartDate = startDate.UTC().Format(time.RFC3339)
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// MarkReminderSent отмечает, что напоминание по записи отправлено.
func (s *Storage) MarkReminderSent(ctx context.Context, registrationID string, at time.Time) error {
	const op = "storage.MarkReminderSent"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	if _, err := s.DB.ExecContext(ctx,
		`UPDATE registrations SET reminder_sent_at = $2 WHERE id = $1`, registrationID, at); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
