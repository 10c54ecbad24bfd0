package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/event-hub/internal/models"
	"github.com/magabrotheeeer/event-hub/internal/storage"
)

const registrationSelect = `SELECT r.id, r.event_id, r.user_id, r.name, r.email, r.phone, r.city, r.notes,
		r.status, r.reminder_sent_at, r.created_at, r.updated_at,
		u.id, u.name, u.email, u.image
	FROM registrations r
	LEFT JOIN users u ON u.id = r.user_id`

// registrationOrder CONFIRMED, PENDING, CANCELLED, внутри статуса новые записи первыми.
const registrationOrder = `
	ORDER BY CASE r.status WHEN 'CONFIRMED' THEN 0 WHEN 'PENDING' THEN 1 ELSE 2 END,
		r.created_at DESC`

func scanRegistration(row scanner) (*models.Registration, error) {
	r := &models.Registration{}
	var userID, userName, userEmail *string
	var userImage *string
	if err := row.Scan(&r.ID, &r.EventID, &r.UserID, &r.Name, &r.Email, &r.Phone, &r.City, &r.Notes,
		&r.Status, &r.ReminderSentAt, &r.CreatedAt, &r.UpdatedAt,
		&userID, &userName, &userEmail, &userImage); err != nil {
		return nil, err
	}
	if userID != nil {
		r.User = &models.UserSummary{ID: *userID, Image: userImage}
		if userName != nil {
			r.User.Name = *userName
		}
		if userEmail != nil {
			r.User.Email = *userEmail
		}
	}
	return r, nil
}

// lockedEvent поля события, нужные для проверки правил записи.
type lockedEvent struct {
	status            string
	capacity          *int
	allowRegistration bool
}

// lockEvent блокирует строку события до конца транзакции. Все записи на одно событие
// выполняются последовательно, поэтому подсчёт мест и вставка не гоняются друг с другом.
func lockEvent(ctx context.Context, tx *sql.Tx, eventID string) (*lockedEvent, error) {
	if !validID(eventID) {
		return nil, storage.ErrEventNotFound
	}
	ev := &lockedEvent{}
	err := tx.QueryRowContext(ctx,
		`SELECT status, capacity, allow_registration FROM events WHERE id = $1 FOR UPDATE`, eventID,
	).Scan(&ev.status, &ev.capacity, &ev.allowRegistration)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return ev, nil
}

// checkCapacity возвращает ErrEventFull, если активных записей не меньше вместимости.
// Вместимость 0 закрывает событие для записи, nil означает отсутствие ограничения.
func checkCapacity(ctx context.Context, tx *sql.Tx, eventID string, capacity *int) error {
	if capacity == nil {
		return nil
	}
	var active int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM registrations
		 WHERE event_id = $1 AND status IN ('PENDING', 'CONFIRMED')`, eventID,
	).Scan(&active); err != nil {
		return err
	}
	if active >= *capacity {
		return storage.ErrEventFull
	}
	return nil
}

// RegisterAttendee регистрирует участника на событие: проверяет статус и вместимость события,
// находит (или создаёт) пользователя, восстанавливает отменённую запись либо создаёт новую
// в статусе CONFIRMED.
func (s *Storage) RegisterAttendee(ctx context.Context, eventID string, a models.NewAttendee) (*models.AttendeeResult, error) {
	const op = "storage.RegisterAttendee"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback() //nolint:errcheck

	ev, err := lockEvent(ctx, tx, eventID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if ev.status == models.EventCancelled {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrEventCancelled)
	}
	if err := checkCapacity(ctx, tx, eventID, ev.capacity); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var user *models.User
	switch {
	case a.UserID != "":
		user, err = getUserTx(ctx, tx, a.UserID)
	case a.Email != "":
		user, err = findOrCreateUserTx(ctx, tx, a.Email, a.Name, a.PlaceholderHash)
	default:
		err = storage.ErrIdentityRequired
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var existingID, existingStatus string
	err = tx.QueryRowContext(ctx,
		`SELECT id, status FROM registrations
		 WHERE event_id = $1 AND (user_id = $2 OR lower(email) = lower($3))
		 ORDER BY (status <> 'CANCELLED') DESC, created_at DESC
		 LIMIT 1`, eventID, user.ID, user.Email,
	).Scan(&existingID, &existingStatus)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := &models.AttendeeResult{}
	switch {
	case err == nil && existingStatus != models.RegistrationCancelled:
		return nil, fmt.Errorf("%s: %w", op, storage.ErrAlreadyRegistered)
	case err == nil:
		_, err = tx.ExecContext(ctx,
			`UPDATE registrations SET status = $2, user_id = $3, updated_at = now() WHERE id = $1`,
			existingID, models.RegistrationConfirmed, user.ID)
		result.Reactivated = true
	default:
		existingID = uuid.NewString()
		_, err = tx.ExecContext(ctx,
			`INSERT INTO registrations (id, event_id, user_id, name, email, status)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			existingID, eventID, user.ID, user.Name, user.Email, models.RegistrationConfirmed)
	}
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrAlreadyRegistered)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result.Registration, err = scanRegistration(tx.QueryRowContext(ctx,
		registrationSelect+` WHERE r.id = $1`, existingID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CreateRegistration создаёт запись по контактным данным, если событие принимает записи
// и не заполнено. Запись связывается с пользователем с тем же email, если такой есть.
func (s *Storage) CreateRegistration(ctx context.Context, eventID string, r models.Registration) (*models.Registration, error) {
	const op = "storage.CreateRegistration"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback() //nolint:errcheck

	ev, err := lockEvent(ctx, tx, eventID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !ev.allowRegistration {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrRegistrationClosed)
	}
	if err := checkCapacity(ctx, tx, eventID, ev.capacity); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if r.UserID == nil {
		var userID string
		err = tx.QueryRowContext(ctx,
			`SELECT id FROM users WHERE lower(email) = lower($1)`, r.Email).Scan(&userID)
		switch {
		case err == nil:
			r.UserID = &userID
		case !errors.Is(err, sql.ErrNoRows):
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	} else if !validID(*r.UserID) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrInvalidReference)
	}

	id := uuid.NewString()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO registrations (id, event_id, user_id, name, email, phone, city, notes, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		id, eventID, r.UserID, r.Name, r.Email, r.Phone, r.City, r.Notes, r.Status); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrAlreadyRegistered)
		}
		return nil, wrap(op, err)
	}

	created, err := scanRegistration(tx.QueryRowContext(ctx, registrationSelect+` WHERE r.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// ListRegistrations возвращает записи на событие: CONFIRMED, PENDING, CANCELLED,
// внутри статуса по убыванию даты создания.
func (s *Storage) ListRegistrations(ctx context.Context, eventID string) ([]*models.Registration, error) {
	const op = "storage.ListRegistrations"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	exists, err := s.EventExists(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrEventNotFound)
	}

	result, err := s.listRegistrations(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

func (s *Storage) listRegistrations(ctx context.Context, eventID string) ([]*models.Registration, error) {
	rows, err := s.DB.QueryContext(ctx, registrationSelect+` WHERE r.event_id = $1`+registrationOrder, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []*models.Registration{}
	for rows.Next() {
		r, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// UpdateRegistrationStatus меняет статус записи, принадлежащей событию. Любые переходы
// между статусами разрешены.
func (s *Storage) UpdateRegistrationStatus(ctx context.Context, eventID, registrationID, status string) (*models.Registration, error) {
	const op = "storage.UpdateRegistrationStatus"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	if !validID(eventID) || !validID(registrationID) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrRegistrationNotFound)
	}

	res, err := s.DB.ExecContext(ctx,
		`UPDATE registrations SET status = $3, updated_at = now()
		 WHERE id = $1 AND event_id = $2`, registrationID, eventID, status)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrAlreadyRegistered)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrRegistrationNotFound)
	}

	r, err := scanRegistration(s.DB.QueryRowContext(ctx, registrationSelect+` WHERE r.id = $1`, registrationID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return r, nil
}

// DeleteRegistration удаляет запись, принадлежащую событию.
func (s *Storage) DeleteRegistration(ctx context.Context, eventID, registrationID string) error {
	const op = "storage.DeleteRegistration"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}
	if !validID(eventID) || !validID(registrationID) {
		return fmt.Errorf("%s: %w", op, storage.ErrRegistrationNotFound)
	}

	res, err := s.DB.ExecContext(ctx,
		`DELETE FROM registrations WHERE id = $1 AND event_id = $2`, registrationID, eventID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrRegistrationNotFound)
	}
	return nil
}
