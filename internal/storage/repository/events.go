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

// eventSelect выбирает событие вместе с организатором, типом и числом активных записей.
// Email организатора не выбирается: события отдаются публично.
const eventSelect = `SELECT e.id, e.title, e.description, e.image, e.start_date, e.end_date, e.time,
		e.location, e.address, e.city, e.price::float8, e.capacity, e.published, e.allow_registration,
		e.status, e.organizer_id, e.event_type_id, e.created_at, e.updated_at,
		u.id, u.name, u.image, u.bio,
		t.id, t.name,
		(SELECT COUNT(*) FROM registrations r
		  WHERE r.event_id = e.id AND r.status IN ('PENDING', 'CONFIRMED'))
	FROM events e
	JOIN users u ON u.id = e.organizer_id
	JOIN event_types t ON t.id = e.event_type_id`

func scanEvent(row scanner) (*models.Event, error) {
	e := &models.Event{
		Organizer:  &models.UserSummary{},
		EventType:  &models.EventType{},
		Categories: []models.Category{},
	}
	if err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Image, &e.StartDate, &e.EndDate, &e.Time,
		&e.Location, &e.Address, &e.City, &e.Price, &e.Capacity, &e.Published, &e.AllowRegistration,
		&e.Status, &e.OrganizerID, &e.EventTypeID, &e.CreatedAt, &e.UpdatedAt,
		&e.Organizer.ID, &e.Organizer.Name, &e.Organizer.Image, &e.Organizer.Bio,
		&e.EventType.ID, &e.EventType.Name,
		&e.Count.Registrations); err != nil {
		return nil, err
	}
	return e, nil
}

// ListEvents возвращает события, упорядоченные по published (сначала опубликованные),
// затем по дате начала. При publishedOnly возвращаются только опубликованные события.
func (s *Storage) ListEvents(ctx context.Context, publishedOnly bool) ([]*models.Event, error) {
	const op = "storage.ListEvents"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := eventSelect + `
	WHERE (NOT $1::boolean OR e.published)
	ORDER BY e.published DESC, e.start_date ASC`
	rows, err := s.DB.QueryContext(ctx, query, publishedOnly)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	result := []*models.Event{}
	ids := []string{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, e)
		ids = append(ids, e.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	categories, err := s.eventCategories(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, e := range result {
		if cs, ok := categories[e.ID]; ok {
			e.Categories = cs
		}
	}
	return result, nil
}

// GetEvent возвращает событие с категориями и всеми записями.
func (s *Storage) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	const op = "storage.GetEvent"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrEventNotFound)
	}

	e, err := scanEvent(s.DB.QueryRowContext(ctx, eventSelect+` WHERE e.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrEventNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	categories, err := s.eventCategories(ctx, []string{id})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if cs, ok := categories[id]; ok {
		e.Categories = cs
	}

	e.Registrations, err = s.listRegistrations(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return e, nil
}

// GetEventBrief возвращает событие без категорий и записей.
func (s *Storage) GetEventBrief(ctx context.Context, id string) (*models.Event, error) {
	const op = "storage.GetEventBrief"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrEventNotFound)
	}

	e, err := scanEvent(s.DB.QueryRowContext(ctx, eventSelect+` WHERE e.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrEventNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return e, nil
}

// EventExists проверяет существование события.
func (s *Storage) EventExists(ctx context.Context, id string) (bool, error) {
	const op = "storage.EventExists"
	if err := checkCtx(ctx, op); err != nil {
		return false, err
	}
	if !validID(id) {
		return false, nil
	}

	var exists bool
	if err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// CreateEvent вставляет событие и его категории в одной транзакции и возвращает созданное событие.
func (s *Storage) CreateEvent(ctx context.Context, e models.Event, categoryIDs []string) (*models.Event, error) {
	const op = "storage.CreateEvent"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback() //nolint:errcheck

	query := `INSERT INTO events (id, title, description, image, start_date, end_date, time,
				location, address, city, price, capacity, published, allow_registration,
				status, organizer_id, event_type_id)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	if _, err := tx.ExecContext(ctx, query,
		id, e.Title, e.Description, e.Image, e.StartDate, e.EndDate, e.Time,
		e.Location, e.Address, e.City, e.Price, e.Capacity, e.Published, e.AllowRegistration,
		e.Status, e.OrganizerID, e.EventTypeID); err != nil {
		return nil, wrap(op, err)
	}

	if err := linkCategoriesTx(ctx, tx, id, categoryIDs); err != nil {
		return nil, wrap(op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.GetEvent(ctx, id)
}

// UpdateEvent заменяет поля события и набор его категорий. Флаги из flags, равные nil,
// не меняются. Категории не сравниваются: все связи удаляются и создаются заново.
func (s *Storage) UpdateEvent(ctx context.Context, id string, e models.Event, flags models.EventFlags, categoryIDs []string) (*models.Event, error) {
	const op = "storage.UpdateEvent"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrEventNotFound)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback() //nolint:errcheck

	query := `UPDATE events
			  SET title = $2, description = $3, image = $4, start_date = $5, end_date = $6,
			      time = $7, location = $8, address = $9, city = $10, price = $11, capacity = $12,
			      published = COALESCE($13::boolean, published),
			      allow_registration = COALESCE($14::boolean, allow_registration),
			      status = COALESCE($15::text, status),
			      event_type_id = $16, updated_at = now()
			  WHERE id = $1`
	res, err := tx.ExecContext(ctx, query,
		id, e.Title, e.Description, e.Image, e.StartDate, e.EndDate,
		e.Time, e.Location, e.Address, e.City, e.Price, e.Capacity,
		flags.Published, flags.AllowRegistration, flags.Status, e.EventTypeID)
	if err != nil {
		return nil, wrap(op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrEventNotFound)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM event_categories WHERE event_id = $1`, id); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := linkCategoriesTx(ctx, tx, id, categoryIDs); err != nil {
		return nil, wrap(op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.GetEvent(ctx, id)
}

// SetPublished выставляет флаг публикации. Повторный вызов с тем же значением ничего не меняет.
func (s *Storage) SetPublished(ctx context.Context, id string, published bool) (*models.Event, error) {
	const op = "storage.SetPublished"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrEventNotFound)
	}

	res, err := s.DB.ExecContext(ctx,
		`UPDATE events SET published = $2, updated_at = now() WHERE id = $1`, id, published)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrEventNotFound)
	}
	return s.GetEvent(ctx, id)
}

// DeleteEvent удаляет событие; записи на него удаляются каскадно.
func (s *Storage) DeleteEvent(ctx context.Context, id string) error {
	const op = "storage.DeleteEvent"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}
	if !validID(id) {
		return fmt.Errorf("%s: %w", op, storage.ErrEventNotFound)
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrEventNotFound)
	}
	return nil
}

func linkCategoriesTx(ctx context.Context, tx *sql.Tx, eventID string, categoryIDs []string) error {
	for _, categoryID := range categoryIDs {
		if !validID(categoryID) {
			return storage.ErrInvalidReference
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO event_categories (event_id, category_id) VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`, eventID, categoryID); err != nil {
			return err
		}
	}
	return nil
}

// eventCategories возвращает категории для набора событий, сгруппированные по ID события.
func (s *Storage) eventCategories(ctx context.Context, eventIDs []string) (map[string][]models.Category, error) {
	result := make(map[string][]models.Category, len(eventIDs))
	if len(eventIDs) == 0 {
		return result, nil
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT ec.event_id, c.id, c.name
		 FROM event_categories ec
		 JOIN categories c ON c.id = ec.category_id
		 WHERE ec.event_id = ANY($1::uuid[])
		 ORDER BY c.name`, eventIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var eventID string
		var c models.Category
		if err := rows.Scan(&eventID, &c.ID, &c.Name); err != nil {
			return nil, err
		}
		result[eventID] = append(result[eventID], c)
	}
	return result, rows.Err()
}
