package services

import (
	"slices"
	"sort"
	"strings"

	"github.com/magabrotheeeer/event-hub/internal/models"
)

// FilterEvents применяет к списку событий фильтры и сортировку. Исходный срез не меняется.
// Без сортировки (или с неизвестным значением) сохраняется порядок, полученный из хранилища.
func FilterEvents(events []*models.Event, f models.EventFilter) []*models.Event {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	city := strings.ToLower(strings.TrimSpace(f.City))
	category := strings.ToLower(strings.TrimSpace(f.Category))

	result := make([]*models.Event, 0, len(events))
	for _, e := range events {
		if f.PublishedOnly && !e.Published {
			continue
		}
		if query != "" && !containsFold(query, e.Title, e.Description, e.Location) {
			continue
		}
		if f.EventType != "" && e.EventTypeID != f.EventType {
			continue
		}
		if category != "" && !hasCategory(e, category) {
			continue
		}
		if city != "" && !strings.Contains(strings.ToLower(e.City), city) {
			continue
		}
		if f.FreeOnly && !e.IsFree() {
			continue
		}
		result = append(result, e)
	}

	if less := sortFunc(f.Sort); less != nil {
		sort.SliceStable(result, func(i, j int) bool { return less(result[i], result[j]) })
	}
	return result
}

func containsFold(query string, fields ...string) bool {
	return slices.ContainsFunc(fields, func(field string) bool {
		return strings.Contains(strings.ToLower(field), query)
	})
}

func hasCategory(e *models.Event, category string) bool {
	return slices.ContainsFunc(e.Categories, func(c models.Category) bool {
		return strings.ToLower(c.ID) == category || strings.ToLower(c.Name) == category
	})
}

func sortFunc(order string) func(a, b *models.Event) bool {
	switch order {
	case models.SortDateAsc:
		return func(a, b *models.Event) bool { return a.StartDate.Before(b.StartDate) }
	case models.SortDateDesc:
		return func(a, b *models.Event) bool { return a.StartDate.After(b.StartDate) }
	case models.SortPriceAsc:
		return func(a, b *models.Event) bool { return a.PriceOrZero() < b.PriceOrZero() }
	case models.SortPriceDesc:
		return func(a, b *models.Event) bool { return a.PriceOrZero() > b.PriceOrZero() }
	case models.SortPopular:
		return func(a, b *models.Event) bool { return a.Count.Registrations > b.Count.Registrations }
	default:
		return nil
	}
}
