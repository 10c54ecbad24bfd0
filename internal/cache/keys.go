package cache

import "fmt"

// Ключи кэша, общие для сервисов.
const (
	EventListAllKey       = "events:list:all"
	EventListPublishedKey = "events:list:published"
	EventTypesKey         = "catalog:event-types"
	CategoriesKey         = "catalog:categories"
	DashboardStatsKey     = "dashboard:stats"
)

// EventKey ключ карточки события.
func EventKey(id string) string {
	return fmt.Sprintf("event:%s", id)
}

// EventListKey ключ списка событий: всех или только опубликованных.
func EventListKey(publishedOnly bool) string {
	if publishedOnly {
		return EventListPublishedKey
	}
	return EventListAllKey
}

// EventKeys все ключи, которые устаревают при изменении события или записей на него.
func EventKeys(id string) []string {
	return []string{EventKey(id), EventListAllKey, EventListPublishedKey}
}
