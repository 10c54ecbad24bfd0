package models

// Варианты сортировки списка событий.
const (
	SortDateAsc   = "date-asc"
	SortDateDesc  = "date-desc"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
	SortPopular   = "popular"
)

// EventFilter параметры фильтрации списка событий, приходят из query-строки.
// Пустые поля означают отсутствие фильтра.
type EventFilter struct {
	PublishedOnly bool
	Query         string
	EventType     string
	Category      string
	City          string
	FreeOnly      bool
	Sort          string
}
