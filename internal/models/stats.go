package models

// DashboardStats агрегированная статистика для панели администратора.
// PopularCategory равна nil, если ни одно событие не связано с категориями.
type DashboardStats struct {
	TotalEvents     int     `json:"totalEvents"`
	PublishedEvents int     `json:"publishedEvents"`
	PopularCategory *string `json:"popularCategory"`
}
