package models

import "time"

// Post пост блога. С событиями не связан, разделяет с ними пользователей и категории.
type Post struct {
	ID         string       `json:"id"`
	Title      string       `json:"title"`
	Content    *string      `json:"content"`
	Published  bool         `json:"published"`
	Author     *UserSummary `json:"author"`
	Categories []Category   `json:"categories"`
	Count      PostCount    `json:"_count"`
	CreatedAt  time.Time    `json:"createdAt"`
}

// PostCount количество комментариев к посту.
type PostCount struct {
	Comments int `json:"comments"`
}
