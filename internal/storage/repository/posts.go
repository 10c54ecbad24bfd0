package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/event-hub/internal/models"
)

// ListPublishedPosts возвращает опубликованные посты с автором, категориями
// и количеством комментариев, новые первыми.
func (s *Storage) ListPublishedPosts(ctx context.Context) ([]*models.Post, error) {
	const op = "storage.ListPublishedPosts"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT p.id, p.title, p.content, p.published, p.created_at,
			u.id, u.name, u.image,
			(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id)
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.published
		ORDER BY p.created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	result := []*models.Post{}
	byID := map[string]*models.Post{}
	ids := []string{}
	for rows.Next() {
		p := &models.Post{Author: &models.UserSummary{}, Categories: []models.Category{}}
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.Published, &p.CreatedAt,
			&p.Author.ID, &p.Author.Name, &p.Author.Image, &p.Count.Comments); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(ids) == 0 {
		return result, nil
	}

	catRows, err := s.DB.QueryContext(ctx,
		`SELECT pc.post_id, c.id, c.name
		 FROM post_categories pc
		 JOIN categories c ON c.id = pc.category_id
		 WHERE pc.post_id = ANY($1::uuid[])
		 ORDER BY c.name`, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer catRows.Close()

	for catRows.Next() {
		var postID string
		var c models.Category
		if err := catRows.Scan(&postID, &c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if p, ok := byID[postID]; ok {
			p.Categories = append(p.Categories, c)
		}
	}
	if err := catRows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
