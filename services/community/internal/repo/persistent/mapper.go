package persistent

import (
	"online-panthi/pkg/models"
	"online-panthi/services/community/internal/entity"
)

// postRow is a post joined with its author's profile name.
type postRow struct {
	models.Post
	AuthorName *string
}

func toPostEntity(r *postRow) *entity.Post {
	if r == nil {
		return nil
	}
	p := toPostEntityFromModel(&r.Post)
	p.AuthorName = r.AuthorName
	return p
}

func toPostEntityFromModel(m *models.Post) *entity.Post {
	if m == nil {
		return nil
	}

	return &entity.Post{
		ID:        m.ID,
		AuthorID:  m.AuthorID,
		Content:   m.Content,
		ImageURL:  m.ImageURL,
		Category:  m.Category,
		Likes:     m.Likes,
		Reports:   m.Reports,
		CreatedAt: m.CreatedAt,
	}
}

func toPostModel(e *entity.Post) *models.Post {
	if e == nil {
		return nil
	}

	return &models.Post{
		ID:        e.ID,
		AuthorID:  e.AuthorID,
		Content:   e.Content,
		ImageURL:  e.ImageURL,
		Category:  e.Category,
		Likes:     e.Likes,
		Reports:   e.Reports,
		CreatedAt: e.CreatedAt,
	}
}
