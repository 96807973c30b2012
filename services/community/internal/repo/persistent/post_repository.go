package persistent

import (
	"context"

	"online-panthi/pkg/models"
	"online-panthi/services/community/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostRepository interface {
	// Transaction runs fn against a repository bound to one database transaction.
	Transaction(ctx context.Context, fn func(repo PostRepository) error) error

	Create(ctx context.Context, post *entity.Post) error
	List(ctx context.Context) ([]*entity.Post, error)
	ListSaved(ctx context.Context, userID string) ([]*entity.Post, error)
	// LockByID loads the post and holds its row lock until the transaction ends.
	LockByID(ctx context.Context, postID string) (*entity.Post, error)
	Delete(ctx context.Context, postID string) error

	AddInteraction(ctx context.Context, userID, postID string, action entity.Action) (bool, error)
	RemoveInteraction(ctx context.Context, userID, postID string, action entity.Action) (bool, error)
	ListInteractions(ctx context.Context, userID string) ([]entity.Interaction, error)
	// AuthorStats counts the user's posts and the likes they hold.
	AuthorStats(ctx context.Context, userID string) (posts, likes int, err error)

	AdjustLikes(ctx context.Context, postID string, delta int) (int, error)
	IncrementReports(ctx context.Context, postID string) (int, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Transaction(ctx context.Context, fn func(repo PostRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&postRepository{db: tx})
	})
}

func (r *postRepository) Create(ctx context.Context, post *entity.Post) error {
	m := toPostModel(post)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	name := post.AuthorName
	*post = *toPostEntityFromModel(m)
	post.AuthorName = name
	return nil
}

func (r *postRepository) withAuthor(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("posts").
		Select("posts.*, profiles.full_name AS author_name").
		Joins("LEFT JOIN profiles ON profiles.id = posts.author_id")
}

func (r *postRepository) List(ctx context.Context) ([]*entity.Post, error) {
	var rows []postRow
	if err := r.withAuthor(ctx).Order("posts.created_at DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return toPostEntities(rows), nil
}

func (r *postRepository) ListSaved(ctx context.Context, userID string) ([]*entity.Post, error) {
	var rows []postRow
	err := r.withAuthor(ctx).
		Joins("INNER JOIN post_interactions pi ON pi.post_id = posts.id").
		Where("pi.user_id = ? AND pi.action = ?", userID, entity.ActionSave).
		Order("pi.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toPostEntities(rows), nil
}

func toPostEntities(rows []postRow) []*entity.Post {
	posts := make([]*entity.Post, len(rows))
	for i := range rows {
		posts[i] = toPostEntity(&rows[i])
	}
	return posts
}

func (r *postRepository) LockByID(ctx context.Context, postID string) (*entity.Post, error) {
	var m models.Post
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", postID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return toPostEntityFromModel(&m), nil
}

func (r *postRepository) Delete(ctx context.Context, postID string) error {
	result := r.db.WithContext(ctx).Where("id = ?", postID).Delete(&models.Post{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *postRepository) AddInteraction(ctx context.Context, userID, postID string, action entity.Action) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.PostInteraction{
			UserID: userID,
			PostID: postID,
			Action: models.InteractionAction(action),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *postRepository) RemoveInteraction(ctx context.Context, userID, postID string, action entity.Action) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ? AND action = ?", userID, postID, action).
		Delete(&models.PostInteraction{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *postRepository) ListInteractions(ctx context.Context, userID string) ([]entity.Interaction, error) {
	var rows []models.PostInteraction
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]entity.Interaction, len(rows))
	for i, row := range rows {
		out[i] = entity.Interaction{UserID: row.UserID, PostID: row.PostID, Action: entity.Action(row.Action)}
	}
	return out, nil
}

func (r *postRepository) AuthorStats(ctx context.Context, userID string) (int, int, error) {
	var row struct {
		Posts int
		Likes int
	}
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Select("COUNT(*) AS posts, COALESCE(SUM(likes), 0) AS likes").
		Where("author_id = ?", userID).
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	return row.Posts, row.Likes, nil
}

func (r *postRepository) AdjustLikes(ctx context.Context, postID string, delta int) (int, error) {
	return r.updateCounter(ctx, postID, "likes", clause.Expr{SQL: "GREATEST(likes + ?, 0)", Vars: []interface{}{delta}})
}

func (r *postRepository) IncrementReports(ctx context.Context, postID string) (int, error) {
	return r.updateCounter(ctx, postID, "reports", clause.Expr{SQL: "reports + ?", Vars: []interface{}{1}})
}

func (r *postRepository) updateCounter(ctx context.Context, postID, column string, expr clause.Expr) (int, error) {
	var updated models.Post
	result := r.db.WithContext(ctx).
		Model(&updated).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: column}}}).
		Where("id = ?", postID).
		UpdateColumn(column, expr)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	if column == "likes" {
		return updated.Likes, nil
	}
	return updated.Reports, nil
}
