package repository

import (
	"context"

	"online-panthi/pkg/models"

	"gorm.io/gorm"
)

type ModerationRepository interface {
	// GetReportedPosts returns posts with at least one report, most reported first.
	GetReportedPosts(ctx context.Context) ([]*models.Post, error)
	// ResetReports clears the counter and the report interactions behind it.
	ResetReports(ctx context.Context, postID string) error
	// DeletePost removes the post and returns it as it was.
	DeletePost(ctx context.Context, postID string) (*models.Post, error)

	CreateContactMessage(ctx context.Context, msg *models.ContactMessage) error
	GetContactMessages(ctx context.Context, limit int) ([]*models.ContactMessage, error)
}

type moderationRepository struct {
	db *gorm.DB
}

func NewModerationRepository(db *gorm.DB) ModerationRepository {
	return &moderationRepository{db: db}
}

func (r *moderationRepository) GetReportedPosts(ctx context.Context) ([]*models.Post, error) {
	var posts []*models.Post
	if err := r.db.WithContext(ctx).
		Where("reports > 0").
		Order("reports DESC").
		Order("created_at DESC").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *moderationRepository) ResetReports(ctx context.Context, postID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Post{}).Where("id = ?", postID).Update("reports", 0)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("post_id = ? AND action = ?", postID, models.ActionReport).
			Delete(&models.PostInteraction{}).Error
	})
}

func (r *moderationRepository) DeletePost(ctx context.Context, postID string) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", postID).First(&post).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, "id = ?", postID).Error
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *moderationRepository) CreateContactMessage(ctx context.Context, msg *models.ContactMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *moderationRepository) GetContactMessages(ctx context.Context, limit int) ([]*models.ContactMessage, error) {
	var msgs []*models.ContactMessage
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}
