package persistent

import (
	"context"

	"online-panthi/pkg/models"
	"online-panthi/services/course/internal/entity"

	"gorm.io/gorm"
)

type CourseRepository interface {
	// ListAll returns every course, recommended first, then newest first.
	ListAll(ctx context.Context) ([]*entity.Course, error)
	GetByID(ctx context.Context, id string) (*entity.Course, error)
	// ListTopics returns the course's topics with their videos and resources, all by order_index.
	ListTopics(ctx context.Context, courseID string) ([]entity.Topic, error)
	// CreateTree inserts the course and the whole topic tree in one transaction.
	CreateTree(ctx context.Context, course *entity.Course, topics []entity.Topic) error
}

type courseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) ListAll(ctx context.Context) ([]*entity.Course, error) {
	var rows []models.Course
	if err := r.db.WithContext(ctx).
		Order("recommended DESC").
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	courses := make([]*entity.Course, 0, len(rows))
	for i := range rows {
		courses = append(courses, toCourseEntity(&rows[i]))
	}
	return courses, nil
}

func (r *courseRepository) GetByID(ctx context.Context, id string) (*entity.Course, error) {
	var m models.Course
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return toCourseEntity(&m), nil
}

func (r *courseRepository) ListTopics(ctx context.Context, courseID string) ([]entity.Topic, error) {
	var rows []models.Topic
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("order_index ASC").
		Preload("Videos", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		Preload("Resources", func(db *gorm.DB) *gorm.DB {
			return db.Order("name ASC")
		}).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	topics := make([]entity.Topic, 0, len(rows))
	for i := range rows {
		topics = append(topics, toTopicEntity(&rows[i]))
	}
	return topics, nil
}

func (r *courseRepository) CreateTree(ctx context.Context, course *entity.Course, topics []entity.Topic) error {
	topicRows, videoRows, resourceRows := toTopicModels(topics)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m := toCourseModel(course)
		if err := tx.Omit("Topics").Create(m).Error; err != nil {
			return err
		}
		if len(topicRows) > 0 {
			if err := tx.Omit("Videos", "Resources").Create(&topicRows).Error; err != nil {
				return err
			}
		}
		if len(videoRows) > 0 {
			if err := tx.Create(&videoRows).Error; err != nil {
				return err
			}
		}
		if len(resourceRows) > 0 {
			if err := tx.Create(&resourceRows).Error; err != nil {
				return err
			}
		}
		course.CreatedAt = m.CreatedAt
		return nil
	})
}
