package repository

import (
	"context"

	"online-panthi/pkg/models"

	"gorm.io/gorm"
)

// Overview is the admin dashboard's headline numbers.
type Overview struct {
	Users           int64 `json:"users"`
	Courses         int64 `json:"courses"`
	PaidCourses     int64 `json:"paid_courses"`
	Posts           int64 `json:"posts"`
	ReportedPosts   int64 `json:"reported_posts"`
	ContactMessages int64 `json:"contact_messages"`
}

type StatsRepository interface {
	GetOverview(ctx context.Context) (*Overview, error)
}

type statsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) count(ctx context.Context, model interface{}, dest *int64, where ...interface{}) error {
	q := r.db.WithContext(ctx).Model(model)
	if len(where) > 0 {
		q = q.Where(where[0], where[1:]...)
	}
	return q.Count(dest).Error
}

func (r *statsRepository) GetOverview(ctx context.Context) (*Overview, error) {
	var o Overview
	counts := []struct {
		model interface{}
		dest  *int64
		where []interface{}
	}{
		{&models.User{}, &o.Users, nil},
		{&models.Course{}, &o.Courses, nil},
		{&models.Course{}, &o.PaidCourses, []interface{}{"is_paid = ?", true}},
		{&models.Post{}, &o.Posts, nil},
		{&models.Post{}, &o.ReportedPosts, []interface{}{"reports > 0"}},
		{&models.ContactMessage{}, &o.ContactMessages, nil},
	}
	for _, c := range counts {
		if err := r.count(ctx, c.model, c.dest, c.where...); err != nil {
			return nil, err
		}
	}
	return &o, nil
}
