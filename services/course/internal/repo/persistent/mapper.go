package persistent

import (
	"online-panthi/pkg/models"
	"online-panthi/services/course/internal/entity"
)

func toCourseEntity(m *models.Course) *entity.Course {
	if m == nil {
		return nil
	}

	return &entity.Course{
		ID:               m.ID,
		Name:             m.Name,
		Description:      m.Description,
		Category:         m.Category,
		Level:            m.Level,
		InstructorName:   m.InstructorName,
		Stream:           m.Stream,
		ThumbnailURL:     m.ThumbnailURL,
		IsPaid:           m.IsPaid,
		Language:         m.Language,
		Rate:             m.Rate,
		StudentsEnrolled: m.StudentsEnrolled,
		Recommended:      m.Recommended,
		CreatedAt:        m.CreatedAt,
	}
}

func toCourseModel(e *entity.Course) *models.Course {
	return &models.Course{
		ID:               e.ID,
		Name:             e.Name,
		Description:      e.Description,
		Category:         e.Category,
		Level:            e.Level,
		InstructorName:   e.InstructorName,
		Stream:           e.Stream,
		ThumbnailURL:     e.ThumbnailURL,
		IsPaid:           e.IsPaid,
		Language:         e.Language,
		Rate:             e.Rate,
		StudentsEnrolled: e.StudentsEnrolled,
		Recommended:      e.Recommended,
		CreatedAt:        e.CreatedAt,
	}
}

func toTopicEntity(m *models.Topic) entity.Topic {
	t := entity.Topic{
		ID:         m.ID,
		CourseID:   m.CourseID,
		Title:      m.Title,
		OrderIndex: m.OrderIndex,
		Videos:     make([]entity.Video, 0, len(m.Videos)),
		Resources:  make([]entity.Resource, 0, len(m.Resources)),
	}
	for _, v := range m.Videos {
		t.Videos = append(t.Videos, entity.Video{
			ID:           v.ID,
			TopicID:      v.TopicID,
			Title:        v.Title,
			Instructor:   v.Instructor,
			VideoURL:     v.VideoURL,
			Duration:     v.Duration,
			ThumbnailURL: v.ThumbnailURL,
			OrderIndex:   v.OrderIndex,
			IsFree:       v.IsFree,
		})
	}
	for _, r := range m.Resources {
		t.Resources = append(t.Resources, entity.Resource{
			ID:      r.ID,
			TopicID: r.TopicID,
			Name:    r.Name,
			FileURL: r.FileURL,
		})
	}
	return t
}

// toTopicModels flattens the topic tree into rows for a batch insert.
func toTopicModels(topics []entity.Topic) ([]models.Topic, []models.Video, []models.Resource) {
	var (
		topicRows    = make([]models.Topic, 0, len(topics))
		videoRows    []models.Video
		resourceRows []models.Resource
	)
	for _, t := range topics {
		topicRows = append(topicRows, models.Topic{
			ID:         t.ID,
			CourseID:   t.CourseID,
			Title:      t.Title,
			OrderIndex: t.OrderIndex,
		})
		for _, v := range t.Videos {
			videoRows = append(videoRows, models.Video{
				ID:           v.ID,
				TopicID:      t.ID,
				Title:        v.Title,
				Instructor:   v.Instructor,
				VideoURL:     v.VideoURL,
				Duration:     v.Duration,
				ThumbnailURL: v.ThumbnailURL,
				OrderIndex:   v.OrderIndex,
				IsFree:       v.IsFree,
			})
		}
		for _, r := range t.Resources {
			resourceRows = append(resourceRows, models.Resource{
				ID:      r.ID,
				TopicID: t.ID,
				Name:    r.Name,
				FileURL: r.FileURL,
			})
		}
	}
	return topicRows, videoRows, resourceRows
}
