package entity

import "time"

type Course struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Category         string    `json:"category"`
	Level            string    `json:"level"`
	InstructorName   string    `json:"instructor_name"`
	Stream           string    `json:"stream"`
	ThumbnailURL     string    `json:"thumbnail_url"`
	IsPaid           bool      `json:"is_paid"`
	Language         string    `json:"language"`
	Rate             float64   `json:"rate"`
	StudentsEnrolled int       `json:"students_enrolled"`
	Recommended      bool      `json:"recommended"`
	CreatedAt        time.Time `json:"created_at"`
}

type Topic struct {
	ID         string     `json:"id"`
	CourseID   string     `json:"course_id"`
	Title      string     `json:"title"`
	OrderIndex int        `json:"order_index"`
	Videos     []Video    `json:"videos"`
	Resources  []Resource `json:"resources"`
}

type Video struct {
	ID           string  `json:"id"`
	TopicID      string  `json:"topic_id"`
	Title        string  `json:"title"`
	Instructor   *string `json:"instructor"`
	VideoURL     string  `json:"video_url"`
	EmbedURL     string  `json:"embed_url"`
	Duration     *int    `json:"duration"`
	ThumbnailURL *string `json:"thumbnail_url"`
	OrderIndex   int     `json:"order_index"`
	IsFree       bool    `json:"is_free"`
}

type Resource struct {
	ID      string `json:"id"`
	TopicID string `json:"topic_id"`
	Name    string `json:"name"`
	FileURL string `json:"file_url"`
}

// CourseDetail is a course with its ordered topics, each carrying its videos and resources.
type CourseDetail struct {
	*Course
	Topics []Topic `json:"topics"`
}

// CreateResult reports how many rows a draft produced.
type CreateResult struct {
	ID        string `json:"id"`
	Topics    int    `json:"topics"`
	Videos    int    `json:"videos"`
	Resources int    `json:"resources"`
}
