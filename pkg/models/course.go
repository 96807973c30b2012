package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	CourseCategories = []string{"Math", "Science", "Commerce", "ICT", "Arts", "Other"}
	CourseLevels     = []string{"Beginner", "Ordinary", "Advanced", "Higher Education"}
	CourseLanguages  = []string{"English", "Sri Lanka", "India"}
)

const (
	DefaultCategory = "Other"
	DefaultLevel    = "Beginner"
	DefaultLanguage = "English"
)

type Course struct {
	ID               string    `gorm:"type:uuid;primary_key" json:"id"`
	Name             string    `gorm:"not null" json:"name"`
	Description      string    `json:"description"`
	Category         string    `gorm:"index" json:"category"`
	Level            string    `json:"level"`
	InstructorName   string    `json:"instructor_name"`
	Stream           string    `json:"stream"`
	ThumbnailURL     string    `json:"thumbnail_url"`
	IsPaid           bool      `gorm:"not null;default:false" json:"is_paid"`
	Language         string    `json:"language"`
	Rate             float64   `gorm:"type:numeric(3,1);not null;default:0" json:"rate"`
	StudentsEnrolled int       `gorm:"not null;default:0" json:"students_enrolled"`
	Recommended      bool      `gorm:"not null;default:false" json:"recommended"`
	Topics           []Topic   `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"topics,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

func (Course) TableName() string {
	return "courses"
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

type Topic struct {
	ID         string     `gorm:"type:uuid;primary_key" json:"id"`
	CourseID   string     `gorm:"type:uuid;not null;index" json:"course_id"`
	Title      string     `gorm:"not null" json:"title"`
	OrderIndex int        `gorm:"not null;default:0" json:"order_index"`
	Videos     []Video    `gorm:"foreignKey:TopicID;constraint:OnDelete:CASCADE" json:"videos,omitempty"`
	Resources  []Resource `gorm:"foreignKey:TopicID;constraint:OnDelete:CASCADE" json:"resources,omitempty"`
}

func (Topic) TableName() string {
	return "topics"
}

func (t *Topic) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

type Video struct {
	ID           string  `gorm:"type:uuid;primary_key" json:"id"`
	TopicID      string  `gorm:"type:uuid;not null;index" json:"topic_id"`
	Title        string  `json:"title"`
	Instructor   *string `json:"instructor"`
	VideoURL     string  `json:"video_url"`
	Duration     *int    `json:"duration"`
	ThumbnailURL *string `json:"thumbnail_url"`
	OrderIndex   int     `gorm:"not null;default:0" json:"order_index"`
	IsFree       bool    `gorm:"not null;default:true" json:"is_free"`
}

func (Video) TableName() string {
	return "videos"
}

func (v *Video) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	return nil
}

type Resource struct {
	ID      string `gorm:"type:uuid;primary_key" json:"id"`
	TopicID string `gorm:"type:uuid;not null;index" json:"topic_id"`
	Name    string `json:"name"`
	FileURL string `json:"file_url"`
}

func (Resource) TableName() string {
	return "resources"
}

func (r *Resource) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}
