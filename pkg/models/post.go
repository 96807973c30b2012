package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InteractionAction string

const (
	ActionLike   InteractionAction = "like"
	ActionSave   InteractionAction = "save"
	ActionReport InteractionAction = "report"
)

func (a InteractionAction) Valid() bool {
	switch a {
	case ActionLike, ActionSave, ActionReport:
		return true
	}
	return false
}

// Post rows are hard-deleted; interactions go with them through the foreign key.
type Post struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	AuthorID  string    `gorm:"type:uuid;not null;index" json:"author_id"`
	Content   string    `gorm:"not null" json:"content"`
	ImageURL  *string   `json:"image_url"`
	Category  *string   `json:"category"`
	Likes     int       `gorm:"not null;default:0" json:"likes"`
	Reports   int       `gorm:"not null;default:0;index" json:"reports"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (Post) TableName() string {
	return "posts"
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

type PostInteraction struct {
	UserID    string            `gorm:"type:uuid;primaryKey" json:"user_id"`
	PostID    string            `gorm:"type:uuid;primaryKey;index" json:"post_id"`
	Action    InteractionAction `gorm:"type:varchar(10);primaryKey" json:"action"`
	CreatedAt time.Time         `json:"created_at"`
}

func (PostInteraction) TableName() string {
	return "post_interactions"
}

type ContactMessage struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"not null" json:"email"`
	Subject   string    `gorm:"not null" json:"subject"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (ContactMessage) TableName() string {
	return "contact_messages"
}

func (m *ContactMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}
