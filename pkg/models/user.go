package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultCountry = "Sri Lanka"

// User holds credentials and the sign-up metadata profiles are derived from.
type User struct {
	ID           string     `gorm:"type:uuid;primary_key" json:"id"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	FullName     string     `gorm:"not null;default:''" json:"full_name"`
	Country      string     `gorm:"not null;default:'Sri Lanka'" json:"country"`
	Birthday     *time.Time `gorm:"type:date" json:"birthday"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

type Profile struct {
	ID        string     `gorm:"type:uuid;primary_key" json:"id"`
	FullName  string     `gorm:"not null" json:"full_name"`
	Country   string     `json:"country"`
	Birthday  *time.Time `gorm:"type:date" json:"birthday"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}
