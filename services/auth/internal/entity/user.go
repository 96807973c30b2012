package entity

import "time"

type User struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	FullName  string     `json:"full_name"`
	Country   string     `json:"country"`
	Birthday  *time.Time `json:"birthday,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type Profile struct {
	ID        string     `json:"id"`
	FullName  string     `json:"full_name"`
	Country   string     `json:"country"`
	Birthday  *time.Time `json:"birthday,omitempty"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}
