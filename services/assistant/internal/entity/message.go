package entity

import "time"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Reply is the answer to one prompt together with the two turns it added to the history.
type Reply struct {
	Answer   string    `json:"answer"`
	Messages []Message `json:"messages"`
}
