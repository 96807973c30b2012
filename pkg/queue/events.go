package queue

import (
	"context"
	"time"
)

type EventType string

const (
	EventPostReported EventType = "post_reported"
	EventPostRemoved  EventType = "post_removed"
)

type ModerationEvent struct {
	Type       EventType `json:"type"`
	PostID     string    `json:"post_id"`
	ActorID    string    `json:"actor_id,omitempty"`
	Reports    int       `json:"reports"`
	ImageURL   string    `json:"image_url,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher is implemented by *Client. Services depend on it so tests can record events.
type Publisher interface {
	PublishModerationEvent(ctx context.Context, event ModerationEvent) error
}
