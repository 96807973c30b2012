package handlers

import (
	"context"
	"fmt"
	"time"

	"online-panthi/pkg/logger"
	"online-panthi/pkg/queue"
)

// ObjectRemover is the part of the S3 client used to clean up removed posts.
type ObjectRemover interface {
	KeyFor(objectURL string) (string, bool)
	DeleteFile(ctx context.Context, key string) error
}

// EventHandler consumes moderation events published by the community and moderation services.
type EventHandler struct {
	store  ObjectRemover
	cache  CacheInvalidator
	logger *logger.Logger
}

func NewEventHandler(store ObjectRemover, cache CacheInvalidator, logger *logger.Logger) *EventHandler {
	return &EventHandler{store: store, cache: cache, logger: logger}
}

func (h *EventHandler) Handle(event queue.ModerationEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch event.Type {
	case queue.EventPostReported:
		h.logger.Info("[MODERATION] Post %s reported by %s (%d reports)", event.PostID, event.ActorID, event.Reports)
		return nil

	case queue.EventPostRemoved:
		h.logger.Info("[MODERATION] Post %s removed (%d reports)", event.PostID, event.Reports)

		if event.ImageURL != "" && h.store != nil {
			// Images outside our bucket are left alone
			if key, ok := h.store.KeyFor(event.ImageURL); ok {
				if err := h.store.DeleteFile(ctx, key); err != nil {
					return fmt.Errorf("failed to delete image of post %s: %w", event.PostID, err)
				}
			}
		}

		if h.cache != nil {
			if err := h.cache.Del(ctx, FeedCacheKey).Err(); err != nil {
				return fmt.Errorf("failed to invalidate feed cache: %w", err)
			}
		}
		return nil

	default:
		h.logger.Warn("[MODERATION] Ignoring unknown event type %q", event.Type)
		return nil
	}
}
