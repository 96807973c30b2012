package handlers

import (
	"context"
	"net/http"
	"time"

	"online-panthi/pkg/cache"
	"online-panthi/pkg/logger"
	"online-panthi/services/moderation/repository"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	statsCacheKey = "admin:stats"
	statsTTL      = time.Minute
)

type StatsHandler struct {
	statsRepo   repository.StatsRepository
	redisClient *redis.Client
	logger      *logger.Logger
}

// NewStatsHandler accepts a nil redis client; every request then hits the database.
func NewStatsHandler(statsRepo repository.StatsRepository, redisClient *redis.Client, logger *logger.Logger) *StatsHandler {
	return &StatsHandler{
		statsRepo:   statsRepo,
		redisClient: redisClient,
		logger:      logger,
	}
}

func (h *StatsHandler) overview(ctx context.Context) (*repository.Overview, error) {
	if h.redisClient != nil {
		var cached repository.Overview
		if ok, err := cache.GetJSON(ctx, h.redisClient, statsCacheKey, &cached); err == nil && ok {
			return &cached, nil
		}
	}

	o, err := h.statsRepo.GetOverview(ctx)
	if err != nil {
		return nil, err
	}

	if h.redisClient != nil {
		if err := cache.SetJSON(ctx, h.redisClient, statsCacheKey, o, statsTTL); err != nil {
			h.logger.Warn("Failed to cache admin stats: %v", err)
		}
	}
	return o, nil
}

// GetOverview godoc
// @Summary      Platform overview
// @Description  Counts of users, courses, posts, reported posts and contact messages
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  repository.Overview
// @Failure      403  {object}  map[string]string
// @Router       /admin/stats [get]
func (h *StatsHandler) GetOverview(c *gin.Context) {
	o, err := h.overview(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get admin stats: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get stats"})
		return
	}

	c.JSON(http.StatusOK, o)
}
