package handlers

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"online-panthi/pkg/jwt"
	"online-panthi/pkg/logger"
	"online-panthi/pkg/models"
	"online-panthi/pkg/queue"
	"online-panthi/pkg/validation"
	"online-panthi/services/moderation/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	// FeedCacheKey is the community service's cached feed.
	FeedCacheKey  = "community:feed"
	feedbackLimit = 200
)

// CacheInvalidator is satisfied by *redis.Client.
type CacheInvalidator interface {
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type ModerationHandler struct {
	moderationRepo repository.ModerationRepository
	jwtService     *jwt.Service
	adminSecret    string
	publisher      queue.Publisher
	cache          CacheInvalidator
	logger         *logger.Logger
}

// NewModerationHandler accepts a nil publisher and a nil cache.
func NewModerationHandler(
	moderationRepo repository.ModerationRepository,
	jwtService *jwt.Service,
	adminSecret string,
	publisher queue.Publisher,
	cache CacheInvalidator,
	logger *logger.Logger,
) *ModerationHandler {
	return &ModerationHandler{
		moderationRepo: moderationRepo,
		jwtService:     jwtService,
		adminSecret:    adminSecret,
		publisher:      publisher,
		cache:          cache,
		logger:         logger,
	}
}

type UnlockRequest struct {
	Passphrase string `json:"passphrase" binding:"required"`
}

type ContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

func (h *ModerationHandler) invalidateFeed(ctx context.Context) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Del(ctx, FeedCacheKey).Err(); err != nil {
		h.logger.Warn("Failed to invalidate feed cache: %v", err)
	}
}

// Unlock godoc
// @Summary      Unlock the admin panel
// @Description  Exchanges the admin passphrase for an admin token for the signed-in user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body UnlockRequest true "Passphrase"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /admin/unlock [post]
func (h *ModerationHandler) Unlock(c *gin.Context) {
	if h.adminSecret == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Admin access is not configured"})
		return
	}

	var req UnlockRequest
	if !validation.BindJSON(c, &req) {
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.Passphrase), []byte(h.adminSecret)) != 1 {
		h.logger.Warn("Failed admin unlock attempt by user %s", c.GetString("user_id"))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid passphrase"})
		return
	}

	token, err := h.jwtService.GenerateToken(c.GetString("user_id"), jwt.RoleAdmin)
	if err != nil {
		h.logger.Error("Failed to issue admin token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue admin token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "role": jwt.RoleAdmin})
}

// GetReportedPosts godoc
// @Summary      Reported posts
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]string
// @Router       /admin/posts/reported [get]
func (h *ModerationHandler) GetReportedPosts(c *gin.Context) {
	posts, err := h.moderationRepo.GetReportedPosts(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get reported posts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get reported posts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts, "count": len(posts)})
}

// postIDParam answers 404 for ids that cannot name a post.
func postIDParam(c *gin.Context) (string, bool) {
	postID := c.Param("id")
	if _, err := uuid.Parse(postID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return "", false
	}
	return postID, true
}

// ResetReports godoc
// @Summary      Clear a post's reports
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /admin/posts/{id}/reset-reports [post]
func (h *ModerationHandler) ResetReports(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	if err := h.moderationRepo.ResetReports(c.Request.Context(), postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		h.logger.Error("Failed to reset reports for post %s: %v", postID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset reports"})
		return
	}

	h.invalidateFeed(c.Request.Context())
	h.logger.Info("Reports cleared for post %s by %s", postID, c.GetString("user_id"))

	c.JSON(http.StatusOK, gin.H{"message": "Reports cleared", "post_id": postID, "reports": 0})
}

// DeletePost godoc
// @Summary      Remove a post
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /admin/posts/{id} [delete]
func (h *ModerationHandler) DeletePost(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	post, err := h.moderationRepo.DeletePost(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		h.logger.Error("Failed to delete post %s: %v", postID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		return
	}

	h.invalidateFeed(ctx)

	if h.publisher != nil {
		event := queue.ModerationEvent{
			Type:    queue.EventPostRemoved,
			PostID:  post.ID,
			ActorID: c.GetString("user_id"),
			Reports: post.Reports,
		}
		if post.ImageURL != nil {
			event.ImageURL = *post.ImageURL
		}
		if err := h.publisher.PublishModerationEvent(ctx, event); err != nil {
			h.logger.Error("Failed to publish removal of post %s: %v", post.ID, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post removed", "post_id": post.ID})
}

// GetFeedback godoc
// @Summary      Contact messages
// @Description  Most recent first, at most 200
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /admin/feedback [get]
func (h *ModerationHandler) GetFeedback(c *gin.Context) {
	msgs, err := h.moderationRepo.GetContactMessages(c.Request.Context(), feedbackLimit)
	if err != nil {
		h.logger.Error("Failed to get contact messages: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get feedback"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": msgs, "count": len(msgs)})
}

// SubmitContact godoc
// @Summary      Send a contact message
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        request body ContactRequest true "Message"
// @Success      201  {object}  models.ContactMessage
// @Failure      400  {object}  map[string]string
// @Router       /contact [post]
func (h *ModerationHandler) SubmitContact(c *gin.Context) {
	var req ContactRequest
	if !validation.BindJSON(c, &req) {
		return
	}

	msg := &models.ContactMessage{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Subject: strings.TrimSpace(req.Subject),
		Message: strings.TrimSpace(req.Message),
	}
	if msg.Name == "" || msg.Subject == "" || msg.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, subject and message must not be blank"})
		return
	}

	if err := h.moderationRepo.CreateContactMessage(c.Request.Context(), msg); err != nil {
		h.logger.Error("Failed to store contact message: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	c.JSON(http.StatusCreated, msg)
}
