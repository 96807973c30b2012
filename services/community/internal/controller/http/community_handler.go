package http

import (
	"errors"
	"net/http"

	"online-panthi/pkg/logger"
	"online-panthi/pkg/validation"
	"online-panthi/services/community/internal/usecase"

	"github.com/gin-gonic/gin"
)

type CommunityHandler struct {
	communityUseCase usecase.CommunityUseCase
	logger           *logger.Logger
}

func NewCommunityHandler(communityUseCase usecase.CommunityUseCase, logger *logger.Logger) *CommunityHandler {
	return &CommunityHandler{
		communityUseCase: communityUseCase,
		logger:           logger,
	}
}

type CreatePostRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *CommunityHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrPostNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrEmptyContent), errors.Is(err, usecase.ErrContentTooLong):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong, please try again"})
	}
}

// ListFeed godoc
// @Summary      Community feed
// @Description  All posts, newest first. With a token each post carries the caller's liked/saved/reported flags.
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]string
// @Router       /posts [get]
func (h *CommunityHandler) ListFeed(c *gin.Context) {
	items, err := h.communityUseCase.ListFeed(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": items, "count": len(items)})
}

// CreatePost godoc
// @Summary      Create a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreatePostRequest true "Post content"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /posts [post]
func (h *CommunityHandler) CreatePost(c *gin.Context) {
	var req CreatePostRequest
	if !validation.BindJSON(c, &req) {
		return
	}

	post, err := h.communityUseCase.CreatePost(c.Request.Context(), c.GetString("user_id"), req.Content)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

// LikePost godoc
// @Summary      Like a post
// @Description  Idempotent: liking twice keeps a single like.
// @Tags         interactions
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id}/like [put]
func (h *CommunityHandler) LikePost(c *gin.Context) {
	res, err := h.communityUseCase.LikePost(c.Request.Context(), c.GetString("user_id"), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// UnlikePost godoc
// @Summary      Remove a like
// @Tags         interactions
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id}/like [delete]
func (h *CommunityHandler) UnlikePost(c *gin.Context) {
	res, err := h.communityUseCase.UnlikePost(c.Request.Context(), c.GetString("user_id"), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// SavePost godoc
// @Summary      Save a post
// @Tags         interactions
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id}/save [put]
func (h *CommunityHandler) SavePost(c *gin.Context) {
	if err := h.communityUseCase.SavePost(c.Request.Context(), c.GetString("user_id"), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": true})
}

// UnsavePost godoc
// @Summary      Unsave a post
// @Tags         interactions
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id}/save [delete]
func (h *CommunityHandler) UnsavePost(c *gin.Context) {
	if err := h.communityUseCase.UnsavePost(c.Request.Context(), c.GetString("user_id"), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": false})
}

// ReportPost godoc
// @Summary      Report a post
// @Description  One report per user. The post is removed once it collects enough reports.
// @Tags         interactions
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id}/report [post]
func (h *CommunityHandler) ReportPost(c *gin.Context) {
	res, err := h.communityUseCase.ReportPost(c.Request.Context(), c.GetString("user_id"), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetInteractions godoc
// @Summary      Caller's interactions
// @Tags         interactions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /posts/interactions [get]
func (h *CommunityHandler) GetInteractions(c *gin.Context) {
	res, err := h.communityUseCase.GetInteractions(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetActivity godoc
// @Summary      Caller's community activity
// @Description  Post and like totals for the dashboard
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  entity.Activity
// @Router       /posts/activity [get]
func (h *CommunityHandler) GetActivity(c *gin.Context) {
	res, err := h.communityUseCase.GetActivity(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ListSaved godoc
// @Summary      Saved posts
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /posts/saved [get]
func (h *CommunityHandler) ListSaved(c *gin.Context) {
	posts, err := h.communityUseCase.ListSaved(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts, "count": len(posts)})
}
