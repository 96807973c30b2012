package http

import (
	"errors"
	"net/http"
	"strings"

	"online-panthi/pkg/logger"
	"online-panthi/pkg/validation"
	"online-panthi/services/assistant/internal/usecase"

	"github.com/gin-gonic/gin"
)

const maxClientIDLength = 64

type AssistantHandler struct {
	assistantUseCase usecase.AssistantUseCase
	logger           *logger.Logger
}

func NewAssistantHandler(assistantUseCase usecase.AssistantUseCase, logger *logger.Logger) *AssistantHandler {
	return &AssistantHandler{
		assistantUseCase: assistantUseCase,
		logger:           logger,
	}
}

type AskRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

// owner identifies whose history a request belongs to: the signed-in user, else the
// browser's X-Client-ID.
func owner(c *gin.Context) (string, bool) {
	if uid := c.GetString("user_id"); uid != "" {
		return "user:" + uid, true
	}
	id := strings.TrimSpace(c.GetHeader("X-Client-ID"))
	if id == "" || len(id) > maxClientIDLength {
		return "", false
	}
	return "client:" + id, true
}

func (h *AssistantHandler) requireOwner(c *gin.Context) (string, bool) {
	o, ok := owner(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Sign in or send an X-Client-ID header"})
	}
	return o, ok
}

// Ask godoc
// @Summary      Ask the AI teacher
// @Description  Answers are short bullet points. Upstream failures come back as answer text.
// @Tags         assistant
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        X-Client-ID header string false "Anonymous client id"
// @Param        request body AskRequest true "Prompt"
// @Success      200  {object}  entity.Reply
// @Failure      400  {object}  map[string]string
// @Failure      429  {object}  map[string]string
// @Router       /assistant/messages [post]
func (h *AssistantHandler) Ask(c *gin.Context) {
	o, ok := h.requireOwner(c)
	if !ok {
		return
	}

	var req AskRequest
	if !validation.BindJSON(c, &req) {
		return
	}

	reply, err := h.assistantUseCase.Ask(c.Request.Context(), o, req.Prompt)
	if err != nil {
		if errors.Is(err, usecase.ErrEmptyPrompt) || errors.Is(err, usecase.ErrPromptTooLong) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Failed to answer prompt: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong, please try again"})
		return
	}

	c.JSON(http.StatusOK, reply)
}

// GetHistory godoc
// @Summary      Chat history
// @Tags         assistant
// @Produce      json
// @Security     BearerAuth
// @Param        X-Client-ID header string false "Anonymous client id"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /assistant/history [get]
func (h *AssistantHandler) GetHistory(c *gin.Context) {
	o, ok := h.requireOwner(c)
	if !ok {
		return
	}

	msgs, err := h.assistantUseCase.History(c.Request.Context(), o)
	if err != nil {
		h.logger.Error("Failed to load history: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": msgs, "count": len(msgs)})
}

// ClearHistory godoc
// @Summary      Clear chat history
// @Tags         assistant
// @Security     BearerAuth
// @Param        X-Client-ID header string false "Anonymous client id"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Router       /assistant/history [delete]
func (h *AssistantHandler) ClearHistory(c *gin.Context) {
	o, ok := h.requireOwner(c)
	if !ok {
		return
	}

	if err := h.assistantUseCase.ClearHistory(c.Request.Context(), o); err != nil {
		h.logger.Error("Failed to clear history: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear history"})
		return
	}

	c.Status(http.StatusNoContent)
}
