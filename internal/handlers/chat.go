package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bikrans/platform-api/internal/chat"
	apierrors "github.com/bikrans/platform-api/internal/errors"
	"github.com/bikrans/platform-api/internal/logger"
)

// ChatHandler exposes the registration conversation over HTTP.
type ChatHandler struct {
	engine *chat.Engine
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(engine *chat.Engine) *ChatHandler {
	return &ChatHandler{engine: engine}
}

// Start opens a new conversation and returns the greeting turn.
func (h *ChatHandler) Start(c *gin.Context) {
	reply, err := h.engine.Start(c.Request.Context())
	if err != nil {
		logger.Error(c.Request.Context(), "chat start error", zap.Error(err))
		apierrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusCreated, reply)
}

// Message feeds one user input into an existing conversation.
func (h *ChatHandler) Message(c *gin.Context) {
	sessionID := c.Param("sessionId")

	type messageRequest struct {
		Input string `json:"input"`
	}
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	reply, err := h.engine.Advance(c.Request.Context(), sessionID, req.Input)
	if err != nil {
		if errors.Is(err, chat.ErrSessionNotFound) {
			apierrors.NotFound(c, "Session not found")
			return
		}
		logger.Error(c.Request.Context(), "chat advance error", zap.Error(err))
		apierrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, reply)
}
