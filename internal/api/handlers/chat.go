package handlers

import (
	"errors"
	"net/http"

	"mission-control/internal/api/models"
	"mission-control/internal/chat"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ChatHandler proxies assistant conversations to the configured model.
type ChatHandler struct {
	completer chat.Completer
	log       *zap.Logger
}

// NewChatHandler creates a chat handler. completer may be nil when no API key is configured.
func NewChatHandler(completer chat.Completer, log *zap.Logger) *ChatHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ChatHandler{completer: completer, log: log}
}

// Chat handles POST /api/chat. The reply is streamed as plain text chunks.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	if h.completer == nil {
		abortWithError(c, http.StatusServiceUnavailable, "CHAT_NOT_CONFIGURED", "No chat model API key is configured")
		return
	}

	system := chat.SystemPrompt(req.MemberRole)
	started := false
	start := func() {
		if started {
			return
		}
		started = true
		c.Header("Content-Type", "text/plain; charset=utf-8")
		c.Header("Cache-Control", "no-cache")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Status(http.StatusOK)
	}

	err := h.completer.Stream(c.Request.Context(), system, req.Messages, func(chunk string) error {
		start()
		if _, err := c.Writer.WriteString(chunk); err != nil {
			return err
		}
		c.Writer.Flush()
		return nil
	})
	if err != nil {
		_ = c.Error(err)
		h.log.Warn("chat stream failed",
			zap.String("member_role", req.MemberRole),
			zap.Bool("partial", started),
			zap.Error(err),
		)
		if started {
			// Headers are gone; the client sees a truncated stream.
			return
		}
		if errors.Is(err, chat.ErrNoMessages) {
			invalidRequest(c, err)
			return
		}
		abortWithError(c, http.StatusInternalServerError, "CHAT_ERROR", err.Error())
		return
	}

	start()
	c.Writer.WriteHeaderNow()
}
