package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-invoice-api/internal/apperr"
	"go-invoice-api/internal/logger"
)

// Asker answers free-form questions about one user's invoices.
type Asker interface {
	Ask(ctx context.Context, userID uint, message string) (string, error)
}

type AskRequest struct {
	Message string `json:"message" binding:"required"`
}

// AssistantHandler serves /assistant. A nil Asker means the assistant is not
// configured and every request gets 503.
type AssistantHandler struct {
	agent Asker
	log   *logger.Logger
}

func NewAssistantHandler(agent Asker, log *logger.Logger) *AssistantHandler {
	return &AssistantHandler{agent: agent, log: log}
}

// --- POST: /assistant/ask ---
func (h *AssistantHandler) Ask(c *gin.Context) {
	if h.agent == nil {
		respondError(c, h.log, apperr.Unavailable("Assistant is not configured"))
		return
	}
	userID, err := currentUser(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, apperr.Validation("Message is required", nil))
		return
	}

	reply, err := h.agent.Ask(c.Request.Context(), userID, req.Message)
	if err != nil {
		h.log.Error("assistant failed", "user_id", userID, "error", err)
		respondError(c, h.log, apperr.Unavailable("Assistant is unavailable"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
