package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bizease/bizease-backend/internal/services"
)

// ChatHandler serves /api/chat. Its body shape is {response} or {error},
// not the utils.Envelope, because the chat widget reads those keys.
type ChatHandler struct {
	chatService *services.ChatService
}

func NewChatHandler(chatService *services.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

// POST /api/chat
func (h *ChatHandler) Chat(c *gin.Context) {
	var req services.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	reply, err := h.chatService.Answer(c.Request.Context(), req.Message)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyMessage):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		case errors.Is(err, services.ErrMissingAPIKey):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Missing Gemini API key"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get response from AI"})
		}
		return
	}

	c.JSON(http.StatusOK, reply)
}
