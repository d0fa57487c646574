package handlers

import (
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ChatHandler handles HTTP requests for the support chat.
type ChatHandler struct {
	service *services.ChatService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(service *services.ChatService) *ChatHandler {
	return &ChatHandler{service: service}
}

// RegisterRoutes registers the chat routes.
func (h *ChatHandler) RegisterRoutes(router fiber.Router) {
	chatRoutes := router.Group("/chat")
	chatRoutes.Get("/messages", h.HandleGetMessages)
	chatRoutes.Post("/messages", h.HandleSendMessage)
}

// HandleGetMessages returns the conversation.
func (h *ChatHandler) HandleGetMessages(c *fiber.Ctx) error {
	return c.JSON(h.service.Messages())
}

// HandleSendMessage posts a message; the auto-reply follows asynchronously.
func (h *ChatHandler) HandleSendMessage(c *fiber.Ctx) error {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	msg, err := h.service.Send(req.Text)
	if err != nil {
		return respondError(c, "Could not send message", err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}
