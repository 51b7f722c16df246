package server

import (
	"skyhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

type sendMessageRequest struct {
	ReceiverID uint   `json:"receiver_id"`
	Content    string `json:"content"`
}

// SendMessage handles POST /api/messages
// @Summary Send a direct message
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body sendMessageRequest true "Message"
// @Success 201 {object} models.Message
// @Failure 404 {object} models.ErrorResponse
// @Router /messages [post]
func (s *Server) SendMessage(c *fiber.Ctx) error {
	var req sendMessageRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	msg, err := s.messageService.Send(c.UserContext(), service.SendMessageInput{
		SenderID:   callerID(c),
		ReceiverID: req.ReceiverID,
		Content:    req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

// GetConversation handles GET /api/messages/:contactId
// @Summary Conversation with a contact, oldest first
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param contactId path int true "Other user's ID"
// @Success 200 {array} models.Message
// @Router /messages/{contactId} [get]
func (s *Server) GetConversation(c *fiber.Ctx) error {
	contactID, err := parseID(c, "contactId")
	if err != nil {
		return nil
	}
	history, err := s.messageService.History(c.UserContext(), callerID(c), contactID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(history)
}
