package handlers

import (
	"errors"
	"strconv"

	"teamboard-backend/internal/models"
	"teamboard-backend/internal/realtime"
	"teamboard-backend/internal/services"

	"github.com/gofiber/fiber/v2"
)

func GetMessagesHandler(messageService *services.MessageService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		projectID, err := c.ParamsInt("projectId")
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid project id"})
		}
		messages, err := messageService.ListMessages(c.Context(), projectID)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to fetch messages"})
		}
		if messages == nil {
			messages = []models.Message{}
		}
		return c.JSON(messages)
	}
}

// SendMessageHandler persists a chat message, then fans it out to the
// project room. The optional X-Socket-Id header names the sender's live
// connection so the push can skip it; without the header everyone gets the
// push and the sender dedups by message id.
func SendMessageHandler(messageService *services.MessageService, co *realtime.Coordinator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(int)
		projectID, err := c.ParamsInt("projectId")
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid project id"})
		}

		var req models.SendMessageRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
		}
		if req.Content == "" {
			return c.Status(400).JSON(fiber.Map{"error": "content is required"})
		}

		msg, err := messageService.SaveMessage(c.Context(), projectID, userID, req.Content)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to save message"})
		}

		// Push after the write committed, never before.
		co.Publish(strconv.Itoa(projectID), msg, c.Get("X-Socket-Id"))

		return c.Status(201).JSON(msg)
	}
}

func PinMessageHandler(messageService *services.MessageService) fiber.Handler {
	return setPinnedHandler(messageService, true)
}

func UnpinMessageHandler(messageService *services.MessageService) fiber.Handler {
	return setPinnedHandler(messageService, false)
}

func setPinnedHandler(messageService *services.MessageService, pinned bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid message id"})
		}
		msg, err := messageService.SetPinned(c.Context(), id, pinned)
		if err != nil {
			if errors.Is(err, services.ErrMessageNotFound) {
				return c.Status(404).JSON(fiber.Map{"error": "message not found"})
			}
			return c.Status(500).JSON(fiber.Map{"error": "failed to update message"})
		}
		return c.JSON(msg)
	}
}

func GetPinnedMessagesHandler(messageService *services.MessageService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		projectID, err := c.ParamsInt("projectId")
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid project id"})
		}
		messages, err := messageService.ListPinnedMessages(c.Context(), projectID)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to fetch pinned messages"})
		}
		if messages == nil {
			messages = []models.Message{}
		}
		return c.JSON(messages)
	}
}
