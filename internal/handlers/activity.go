package handlers

import (
	"teamboard-backend/internal/models"
	"teamboard-backend/internal/services"

	"github.com/gofiber/fiber/v2"
)

func GetActivityHandler(activityService *services.ActivityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		projectID, err := c.ParamsInt("projectId")
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid project id"})
		}
		limit := c.QueryInt("limit", 50)

		feed, err := activityService.ListByProject(c.Context(), projectID, limit)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to fetch activity"})
		}
		if feed == nil {
			feed = []models.Activity{}
		}
		return c.JSON(feed)
	}
}

func ListNotificationsHandler(activityService *services.ActivityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(int)
		items, err := activityService.ListNotifications(c.Context(), userID)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to fetch notifications"})
		}
		if items == nil {
			items = []models.Notification{}
		}
		return c.JSON(items)
	}
}

func MarkNotificationReadHandler(activityService *services.ActivityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(int)
		id, err := c.ParamsInt("id")
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid notification id"})
		}
		if err := activityService.MarkNotificationRead(c.Context(), id, userID); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to update notification"})
		}
		return c.JSON(fiber.Map{"message": "Notification marked read"})
	}
}
