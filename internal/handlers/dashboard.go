package handlers

import (
	"teamboard-backend/internal/services"

	"github.com/gofiber/fiber/v2"
)

func GetDashboardStatsHandler(dashboardService *services.DashboardService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(int)
		stats, err := dashboardService.GetStats(c.Context(), userID)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to fetch dashboard stats"})
		}
		return c.JSON(stats)
	}
}

func MarkAllNotificationsReadHandler(activityService *services.ActivityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(int)
		if err := activityService.MarkAllNotificationsRead(c.Context(), userID); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to update notifications"})
		}
		return c.JSON(fiber.Map{"message": "All notifications marked read"})
	}
}
