package handlers

import (
	"errors"
	"strconv"

	"teamboard-backend/internal/models"
	"teamboard-backend/internal/realtime"
	"teamboard-backend/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CreatePollHandler stores a poll and pushes it to everyone in the project
// room, poll creator included.
func CreatePollHandler(pollService *services.PollService, co *realtime.Coordinator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(int)
		projectID, err := c.ParamsInt("projectId")
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid project id"})
		}

		var req models.CreatePollRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
		}

		poll, err := pollService.CreatePoll(c.Context(), projectID, userID, req)
		if err != nil {
			if errors.Is(err, services.ErrPollTooFewOpts) {
				return c.Status(400).JSON(fiber.Map{"error": err.Error()})
			}
			return c.Status(500).JSON(fiber.Map{"error": "failed to create poll"})
		}

		co.PublishEvent(strconv.Itoa(projectID), realtime.EventNewPoll, poll)

		return c.Status(201).JSON(poll)
	}
}

func VotePollHandler(pollService *services.PollService, co *realtime.Coordinator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(int)
		pollID, err := c.ParamsInt("pollId")
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid poll id"})
		}

		var req models.VoteRequest
		if err := c.BodyParser(&req); err != nil || req.OptionID == 0 {
			return c.Status(400).JSON(fiber.Map{"error": "optionId is required"})
		}

		poll, err := pollService.Vote(c.Context(), pollID, userID, req.OptionID)
		if err != nil {
			if errors.Is(err, services.ErrPollNotFound) {
				return c.Status(404).JSON(fiber.Map{"error": "poll not found"})
			}
			if errors.Is(err, services.ErrOptionNotFound) {
				return c.Status(400).JSON(fiber.Map{"error": "option does not belong to this poll"})
			}
			return c.Status(500).JSON(fiber.Map{"error": "failed to record vote"})
		}

		co.PublishEvent(strconv.Itoa(poll.ProjectID), realtime.EventPollUpdated, poll)

		return c.JSON(poll)
	}
}

func GetPollsHandler(pollService *services.PollService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		projectID, err := c.ParamsInt("projectId")
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid project id"})
		}
		polls, err := pollService.ListPolls(c.Context(), projectID)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to fetch polls"})
		}
		if polls == nil {
			polls = []models.Poll{}
		}
		return c.JSON(polls)
	}
}
