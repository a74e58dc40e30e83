package handlers

import (
	"errors"
	"fmt"

	"teamboard-backend/internal/models"
	"teamboard-backend/internal/realtime"
	"teamboard-backend/internal/services"
	"teamboard-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
)

func ListTasksHandler(taskService *services.TaskService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		projectID, err := c.ParamsInt("id")
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid project id"})
		}
		tasks, err := taskService.ListTasks(c.Context(), projectID)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to fetch tasks"})
		}
		if tasks == nil {
			tasks = []models.Task{}
		}
		return c.JSON(tasks)
	}
}

func CreateTaskHandler(taskService *services.TaskService, activityService *services.ActivityService, co *realtime.Coordinator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(int)
		projectID, err := c.ParamsInt("id")
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid project id"})
		}

		var req models.TaskRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
		}
		if req.Title == "" {
			return c.Status(400).JSON(fiber.Map{"error": "title is required"})
		}

		task, err := taskService.CreateTask(c.Context(), projectID, userID, req)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to create task"})
		}

		utils.LogError(activityService.Record(c.Context(), userID, projectID, "task_created", "task",
			task.ID, fmt.Sprintf("created %q", task.Title)), "CreateTask activity")
		if task.AssignedTo != nil && *task.AssignedTo != userID {
			link := fmt.Sprintf("/projects/%d?task=%d", projectID, task.ID)
			utils.LogError(activityService.CreateNotification(c.Context(), *task.AssignedTo,
				"task_assigned", "Task assigned", fmt.Sprintf("You were assigned %q", task.Title), &link),
				"CreateTask notification")
			co.NotifyUser(*task.AssignedTo)
		}

		return c.Status(201).JSON(task)
	}
}

func GetTaskHandler(taskService *services.TaskService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid task id"})
		}

		task, err := taskService.GetTask(c.Context(), id)
		if err != nil {
			return c.Status(404).JSON(fiber.Map{"error": "Task not found"})
		}
		comments, err := taskService.ListComments(c.Context(), id)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to fetch comments"})
		}
		if comments == nil {
			comments = []models.Comment{}
		}

		return c.JSON(fiber.Map{"task": task, "comments": comments})
	}
}

// UpdateTaskHandler rewrites a task. Kanban column moves land here too, and
// those get a line in the activity feed.
func UpdateTaskHandler(taskService *services.TaskService, activityService *services.ActivityService, co *realtime.Coordinator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(int)
		id, err := c.ParamsInt("id")
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid task id"})
		}

		var req models.TaskRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
		}

		old, err := taskService.GetTask(c.Context(), id)
		if err != nil {
			return c.Status(404).JSON(fiber.Map{"error": "Task not found"})
		}

		task, err := taskService.UpdateTask(c.Context(), id, req)
		if err != nil {
			if errors.Is(err, services.ErrTaskNotFound) {
				return c.Status(404).JSON(fiber.Map{"error": "Task not found"})
			}
			return c.Status(500).JSON(fiber.Map{"error": "failed to update task"})
		}

		if old.Status != task.Status {
			utils.LogError(activityService.Record(c.Context(), userID, task.ProjectID,
				"task_status_changed", "task", task.ID,
				fmt.Sprintf("moved %q from %s to %s", task.Title, old.Status, task.Status)),
				"UpdateTask activity")
		}
		newAssignee := task.AssignedTo
		if newAssignee != nil && *newAssignee != userID &&
			(old.AssignedTo == nil || *old.AssignedTo != *newAssignee) {
			link := fmt.Sprintf("/projects/%d?task=%d", task.ProjectID, task.ID)
			utils.LogError(activityService.CreateNotification(c.Context(), *newAssignee,
				"task_assigned", "Task assigned", fmt.Sprintf("You were assigned %q", task.Title), &link),
				"UpdateTask notification")
			co.NotifyUser(*newAssignee)
		}

		return c.JSON(task)
	}
}

func DeleteTaskHandler(taskService *services.TaskService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid task id"})
		}
		if err := taskService.DeleteTask(c.Context(), id); err != nil {
			if errors.Is(err, services.ErrTaskNotFound) {
				return c.Status(404).JSON(fiber.Map{"error": "Task not found"})
			}
			return c.Status(500).JSON(fiber.Map{"error": "failed to delete task"})
		}
		return c.JSON(fiber.Map{"message": "Task deleted"})
	}
}

func AddCommentHandler(taskService *services.TaskService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(int)
		id, err := c.ParamsInt("id")
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid task id"})
		}

		var req struct {
			Content string `json:"content"`
		}
		if err := c.BodyParser(&req); err != nil || req.Content == "" {
			return c.Status(400).JSON(fiber.Map{"error": "content is required"})
		}

		comment, err := taskService.AddComment(c.Context(), id, userID, req.Content)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to add comment"})
		}
		return c.Status(201).JSON(comment)
	}
}
