package handlers

import (
	"errors"
	"fmt"

	"teamboard-backend/internal/models"
	"teamboard-backend/internal/services"
	"teamboard-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
)

func ListProjectsHandler(projectService *services.ProjectService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(int)
		projects, err := projectService.ListProjects(c.Context(), userID)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to fetch projects"})
		}
		if projects == nil {
			projects = []models.Project{}
		}
		return c.JSON(projects)
	}
}

func CreateProjectHandler(projectService *services.ProjectService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(int)

		var req models.CreateProjectRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
		}
		if req.Name == "" {
			return c.Status(400).JSON(fiber.Map{"error": "name is required"})
		}

		project, err := projectService.CreateProject(c.Context(), userID, req)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to create project"})
		}
		return c.Status(201).JSON(project)
	}
}

func GetProjectHandler(projectService *services.ProjectService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid project id"})
		}

		project, err := projectService.GetProject(c.Context(), id)
		if err != nil {
			return c.Status(404).JSON(fiber.Map{"error": "Project not found"})
		}
		members, err := projectService.ListMembers(c.Context(), id)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to fetch members"})
		}

		return c.JSON(fiber.Map{"project": project, "members": members})
	}
}

func UpdateProjectHandler(projectService *services.ProjectService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid project id"})
		}

		var req models.UpdateProjectRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
		}

		project, err := projectService.UpdateProject(c.Context(), id, req)
		if err != nil {
			if errors.Is(err, services.ErrProjectNotFound) {
				return c.Status(404).JSON(fiber.Map{"error": "Project not found"})
			}
			return c.Status(500).JSON(fiber.Map{"error": "failed to update project"})
		}
		return c.JSON(project)
	}
}

func DeleteProjectHandler(projectService *services.ProjectService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(int)
		id, err := c.ParamsInt("id")
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid project id"})
		}

		project, err := projectService.GetProject(c.Context(), id)
		if err != nil {
			return c.Status(404).JSON(fiber.Map{"error": "Project not found"})
		}
		if project.OwnerID != userID {
			return c.Status(403).JSON(fiber.Map{"error": "Only project owners can delete a project"})
		}

		if err := projectService.DeleteProject(c.Context(), id); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to delete project"})
		}
		return c.JSON(fiber.Map{"message": "Project deleted"})
	}
}

func ListMembersHandler(projectService *services.ProjectService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid project id"})
		}
		members, err := projectService.ListMembers(c.Context(), id)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to fetch members"})
		}
		if members == nil {
			members = []models.ProjectMember{}
		}
		return c.JSON(members)
	}
}

// AddMemberHandler invites a user by email and drops a notification in their
// inbox. The notification write is best effort.
func AddMemberHandler(projectService *services.ProjectService, activityService *services.ActivityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(int)
		id, err := c.ParamsInt("id")
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid project id"})
		}

		var req models.AddMemberRequest
		if err := c.BodyParser(&req); err != nil || req.Email == "" {
			return c.Status(400).JSON(fiber.Map{"error": "email is required"})
		}

		project, err := projectService.GetProject(c.Context(), id)
		if err != nil {
			return c.Status(404).JSON(fiber.Map{"error": "Project not found"})
		}

		member, err := projectService.AddMember(c.Context(), id, req.Email, req.Role)
		if err != nil {
			if errors.Is(err, services.ErrMemberNotFound) {
				return c.Status(404).JSON(fiber.Map{"error": "User not found with this email"})
			}
			return c.Status(500).JSON(fiber.Map{"error": "failed to add member"})
		}

		link := fmt.Sprintf("/projects/%d", id)
		utils.LogError(activityService.CreateNotification(c.Context(), member.ID, "project_invite",
			"Added to project", fmt.Sprintf("You were added to %q", project.Name), &link),
			"AddMember notification")
		utils.LogError(activityService.Record(c.Context(), userID, id, "member_added", "project", id,
			fmt.Sprintf("added %s %s to the project", member.FirstName, member.LastName)),
			"AddMember activity")

		return c.Status(201).JSON(member)
	}
}

func RemoveMemberHandler(projectService *services.ProjectService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authUserID := c.Locals("user_id").(int)
		id, err := c.ParamsInt("id")
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid project id"})
		}
		memberID, err := c.ParamsInt("userId")
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid user id"})
		}

		project, err := projectService.GetProject(c.Context(), id)
		if err != nil {
			return c.Status(404).JSON(fiber.Map{"error": "Project not found"})
		}
		if project.OwnerID != authUserID {
			return c.Status(403).JSON(fiber.Map{"error": "Only project owners can remove members"})
		}
		if memberID == authUserID {
			return c.Status(400).JSON(fiber.Map{"error": "Cannot remove yourself from the project"})
		}

		if err := projectService.RemoveMember(c.Context(), id, memberID); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to remove member"})
		}
		return c.JSON(fiber.Map{"message": "Member removed"})
	}
}
