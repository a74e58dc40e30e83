package app

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"teamboard-backend/internal/db"
	"teamboard-backend/internal/handlers"
	"teamboard-backend/internal/models"
	"teamboard-backend/internal/realtime"
	"teamboard-backend/internal/services"
	"teamboard-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func Run() {
	// Load Env
	if err := utils.LoadEnv(); err != nil {
		log.Printf("Warning: could not load .env: %v", err)
	}

	// Init DB
	connString := utils.GetEnv("DATABASE_URL", "")
	if connString == "" {
		// Fallback to individual vars
		connString = "postgres://" + utils.GetEnv("POSTGRES_USER", "postgres") + ":" +
			utils.GetEnv("POSTGRES_PASSWORD", "postgres") + "@" +
			utils.GetEnv("POSTGRES_HOST", "localhost") + ":" +
			utils.GetEnv("POSTGRES_PORT", "5432") + "/" +
			utils.GetEnv("POSTGRES_DB", "teamboard") + "?sslmode=disable"
	}

	if err := db.InitDB(connString); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.CloseDB()

	// Services
	userService := services.NewUserService()
	projectService := services.NewProjectService()
	taskService := services.NewTaskService()
	messageService := services.NewMessageService()
	pollService := services.NewPollService()
	activityService := services.NewActivityService()
	dashboardService := services.NewDashboardService()

	// Realtime coordinator: one instance for the whole process, injected
	// into the websocket layer and the REST handlers that push room events.
	coordinator := realtime.NewCoordinator()

	// Fiber App
	app := fiber.New()

	// Middleware
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	// Routes
	api := app.Group("/api")

	// Public Routes
	api.Post("/auth/register", func(c *fiber.Ctx) error {
		var req models.RegisterRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
		}
		if req.Email == "" || req.Password == "" {
			return c.Status(400).JSON(fiber.Map{"error": "Email and password are required"})
		}
		user, err := userService.Register(c.Context(), req)
		if err != nil {
			if errors.Is(err, services.ErrUserExists) {
				return c.Status(400).JSON(fiber.Map{"error": "Email already registered"})
			}
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		token, err := services.GenerateJWT(user.ID, user.Email)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to generate token"})
		}
		return c.Status(201).JSON(fiber.Map{"token": token, "user": user})
	})

	api.Post("/auth/login", func(c *fiber.Ctx) error {
		var req models.LoginRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
		}
		res, err := userService.Login(c.Context(), req)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid credentials"})
		}
		return c.JSON(res)
	})

	// Refresh token endpoint
	api.Post("/auth/refresh", func(c *fiber.Ctx) error {
		var body struct {
			RefreshToken string `json:"refresh_token"`
		}
		if err := c.BodyParser(&body); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
		}
		if body.RefreshToken == "" {
			return c.Status(400).JSON(fiber.Map{"error": "refresh_token required"})
		}

		claims, err := services.ValidateRefreshToken(body.RefreshToken)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "invalid refresh token"})
		}

		userIDf, ok := claims["user_id"].(float64)
		if !ok {
			return c.Status(401).JSON(fiber.Map{"error": "invalid token claims"})
		}
		email, ok := claims["email"].(string)
		if !ok {
			return c.Status(401).JSON(fiber.Map{"error": "invalid token claims"})
		}

		userID := int(userIDf)

		access, err := services.GenerateJWT(userID, email)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to generate access token"})
		}
		refresh, err := services.GenerateRefreshToken(userID, email)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to generate refresh token"})
		}

		return c.JSON(fiber.Map{
			"access_token":  access,
			"refresh_token": refresh,
		})
	})

	// Runtime config, fetched by the frontend on startup.
	api.Get("/config/runtime", func(c *fiber.Ctx) error {
		backendURL := utils.GetEnv("BACKEND_PUBLIC_URL", "")
		return c.JSON(fiber.Map{
			"agoraAppId": utils.GetEnv("AGORA_APP_ID", ""),
			"backendUrl": backendURL,
			"socketUrl":  utils.GetEnv("SOCKET_PUBLIC_URL", backendURL),
		})
	})

	// RTC provider credentials for call media. Without a certificate the
	// Agora project runs in testing mode and clients join tokenless.
	api.Get("/agora/token", func(c *fiber.Ctx) error {
		if utils.GetEnv("AGORA_APP_ID", "") == "" {
			return c.Status(500).JSON(fiber.Map{"error": "Agora App ID not configured"})
		}
		if utils.GetEnv("AGORA_APP_CERTIFICATE", "") == "" {
			return c.JSON(fiber.Map{"token": nil, "mode": "testing"})
		}
		if c.Query("channelName") == "" {
			return c.Status(400).JSON(fiber.Map{"error": "channelName is required"})
		}
		return c.Status(501).JSON(fiber.Map{"error": "token generation requires the Agora token service"})
	})

	// Protected Routes
	protected := api.Group("/")
	protected.Use(handlers.AuthMiddleware)

	protected.Get("/profile", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(int)
		user, err := userService.GetUserByID(c.Context(), userID)
		if err != nil {
			return c.Status(404).JSON(fiber.Map{"error": "user not found"})
		}
		return c.JSON(user)
	})

	// Projects
	protected.Get("/projects", handlers.ListProjectsHandler(projectService))
	protected.Post("/projects", handlers.CreateProjectHandler(projectService))
	protected.Get("/projects/:id", handlers.GetProjectHandler(projectService))
	protected.Put("/projects/:id", handlers.UpdateProjectHandler(projectService))
	protected.Delete("/projects/:id", handlers.DeleteProjectHandler(projectService))
	protected.Get("/projects/:id/members", handlers.ListMembersHandler(projectService))
	protected.Post("/projects/:id/members", handlers.AddMemberHandler(projectService, activityService))
	protected.Delete("/projects/:id/members/:userId", handlers.RemoveMemberHandler(projectService))

	// Tasks (kanban)
	protected.Get("/projects/:id/tasks", handlers.ListTasksHandler(taskService))
	protected.Post("/projects/:id/tasks", handlers.CreateTaskHandler(taskService, activityService, coordinator))
	protected.Get("/tasks/:id", handlers.GetTaskHandler(taskService))
	protected.Put("/tasks/:id", handlers.UpdateTaskHandler(taskService, activityService, coordinator))
	protected.Delete("/tasks/:id", handlers.DeleteTaskHandler(taskService))
	protected.Post("/tasks/:id/comments", handlers.AddCommentHandler(taskService))

	// Chat messages (REST write + realtime fan-out)
	protected.Get("/messages/project/:projectId", handlers.GetMessagesHandler(messageService))
	protected.Post("/messages/project/:projectId", handlers.SendMessageHandler(messageService, coordinator))
	protected.Get("/messages/project/:projectId/pinned", handlers.GetPinnedMessagesHandler(messageService))
	protected.Put("/messages/:id/pin", handlers.PinMessageHandler(messageService))
	protected.Delete("/messages/:id/pin", handlers.UnpinMessageHandler(messageService))

	// Polls
	protected.Post("/polls/project/:projectId", handlers.CreatePollHandler(pollService, coordinator))
	protected.Get("/polls/project/:projectId", handlers.GetPollsHandler(pollService))
	protected.Post("/polls/:pollId/vote", handlers.VotePollHandler(pollService, coordinator))

	// Activity feed & notifications
	protected.Get("/activity/project/:projectId", handlers.GetActivityHandler(activityService))
	protected.Get("/notifications", handlers.ListNotificationsHandler(activityService))
	protected.Put("/notifications/read-all", handlers.MarkAllNotificationsReadHandler(activityService))
	protected.Put("/notifications/:id/read", handlers.MarkNotificationReadHandler(activityService))

	// Dashboard
	protected.Get("/dashboard/stats", handlers.GetDashboardStatsHandler(dashboardService))

	// Health Check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// WebSocket Route
	// Note: Middleware order matters. AuthMiddleware checks token.
	// WSUpgradeMiddleware checks if it's a WS request.
	app.Use("/ws", handlers.WSUpgradeMiddleware)
	app.Use("/ws", handlers.AuthMiddleware)
	app.Get("/ws", handlers.WebSocketHandler(coordinator))

	// Start Server
	port := utils.GetEnv("PORT", "5000")
	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	// Graceful Shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c // Block until signal
	log.Println("Gracefully shutting down...")
	_ = app.Shutdown()
	log.Println("Server shutdown complete")
}
