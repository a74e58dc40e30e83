package handlers

import (
	"log"

	"teamboard-backend/internal/realtime"
	"teamboard-backend/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// WebSocketHandler runs the read loop for one realtime connection. The
// connection is registered with the coordinator before any event is
// processed and unregistered, with presence cleanup, when the loop exits.
func WebSocketHandler(co *realtime.Coordinator) fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		userID := c.Locals("user_id").(int)

		connID := uuid.New().String()
		co.Register(connID, c)
		defer func() {
			co.Unregister(connID)
			c.Close()
		}()

		// Tell the client its connection id so it can pass the X-Socket-Id
		// exclusion hint on REST message writes.
		co.SendTo(connID, realtime.Event{
			Event: realtime.EventConnected,
			Data:  realtime.ConnectedPayload{ConnectionID: connID},
		})

		for {
			msgType, msg, err := c.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Printf("websocket read: %v", err)
				}
				break
			}
			if msgType != websocket.TextMessage {
				continue
			}
			DispatchEvent(co, connID, userID, msg)
		}
	})
}

// WSUpgradeMiddleware upgrades the connection to WebSocket
func WSUpgradeMiddleware(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		c.Locals("allowed", true)
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// AuthMiddleware verifies the JWT token before the request proceeds
func AuthMiddleware(c *fiber.Ctx) error {
	// Get token from query param `access_token` or Authorization header
	token := c.Query("access_token")
	if token == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			token = authHeader[7:]
		}
	}

	if token == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "Missing token")
	}

	claims, err := services.ValidateToken(token)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}

	// claims["user_id"] comes as float64 from JSON
	if uid, ok := claims["user_id"].(float64); ok {
		c.Locals("user_id", int(uid))
	} else {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
	}

	if email, ok := claims["email"].(string); ok {
		c.Locals("email", email)
	}

	return c.Next()
}
