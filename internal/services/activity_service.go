package services

import (
	"context"

	"teamboard-backend/internal/db"
	"teamboard-backend/internal/models"
)

type ActivityService struct{}

func NewActivityService() *ActivityService {
	return &ActivityService{}
}

// Record appends a row to the project's activity feed. Best effort from the
// caller's point of view: feed writes never fail the mutation that produced
// them.
func (s *ActivityService) Record(ctx context.Context, userID, projectID int, action, entityType string, entityID int, description string) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO activity_log (user_id, project_id, action, entity_type, entity_id, description)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		userID, projectID, action, entityType, entityID, description)
	return err
}

func (s *ActivityService) ListByProject(ctx context.Context, projectID, limit int) ([]models.Activity, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Pool.Query(ctx, `
		SELECT a.id, a.user_id, a.project_id, a.action, a.entity_type, a.entity_id, a.description, a.created_at,
		       u.first_name, u.last_name, u.avatar_url
		FROM activity_log a
		JOIN users u ON u.id = a.user_id
		WHERE a.project_id = $1
		ORDER BY a.created_at DESC
		LIMIT $2`, projectID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var feed []models.Activity
	for rows.Next() {
		var a models.Activity
		if err := rows.Scan(&a.ID, &a.UserID, &a.ProjectID, &a.Action, &a.EntityType, &a.EntityID,
			&a.Description, &a.CreatedAt, &a.FirstName, &a.LastName, &a.AvatarURL); err != nil {
			return nil, err
		}
		feed = append(feed, a)
	}
	return feed, rows.Err()
}

func (s *ActivityService) CreateNotification(ctx context.Context, userID int, ntype, title, message string, link *string) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO notifications (user_id, type, title, message, link)
		VALUES ($1, $2, $3, $4, $5)`,
		userID, ntype, title, message, link)
	return err
}

func (s *ActivityService) ListNotifications(ctx context.Context, userID int) ([]models.Notification, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, user_id, type, title, message, link, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 100`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.Link, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	return items, rows.Err()
}

func (s *ActivityService) MarkAllNotificationsRead(ctx context.Context, userID int) error {
	_, err := db.Pool.Exec(ctx,
		"UPDATE notifications SET is_read = TRUE WHERE user_id = $1", userID)
	return err
}

func (s *ActivityService) MarkNotificationRead(ctx context.Context, id, userID int) error {
	_, err := db.Pool.Exec(ctx,
		"UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2", id, userID)
	return err
}
