package services

import (
	"context"

	"teamboard-backend/internal/db"
	"teamboard-backend/internal/models"
)

type DashboardService struct{}

func NewDashboardService() *DashboardService {
	return &DashboardService{}
}

// GetStats aggregates the user's cross-project numbers for the dashboard:
// membership count, per-column task totals, overdue count, the ten latest
// activity rows across their projects, and deadlines due within a week.
func (s *DashboardService) GetStats(ctx context.Context, userID int) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{
		RecentActivity: []models.Activity{},
		UpcomingTasks:  []models.DeadlineTask{},
	}

	err := db.Pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM project_members WHERE user_id = $1", userID).Scan(&stats.Projects)
	if err != nil {
		return nil, err
	}

	err = db.Pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE t.status = 'done'),
		       COUNT(*) FILTER (WHERE t.status = 'in_progress'),
		       COUNT(*) FILTER (WHERE t.status = 'todo')
		FROM tasks t
		JOIN project_members pm ON pm.project_id = t.project_id
		WHERE pm.user_id = $1`, userID).
		Scan(&stats.Tasks.Total, &stats.Tasks.Completed, &stats.Tasks.InProgress, &stats.Tasks.Todo)
	if err != nil {
		return nil, err
	}

	err = db.Pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM tasks t
		JOIN project_members pm ON pm.project_id = t.project_id
		WHERE pm.user_id = $1 AND t.due_date < NOW() AND t.status <> 'done'`, userID).
		Scan(&stats.Overdue)
	if err != nil {
		return nil, err
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT a.id, a.user_id, a.project_id, a.action, a.entity_type, a.entity_id, a.description, a.created_at,
		       u.first_name, u.last_name, u.avatar_url
		FROM activity_log a
		JOIN users u ON u.id = a.user_id
		WHERE a.project_id IN (SELECT project_id FROM project_members WHERE user_id = $1)
		ORDER BY a.created_at DESC
		LIMIT 10`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var a models.Activity
		if err := rows.Scan(&a.ID, &a.UserID, &a.ProjectID, &a.Action, &a.EntityType, &a.EntityID,
			&a.Description, &a.CreatedAt, &a.FirstName, &a.LastName, &a.AvatarURL); err != nil {
			return nil, err
		}
		stats.RecentActivity = append(stats.RecentActivity, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	deadlines, err := db.Pool.Query(ctx, `
		SELECT t.id, t.title, t.status, t.priority, t.due_date, p.id, p.name, p.color
		FROM tasks t
		JOIN projects p ON p.id = t.project_id
		JOIN project_members pm ON pm.project_id = t.project_id
		WHERE pm.user_id = $1 AND t.due_date IS NOT NULL
		  AND t.due_date BETWEEN NOW() AND NOW() + INTERVAL '7 days'
		  AND t.status <> 'done'
		ORDER BY t.due_date ASC
		LIMIT 10`, userID)
	if err != nil {
		return nil, err
	}
	defer deadlines.Close()
	for deadlines.Next() {
		var d models.DeadlineTask
		if err := deadlines.Scan(&d.ID, &d.Title, &d.Status, &d.Priority, &d.DueDate,
			&d.ProjectID, &d.ProjectName, &d.ProjectColor); err != nil {
			return nil, err
		}
		stats.UpcomingTasks = append(stats.UpcomingTasks, d)
	}
	return stats, deadlines.Err()
}
