package models

import "time"

// DashboardStats is the aggregate block behind the dashboard landing page.
type DashboardStats struct {
	Projects       int            `json:"projects"`
	Tasks          TaskBreakdown  `json:"tasks"`
	Overdue        int            `json:"overdue"`
	RecentActivity []Activity     `json:"recentActivity"`
	UpcomingTasks  []DeadlineTask `json:"upcomingTasks"`
}

// TaskBreakdown counts the user's visible tasks per kanban column.
type TaskBreakdown struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	InProgress int `json:"in_progress"`
	Todo       int `json:"todo"`
}

// DeadlineTask is one row of the upcoming-deadlines widget.
type DeadlineTask struct {
	ID           int        `json:"id"`
	Title        string     `json:"title"`
	Status       string     `json:"status"`
	Priority     string     `json:"priority"`
	DueDate      *time.Time `json:"due_date"`
	ProjectID    int        `json:"project_id"`
	ProjectName  string     `json:"project_name"`
	ProjectColor *string    `json:"project_color"`
}
