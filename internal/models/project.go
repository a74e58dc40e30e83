package models

import "time"

type Project struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	Color       *string    `json:"color"`
	Status      string     `json:"status"`
	OwnerID     int        `json:"owner_id"`
	DueDate     *time.Time `json:"due_date"`
	CreatedAt   time.Time  `json:"created_at"`

	// Aggregates filled by list queries, not stored columns.
	MemberCount    int `json:"member_count,omitempty"`
	TaskCount      int `json:"task_count,omitempty"`
	CompletedTasks int `json:"completed_tasks,omitempty"`
}

type ProjectMember struct {
	ID        int     `json:"id"`
	Email     string  `json:"email"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	AvatarURL *string `json:"avatar_url"`
	Role      string  `json:"role"`
}

type CreateProjectRequest struct {
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	Color       *string    `json:"color"`
	DueDate     *time.Time `json:"due_date"`
}

type UpdateProjectRequest struct {
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	Color       *string    `json:"color"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"due_date"`
}

type AddMemberRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}
