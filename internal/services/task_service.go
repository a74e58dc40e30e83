package services

import (
	"context"
	"errors"
	"time"

	"teamboard-backend/internal/db"
	"teamboard-backend/internal/models"
)

var ErrTaskNotFound = errors.New("task not found")

type TaskService struct{}

func NewTaskService() *TaskService {
	return &TaskService{}
}

func (s *TaskService) ListTasks(ctx context.Context, projectID int) ([]models.Task, error) {
	query := `
		SELECT t.id, t.project_id, t.title, t.description, t.status, t.priority,
		       t.assigned_to, t.created_by, t.due_date, t.completed_at, t.created_at,
		       u.first_name, u.last_name,
		       (SELECT COUNT(*) FROM comments cm WHERE cm.task_id = t.id) AS comment_count
		FROM tasks t
		LEFT JOIN users u ON u.id = t.assigned_to
		WHERE t.project_id = $1
		ORDER BY t.created_at DESC`
	rows, err := db.Pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.Status, &t.Priority,
			&t.AssignedTo, &t.CreatedBy, &t.DueDate, &t.CompletedAt, &t.CreatedAt,
			&t.AssigneeFirstName, &t.AssigneeLastName, &t.CommentCount); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *TaskService) CreateTask(ctx context.Context, projectID, createdBy int, req models.TaskRequest) (*models.Task, error) {
	status := req.Status
	if status == "" {
		status = models.TaskStatusTodo
	}
	priority := req.Priority
	if priority == "" {
		priority = "medium"
	}

	var t models.Task
	query := `INSERT INTO tasks (project_id, title, description, status, priority, assigned_to, due_date, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, project_id, title, description, status, priority, assigned_to, created_by, due_date, completed_at, created_at`
	err := db.Pool.QueryRow(ctx, query, projectID, req.Title, req.Description, status, priority,
		req.AssignedTo, req.DueDate, createdBy).
		Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.Status, &t.Priority,
			&t.AssignedTo, &t.CreatedBy, &t.DueDate, &t.CompletedAt, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TaskService) GetTask(ctx context.Context, id int) (*models.Task, error) {
	var t models.Task
	query := `SELECT id, project_id, title, description, status, priority, assigned_to, created_by,
		due_date, completed_at, created_at FROM tasks WHERE id = $1`
	err := db.Pool.QueryRow(ctx, query, id).
		Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.Status, &t.Priority,
			&t.AssignedTo, &t.CreatedBy, &t.DueDate, &t.CompletedAt, &t.CreatedAt)
	if err != nil {
		return nil, ErrTaskNotFound
	}
	return &t, nil
}

// UpdateTask rewrites the mutable columns. Moving a task into "done" stamps
// completed_at; moving it out clears the stamp.
func (s *TaskService) UpdateTask(ctx context.Context, id int, req models.TaskRequest) (*models.Task, error) {
	var completedAt *time.Time
	if req.Status == models.TaskStatusDone {
		now := time.Now()
		completedAt = &now
	}

	query := `UPDATE tasks SET title = $1, description = $2, status = $3, priority = $4,
		assigned_to = $5, due_date = $6, completed_at = $7 WHERE id = $8`
	tag, err := db.Pool.Exec(ctx, query, req.Title, req.Description, req.Status, req.Priority,
		req.AssignedTo, req.DueDate, completedAt, id)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrTaskNotFound
	}
	return s.GetTask(ctx, id)
}

func (s *TaskService) DeleteTask(ctx context.Context, id int) error {
	tag, err := db.Pool.Exec(ctx, "DELETE FROM tasks WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (s *TaskService) ListComments(ctx context.Context, taskID int) ([]models.Comment, error) {
	query := `
		SELECT cm.id, cm.task_id, cm.author_id, cm.content, cm.created_at,
		       u.first_name, u.last_name, u.avatar_url
		FROM comments cm
		JOIN users u ON u.id = cm.author_id
		WHERE cm.task_id = $1
		ORDER BY cm.created_at ASC`
	rows, err := db.Pool.Query(ctx, query, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.TaskID, &c.AuthorID, &c.Content, &c.CreatedAt,
			&c.FirstName, &c.LastName, &c.AvatarURL); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (s *TaskService) AddComment(ctx context.Context, taskID, authorID int, content string) (*models.Comment, error) {
	var id int
	err := db.Pool.QueryRow(ctx,
		"INSERT INTO comments (task_id, author_id, content) VALUES ($1, $2, $3) RETURNING id",
		taskID, authorID, content).Scan(&id)
	if err != nil {
		return nil, err
	}

	var c models.Comment
	query := `
		SELECT cm.id, cm.task_id, cm.author_id, cm.content, cm.created_at,
		       u.first_name, u.last_name, u.avatar_url
		FROM comments cm
		JOIN users u ON u.id = cm.author_id
		WHERE cm.id = $1`
	err = db.Pool.QueryRow(ctx, query, id).
		Scan(&c.ID, &c.TaskID, &c.AuthorID, &c.Content, &c.CreatedAt,
			&c.FirstName, &c.LastName, &c.AvatarURL)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
