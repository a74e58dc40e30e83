package services

import (
	"context"
	"errors"

	"teamboard-backend/internal/db"
	"teamboard-backend/internal/models"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrMemberNotFound  = errors.New("user not found with this email")
)

type ProjectService struct{}

func NewProjectService() *ProjectService {
	return &ProjectService{}
}

// ListProjects returns every project the user belongs to, with kanban
// progress aggregates for the dashboard cards.
func (s *ProjectService) ListProjects(ctx context.Context, userID int) ([]models.Project, error) {
	query := `
		SELECT p.id, p.name, p.description, p.color, p.status, p.owner_id, p.due_date, p.created_at,
		       (SELECT COUNT(*) FROM project_members pm2 WHERE pm2.project_id = p.id) AS member_count,
		       (SELECT COUNT(*) FROM tasks t WHERE t.project_id = p.id) AS task_count,
		       (SELECT COUNT(*) FROM tasks t WHERE t.project_id = p.id AND t.status = 'done') AS completed_tasks
		FROM projects p
		JOIN project_members pm ON pm.project_id = p.id
		WHERE pm.user_id = $1
		ORDER BY p.created_at DESC`
	rows, err := db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Color, &p.Status, &p.OwnerID,
			&p.DueDate, &p.CreatedAt, &p.MemberCount, &p.TaskCount, &p.CompletedTasks); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *ProjectService) CreateProject(ctx context.Context, ownerID int, req models.CreateProjectRequest) (*models.Project, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var p models.Project
	query := `INSERT INTO projects (name, description, color, owner_id, due_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, description, color, status, owner_id, due_date, created_at`
	err = tx.QueryRow(ctx, query, req.Name, req.Description, req.Color, ownerID, req.DueDate).
		Scan(&p.ID, &p.Name, &p.Description, &p.Color, &p.Status, &p.OwnerID, &p.DueDate, &p.CreatedAt)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, "INSERT INTO project_members (project_id, user_id, role) VALUES ($1, $2, 'owner')", p.ID, ownerID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProjectService) GetProject(ctx context.Context, id int) (*models.Project, error) {
	var p models.Project
	query := `SELECT id, name, description, color, status, owner_id, due_date, created_at
		FROM projects WHERE id = $1`
	err := db.Pool.QueryRow(ctx, query, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.Color, &p.Status, &p.OwnerID, &p.DueDate, &p.CreatedAt)
	if err != nil {
		return nil, ErrProjectNotFound
	}
	return &p, nil
}

func (s *ProjectService) UpdateProject(ctx context.Context, id int, req models.UpdateProjectRequest) (*models.Project, error) {
	query := `UPDATE projects SET name = $1, description = $2, color = $3, status = $4, due_date = $5 WHERE id = $6`
	tag, err := db.Pool.Exec(ctx, query, req.Name, req.Description, req.Color, req.Status, req.DueDate, id)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrProjectNotFound
	}
	return s.GetProject(ctx, id)
}

func (s *ProjectService) DeleteProject(ctx context.Context, id int) error {
	tag, err := db.Pool.Exec(ctx, "DELETE FROM projects WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProjectNotFound
	}
	return nil
}

func (s *ProjectService) ListMembers(ctx context.Context, projectID int) ([]models.ProjectMember, error) {
	query := `
		SELECT u.id, u.email, u.first_name, u.last_name, u.avatar_url, pm.role
		FROM project_members pm
		JOIN users u ON u.id = pm.user_id
		WHERE pm.project_id = $1
		ORDER BY pm.role, u.first_name`
	rows, err := db.Pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []models.ProjectMember
	for rows.Next() {
		var m models.ProjectMember
		if err := rows.Scan(&m.ID, &m.Email, &m.FirstName, &m.LastName, &m.AvatarURL, &m.Role); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// AddMember invites a user by email. Re-inviting an existing member just
// updates the role.
func (s *ProjectService) AddMember(ctx context.Context, projectID int, email, role string) (*models.ProjectMember, error) {
	var userID int
	if err := db.Pool.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&userID); err != nil {
		return nil, ErrMemberNotFound
	}

	if role == "" {
		role = "member"
	}
	query := `INSERT INTO project_members (project_id, user_id, role) VALUES ($1, $2, $3)
		ON CONFLICT (project_id, user_id) DO UPDATE SET role = EXCLUDED.role`
	if _, err := db.Pool.Exec(ctx, query, projectID, userID, role); err != nil {
		return nil, err
	}

	var m models.ProjectMember
	err := db.Pool.QueryRow(ctx,
		"SELECT id, email, first_name, last_name, avatar_url FROM users WHERE id = $1", userID).
		Scan(&m.ID, &m.Email, &m.FirstName, &m.LastName, &m.AvatarURL)
	if err != nil {
		return nil, err
	}
	m.Role = role
	return &m, nil
}

func (s *ProjectService) RemoveMember(ctx context.Context, projectID, userID int) error {
	_, err := db.Pool.Exec(ctx,
		"DELETE FROM project_members WHERE project_id = $1 AND user_id = $2", projectID, userID)
	return err
}
