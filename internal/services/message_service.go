package services

import (
	"context"
	"errors"

	"teamboard-backend/internal/db"
	"teamboard-backend/internal/models"
)

var ErrMessageNotFound = errors.New("message not found")

type MessageService struct{}

func NewMessageService() *MessageService {
	return &MessageService{}
}

const messageColumns = `m.id, m.project_id, m.author_id, m.content, m.is_pinned, m.created_at,
	u.first_name, u.last_name, u.avatar_url`

func scanMessage(row interface{ Scan(...interface{}) error }) (*models.Message, error) {
	var m models.Message
	err := row.Scan(&m.ID, &m.ProjectID, &m.AuthorID, &m.Content, &m.IsPinned, &m.CreatedAt,
		&m.FirstName, &m.LastName, &m.AvatarURL)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *MessageService) ListMessages(ctx context.Context, projectID int) ([]models.Message, error) {
	query := `SELECT ` + messageColumns + `
		FROM messages m
		JOIN users u ON u.id = m.author_id
		WHERE m.project_id = $1
		ORDER BY m.created_at ASC`
	rows, err := db.Pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *m)
	}
	return messages, rows.Err()
}

// SaveMessage persists a chat message and returns it hydrated with author
// info, ready for the fan-out push and the HTTP response.
func (s *MessageService) SaveMessage(ctx context.Context, projectID, authorID int, content string) (*models.Message, error) {
	var id int
	err := db.Pool.QueryRow(ctx,
		"INSERT INTO messages (project_id, author_id, content) VALUES ($1, $2, $3) RETURNING id",
		projectID, authorID, content).Scan(&id)
	if err != nil {
		return nil, err
	}
	return s.GetMessageByID(ctx, id)
}

func (s *MessageService) GetMessageByID(ctx context.Context, id int) (*models.Message, error) {
	query := `SELECT ` + messageColumns + `
		FROM messages m
		JOIN users u ON u.id = m.author_id
		WHERE m.id = $1`
	m, err := scanMessage(db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, ErrMessageNotFound
	}
	return m, nil
}

func (s *MessageService) SetPinned(ctx context.Context, id int, pinned bool) (*models.Message, error) {
	tag, err := db.Pool.Exec(ctx, "UPDATE messages SET is_pinned = $1 WHERE id = $2", pinned, id)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrMessageNotFound
	}
	return s.GetMessageByID(ctx, id)
}

func (s *MessageService) ListPinnedMessages(ctx context.Context, projectID int) ([]models.Message, error) {
	query := `SELECT ` + messageColumns + `
		FROM messages m
		JOIN users u ON u.id = m.author_id
		WHERE m.project_id = $1 AND m.is_pinned = TRUE
		ORDER BY m.created_at DESC`
	rows, err := db.Pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *m)
	}
	return messages, rows.Err()
}
