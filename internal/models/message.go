package models

import "time"

// Message is one persisted chat message in a project room.
type Message struct {
	ID        int       `json:"id"`
	ProjectID int       `json:"project_id"`
	AuthorID  int       `json:"author_id"`
	Content   string    `json:"content"`
	IsPinned  bool      `json:"is_pinned"`
	CreatedAt time.Time `json:"created_at"`

	FirstName string  `json:"first_name,omitempty"`
	LastName  string  `json:"last_name,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

type SendMessageRequest struct {
	Content string `json:"content"`
}
