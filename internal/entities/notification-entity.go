package entities

import "time"

type Notification struct {
	ID        uint64            `json:"id" db:"id"`
	UserID    uint64            `json:"user_id" db:"user_id"`
	Title     string            `json:"title" db:"title"`
	Message   string            `json:"message" db:"message"`
	Type      string            `json:"type" db:"type"`
	Metadata  map[string]string `json:"metadata" db:"metadata"`
	IsRead    bool              `json:"is_read" db:"is_read"`
	CreatedAt time.Time         `json:"created_at" db:"created_at"`
}
