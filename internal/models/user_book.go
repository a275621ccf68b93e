package models

import (
	"time"

	"github.com/google/uuid"
)

// UserBook links a user to a book in their personal library. Notification
// fan-out targets are computed from these rows.
type UserBook struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_books_user_book" json:"user_id"`
	BookID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_books_user_book;index" json:"book_id"`
	Status    string    `gorm:"size:20;default:'reading'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
