package models

import (
	"time"

	"github.com/google/uuid"
)

// Memo visibility values. Only "public" memos appear in book listings;
// direct fetch by id ignores visibility.
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

type Memo struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	BookID     uuid.UUID `gorm:"type:uuid;not null;index" json:"book_id"`
	Content    string    `gorm:"type:text" json:"content"`
	Visibility string    `gorm:"size:20;not null;default:'private';index" json:"visibility"`
	Page       *int      `json:"page,omitempty"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// JSON keys match the table names the mobile client already consumes.
	Book *Book `gorm:"foreignKey:BookID" json:"books,omitempty"`
	User *User `gorm:"foreignKey:UserID" json:"users,omitempty"`
}
