package models

import (
	"time"

	"github.com/google/uuid"
)

// Book is immutable from this service's perspective; rows are created by
// the client when a user saves a search result.
type Book struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Author    string    `gorm:"size:255" json:"author"`
	CoverURL  string    `gorm:"size:500" json:"cover_url"`
	ISBN      string    `gorm:"size:20;index" json:"isbn"`
	CreatedAt time.Time `json:"created_at"`
}
