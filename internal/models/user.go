package models

import (
	"time"

	"github.com/google/uuid"
)

// User mirrors the app profile row. The ID is the Supabase auth user id,
// so deleting the auth identity and this row must use the same value.
type User struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Nickname            string    `gorm:"size:50;not null;uniqueIndex" json:"nickname"`
	PictureURL          string    `gorm:"size:500" json:"picture_url"`
	FCMToken            string    `gorm:"size:500" json:"-"`
	NotificationEnabled *bool     `gorm:"default:true" json:"-"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}
