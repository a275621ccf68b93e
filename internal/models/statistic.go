package models

import (
	"time"

	"github.com/google/uuid"
)

// Statistic holds per-user reading counters maintained by the client.
// This service only touches it during account deletion.
type Statistic struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	MemoCount       int       `gorm:"default:0" json:"memo_count"`
	PublicMemoCount int       `gorm:"default:0" json:"public_memo_count"`
	BookCount       int       `gorm:"default:0" json:"book_count"`
	UpdatedAt       time.Time `json:"updated_at"`
}
