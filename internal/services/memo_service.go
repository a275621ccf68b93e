package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/whatif-labs/milkyway-backend/internal/models"
	"gorm.io/gorm"
)

var ErrMemoNotFound = errors.New("memo not found")

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 50
)

type MemoService struct {
	db *gorm.DB
}

func NewMemoService(db *gorm.DB) *MemoService {
	return &MemoService{db: db}
}

// GetByID returns a memo joined with its book and author. Visibility is
// not checked; the caller is assumed to be authorized for the detail view.
func (s *MemoService) GetByID(id uuid.UUID) (*models.Memo, error) {
	var memo models.Memo
	err := s.db.Preload("Book").Preload("User").First(&memo, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMemoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("memo lookup failed: %w", err)
	}
	return &memo, nil
}

// ListPublic returns one page of a book's public memos, newest first.
// The exact total is computed only when includeCount is set and the
// request is for the first page; off the first page, hasMore degrades to
// the "page was full" approximation and total stays 0.
func (s *MemoService) ListPublic(bookID uuid.UUID, limit, offset int, includeCount bool) ([]models.Memo, int64, bool, error) {
	var total int64
	counted := includeCount && offset == 0
	if counted {
		err := s.db.Model(&models.Memo{}).
			Where("book_id = ? AND visibility = ?", bookID, models.VisibilityPublic).
			Count(&total).Error
		if err != nil {
			return nil, 0, false, fmt.Errorf("memo count failed: %w", err)
		}
	}

	memos := make([]models.Memo, 0, limit)
	err := s.db.Preload("Book").Preload("User").
		Where("book_id = ? AND visibility = ?", bookID, models.VisibilityPublic).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&memos).Error
	if err != nil {
		return nil, 0, false, fmt.Errorf("memo listing failed: %w", err)
	}

	var hasMore bool
	if counted {
		hasMore = int64(offset+limit) < total
	} else {
		hasMore = len(memos) == limit
	}
	return memos, total, hasMore, nil
}

// NormalizePage clamps client-supplied pagination parameters.
func NormalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
