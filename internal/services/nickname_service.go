package services

import (
	"errors"
	"fmt"

	"github.com/whatif-labs/milkyway-backend/internal/models"
	"gorm.io/gorm"
)

type NicknameService struct {
	db *gorm.DB
}

func NewNicknameService(db *gorm.DB) *NicknameService {
	return &NicknameService{db: db}
}

// CheckAvailability reports whether a nickname can be taken. A nickname
// already owned by the requesting user counts as available so that saving
// an unchanged profile does not fail.
func (s *NicknameService) CheckAvailability(nickname, userID string) (bool, error) {
	var user models.User
	err := s.db.Select("id", "nickname").Where("nickname = ?", nickname).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("nickname lookup failed: %w", err)
	}

	if userID != "" && user.ID.String() == userID {
		return true, nil
	}
	return false, nil
}
