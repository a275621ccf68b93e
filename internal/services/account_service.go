package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/whatif-labs/milkyway-backend/internal/models"
	"github.com/whatif-labs/milkyway-backend/internal/storage"
	"gorm.io/gorm"
)

type objectStore interface {
	List(ctx context.Context, prefix string) ([]storage.Object, error)
	Remove(ctx context.Context, paths []string) error
}

type identityAdmin interface {
	DeleteUser(ctx context.Context, userID string) error
}

type AccountService struct {
	db    *gorm.DB
	store objectStore
	auth  identityAdmin
}

func NewAccountService(db *gorm.DB, store objectStore, auth identityAdmin) *AccountService {
	return &AccountService{db: db, store: store, auth: auth}
}

// DeleteAccount erases everything belonging to a user. Dependent rows go
// before the profile row to respect foreign keys, and the auth identity
// goes last. Profile image removal is best effort; the steps run without
// a transaction, so a mid-cascade failure leaves earlier deletions in
// place.
func (s *AccountService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	s.deleteProfileImages(ctx, userID)

	id := userID.String()
	if err := s.db.Where("user_id = ?", userID).Delete(&models.Memo{}).Error; err != nil {
		return fmt.Errorf("failed to delete memos: %w", err)
	}
	if err := s.db.Where("user_id = ?", userID).Delete(&models.UserBook{}).Error; err != nil {
		return fmt.Errorf("failed to delete saved books: %w", err)
	}
	if err := s.db.Where("user_id = ?", userID).Delete(&models.Statistic{}).Error; err != nil {
		return fmt.Errorf("failed to delete statistics: %w", err)
	}
	if err := s.db.Where("id = ?", userID).Delete(&models.User{}).Error; err != nil {
		return fmt.Errorf("failed to delete user profile: %w", err)
	}

	if err := s.auth.DeleteUser(ctx, id); err != nil {
		return fmt.Errorf("failed to delete auth identity: %w", err)
	}

	slog.Info("account deleted", "user_id", id)
	return nil
}

func (s *AccountService) deleteProfileImages(ctx context.Context, userID uuid.UUID) {
	prefix := userID.String()
	objects, err := s.store.List(ctx, prefix)
	if err != nil {
		slog.Error("failed to list profile images", "user_id", prefix, "error", err)
		return
	}
	if len(objects) == 0 {
		return
	}

	paths := make([]string, 0, len(objects))
	for _, obj := range objects {
		paths = append(paths, prefix+"/"+obj.Name)
	}
	if err := s.store.Remove(ctx, paths); err != nil {
		slog.Error("failed to remove profile images", "user_id", prefix, "count", len(paths), "error", err)
	}
}
