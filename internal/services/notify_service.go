package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/whatif-labs/milkyway-backend/internal/models"
	"github.com/whatif-labs/milkyway-backend/internal/push"
	"gorm.io/gorm"
)

// User-visible strings stay in Korean to match the mobile app.
const (
	fallbackBookTitle   = "알 수 없는 책"
	fallbackAuthorName  = "사용자"
	fallbackPreview     = "새로운 메모"
	noRecipientsMessage = "알림을 받을 사용자가 없습니다."

	previewLimit = 50
)

type pushSender interface {
	AccessToken(ctx context.Context) (string, error)
	Send(ctx context.Context, accessToken string, msg *push.Message) error
}

// NotifyInput carries the identifiers of a freshly published public memo.
// Content, nickname and author id are optional, the author id has a
// database fallback.
type NotifyInput struct {
	BookID         uuid.UUID
	MemoID         uuid.UUID
	Content        string
	AuthorNickname string
	AuthorID       string
}

// NotifyResult is the terminal response of a fan-out run. The optional
// fields are omitted on the "no recipients" early exit.
type NotifyResult struct {
	Success      *bool  `json:"success,omitempty"`
	TokensCount  *int   `json:"tokens_count,omitempty"`
	SuccessCount *int   `json:"success_count,omitempty"`
	FailureCount *int   `json:"failure_count,omitempty"`
	Message      string `json:"message"`
}

type NotifyService struct {
	db             *gorm.DB
	credentialJSON string
	newSender      func(sa *push.ServiceAccount) pushSender
}

func NewNotifyService(db *gorm.DB, credentialJSON string, timeout time.Duration) *NotifyService {
	return &NotifyService{
		db:             db,
		credentialJSON: credentialJSON,
		newSender: func(sa *push.ServiceAccount) pushSender {
			return push.NewClient(sa, timeout)
		},
	}
}

type recipient struct {
	UserID              uuid.UUID `gorm:"column:user_id"`
	FCMToken            string    `gorm:"column:fcm_token"`
	NotificationEnabled *bool     `gorm:"column:notification_enabled"`
}

// Notify sends one push message to every user who saved the memo's book,
// excluding the author and anyone without a token or with notifications
// turned off. Missing or unparsable push credentials are reported, not
// errors; a failed token exchange is. Per-token send failures are counted
// and never abort the loop.
func (s *NotifyService) Notify(ctx context.Context, input NotifyInput) (*NotifyResult, error) {
	var recipients []recipient
	err := s.db.Table("user_books").
		Select("users.id AS user_id, users.fcm_token, users.notification_enabled").
		Joins("JOIN users ON users.id = user_books.user_id").
		Where("user_books.book_id = ?", input.BookID).
		Scan(&recipients).Error
	if err != nil {
		return nil, fmt.Errorf("saver lookup failed: %w", err)
	}
	if len(recipients) == 0 {
		return &NotifyResult{Message: noRecipientsMessage}, nil
	}

	authorID := input.AuthorID
	if authorID == "" {
		// Best effort; an unresolved author simply isn't excluded.
		var memo models.Memo
		if err := s.db.Select("user_id").First(&memo, "id = ?", input.MemoID).Error; err == nil {
			authorID = memo.UserID.String()
		}
	}

	tokens := recipientTokens(recipients, authorID)
	if len(tokens) == 0 {
		return &NotifyResult{Message: noRecipientsMessage}, nil
	}

	var book models.Book
	if err := s.db.Select("title", "cover_url").First(&book, "id = ?", input.BookID).Error; err != nil {
		return nil, fmt.Errorf("book lookup failed: %w", err)
	}

	title, body := buildNotification(book.Title, input.AuthorNickname, input.Content)

	if s.credentialJSON == "" {
		slog.Warn("FCM service account not configured, skipping notification send",
			"memo_id", input.MemoID, "tokens", len(tokens))
		return &NotifyResult{
			Success:     boolPtr(false),
			TokensCount: intPtr(len(tokens)),
			Message:     "FCM 서비스 계정이 설정되지 않았습니다.",
		}, nil
	}

	sa, err := push.ParseServiceAccount(s.credentialJSON)
	if err != nil {
		slog.Error("invalid FCM service account JSON", "error", err)
		return &NotifyResult{
			Success:     boolPtr(false),
			TokensCount: intPtr(len(tokens)),
			Message:     "서비스 계정 JSON 파싱 실패",
		}, nil
	}

	sender := s.newSender(sa)
	accessToken, err := sender.AccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("OAuth2 token exchange failed: %w", err)
	}

	msg := push.Message{
		Title:    title,
		Body:     body,
		ImageURL: book.CoverURL,
		Data: map[string]string{
			"type":    "new_public_memo",
			"memo_id": input.MemoID.String(),
			"book_id": input.BookID.String(),
		},
	}

	successCount, failureCount := 0, 0
	for _, token := range tokens {
		perToken := msg
		perToken.Token = token
		if err := sender.Send(ctx, accessToken, &perToken); err != nil {
			failureCount++
			slog.Error("fcm send failed", "memo_id", input.MemoID, "error", err)
			continue
		}
		successCount++
	}

	slog.Info("notification fan-out finished",
		"memo_id", input.MemoID, "tokens", len(tokens),
		"sent", successCount, "failed", failureCount)

	return &NotifyResult{
		Success:      boolPtr(true),
		TokensCount:  intPtr(len(tokens)),
		SuccessCount: intPtr(successCount),
		FailureCount: intPtr(failureCount),
		Message:      fmt.Sprintf("알림 전송 완료: %d개 성공, %d개 실패", successCount, failureCount),
	}, nil
}

// recipientTokens filters savers down to deliverable device tokens.
func recipientTokens(recipients []recipient, authorID string) []string {
	tokens := make([]string, 0, len(recipients))
	for _, r := range recipients {
		if authorID != "" && r.UserID.String() == authorID {
			continue
		}
		if r.FCMToken == "" {
			continue
		}
		if r.NotificationEnabled != nil && !*r.NotificationEnabled {
			continue
		}
		tokens = append(tokens, r.FCMToken)
	}
	return tokens
}

func buildNotification(bookTitle, authorNickname, content string) (string, string) {
	if bookTitle == "" {
		bookTitle = fallbackBookTitle
	}
	if authorNickname == "" {
		authorNickname = fallbackAuthorName
	}
	title := fmt.Sprintf("[%s] 새 공개 메모", bookTitle)
	body := fmt.Sprintf(`%s님이 새로운 메모를 남겼습니다: "%s"`, authorNickname, contentPreview(content))
	return title, body
}

// contentPreview truncates on runes, not bytes, so multi-byte Hangul is
// never split mid-character.
func contentPreview(content string) string {
	if content == "" {
		return fallbackPreview
	}
	runes := []rune(content)
	if len(runes) > previewLimit {
		return string(runes[:previewLimit]) + "..."
	}
	return content
}

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int    { return &i }
