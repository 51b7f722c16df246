package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"skyhub/internal/middleware"
	"skyhub/internal/models"
	"skyhub/internal/notifications"
	"skyhub/internal/observability"
	"skyhub/internal/repository"
)

const maxMessageLength = 5000

// EventPublisher pushes realtime events to a user's notification channel.
type EventPublisher interface {
	PublishEvent(ctx context.Context, userID uint, eventType string, payload any) error
}

type MessageService struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	publisher   EventPublisher
	now         func() time.Time
}

type SendMessageInput struct {
	SenderID   uint
	ReceiverID uint
	Content    string
}

func NewMessageService(messageRepo repository.MessageRepository, userRepo repository.UserRepository, publisher EventPublisher) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		publisher:   publisher,
		now:         time.Now,
	}
}

func (s *MessageService) Send(ctx context.Context, in SendMessageInput) (msg *models.Message, err error) {
	ctx, span := observability.StartSpan(ctx, "messages", "send")
	defer func() { span.End(err) }()

	if err := requireCaller(in.SenderID); err != nil {
		return nil, err
	}
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("content is required")
	}
	if utf8.RuneCountInString(content) > maxMessageLength {
		return nil, models.NewValidationError("content too long (max 5000 characters)")
	}
	if in.ReceiverID == 0 {
		return nil, models.NewValidationError("receiver_id is required")
	}
	if _, err := s.userRepo.GetByID(ctx, in.ReceiverID); err != nil {
		return nil, err
	}

	msg = &models.Message{
		SenderID:   in.SenderID,
		ReceiverID: in.ReceiverID,
		Content:    content,
		Timestamp:  s.now().UTC(),
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, err
	}
	observability.MessagesSentTotal.Inc()

	if s.publisher != nil {
		if pubErr := s.publisher.PublishEvent(ctx, msg.ReceiverID, notifications.EventMessageCreated, msg); pubErr != nil {
			middleware.Logger.WarnContext(ctx, "message notification failed",
				"message_id", msg.ID, "receiver_id", msg.ReceiverID, "error", pubErr)
		}
	}
	return msg, nil
}

// History returns the conversation between the caller and contactID in both
// directions, oldest first.
func (s *MessageService) History(ctx context.Context, callerID, contactID uint) ([]models.Message, error) {
	if err := requireCaller(callerID); err != nil {
		return nil, err
	}
	if contactID == 0 {
		return nil, models.NewValidationError("Invalid contact ID")
	}
	return s.messageRepo.History(ctx, callerID, contactID)
}
