package repository

import (
	"context"

	"skyhub/internal/models"

	"gorm.io/gorm"
)

// MessageRepository stores direct messages.
type MessageRepository interface {
	Create(ctx context.Context, msg *models.Message) error
	History(ctx context.Context, userA, userB uint) ([]models.Message, error)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, msg *models.Message) error {
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// History returns the messages exchanged between the two users in either
// direction, oldest first.
func (r *messageRepository) History(ctx context.Context, userA, userB uint) ([]models.Message, error) {
	msgs := []models.Message{}
	if err := readDB(r.db).WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userA, userB, userB, userA).
		Order(`"timestamp" ASC, id ASC`).
		Find(&msgs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return msgs, nil
}
