package repository

import (
	"context"

	"skyhub/internal/models"

	"gorm.io/gorm"
)

// ReactionRepository stores likes and dislikes on forum entries.
type ReactionRepository interface {
	Create(ctx context.Context, reaction *models.PostReaction) error
	ListByPost(ctx context.Context, postID uint, limit, offset int) ([]models.PostReaction, error)
	CountByType(ctx context.Context, postID uint, reactionType models.ReactionType) (int64, error)
}

type reactionRepository struct {
	db *gorm.DB
}

func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

func (r *reactionRepository) Create(ctx context.Context, reaction *models.PostReaction) error {
	if err := r.db.WithContext(ctx).Create(reaction).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *reactionRepository) ListByPost(ctx context.Context, postID uint, limit, offset int) ([]models.PostReaction, error) {
	limit, offset = pageBounds(limit, offset)
	reactions := []models.PostReaction{}
	if err := readDB(r.db).WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Limit(limit).Offset(offset).
		Find(&reactions).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return reactions, nil
}

func (r *reactionRepository) CountByType(ctx context.Context, postID uint, reactionType models.ReactionType) (int64, error) {
	var n int64
	if err := readDB(r.db).WithContext(ctx).Model(&models.PostReaction{}).
		Where("post_id = ? AND reaction_type = ?", postID, reactionType).
		Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}
