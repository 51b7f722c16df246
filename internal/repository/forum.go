package repository

import (
	"context"

	"skyhub/internal/models"

	"gorm.io/gorm"
)

// ForumRepository stores forum entries.
type ForumRepository interface {
	Create(ctx context.Context, entry *models.ForumEntry) error
	GetByID(ctx context.Context, id uint) (*models.ForumEntry, error)
	List(ctx context.Context, limit, offset int) ([]models.ForumEntry, error)
	Update(ctx context.Context, entry *models.ForumEntry) error
	Delete(ctx context.Context, id uint) error
}

type forumRepository struct {
	db *gorm.DB
}

func NewForumRepository(db *gorm.DB) ForumRepository {
	return &forumRepository{db: db}
}

func (r *forumRepository) Create(ctx context.Context, entry *models.ForumEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *forumRepository) GetByID(ctx context.Context, id uint) (*models.ForumEntry, error) {
	var entry models.ForumEntry
	if err := readDB(r.db).WithContext(ctx).First(&entry, id).Error; err != nil {
		return nil, lookupError(err, "Forum entry", id)
	}
	return &entry, nil
}

func (r *forumRepository) List(ctx context.Context, limit, offset int) ([]models.ForumEntry, error) {
	limit, offset = pageBounds(limit, offset)
	entries := []models.ForumEntry{}
	if err := readDB(r.db).WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&entries).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return entries, nil
}

func (r *forumRepository) Update(ctx context.Context, entry *models.ForumEntry) error {
	if err := r.db.WithContext(ctx).Save(entry).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Delete removes the entry and the reactions left on it.
func (r *forumRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.PostReaction{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.ForumEntry{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return lookupError(err, "Forum entry", id)
	}
	return nil
}
