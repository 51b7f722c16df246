package repository

import (
	"context"

	"skyhub/internal/cache"
	"skyhub/internal/models"

	"gorm.io/gorm"
)

// ReviewRepository appends and lists drone reviews.
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	ListByDrone(ctx context.Context, droneID uint) ([]models.Review, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateDrone(ctx, review.DroneID)
	return nil
}

func (r *reviewRepository) ListByDrone(ctx context.Context, droneID uint) ([]models.Review, error) {
	reviews := []models.Review{}
	if err := readDB(r.db).WithContext(ctx).
		Where("drone_id = ?", droneID).
		Order("created_at ASC, id ASC").
		Find(&reviews).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return reviews, nil
}
