package repository

import (
	"context"

	"skyhub/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FavoriteRepository manages the user_favorites set.
type FavoriteRepository interface {
	Add(ctx context.Context, userID, droneID uint) error
	Remove(ctx context.Context, userID, droneID uint) error
	ListDrones(ctx context.Context, userID uint) ([]models.Drone, error)
	DeleteByUser(ctx context.Context, userID uint) (int64, error)
}

type favoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

// Add is idempotent: an existing pair is left untouched.
func (r *favoriteRepository) Add(ctx context.Context, userID, droneID uint) error {
	fav := models.Favorite{UserID: userID, DroneID: droneID}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&fav).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Remove deletes the pair; a missing pair is not an error.
func (r *favoriteRepository) Remove(ctx context.Context, userID, droneID uint) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND drone_id = ?", userID, droneID).
		Delete(&models.Favorite{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *favoriteRepository) ListDrones(ctx context.Context, userID uint) ([]models.Drone, error) {
	drones := []models.Drone{}
	if err := readDB(r.db).WithContext(ctx).
		Joins("JOIN user_favorites ON user_favorites.drone_id = drones.id").
		Where("user_favorites.user_id = ?", userID).
		Order("user_favorites.created_at ASC, drones.id ASC").
		Find(&drones).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return drones, nil
}

func (r *favoriteRepository) DeleteByUser(ctx context.Context, userID uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Favorite{})
	if res.Error != nil {
		return 0, models.NewInternalError(res.Error)
	}
	return res.RowsAffected, nil
}
