package repository

import (
	"context"

	"skyhub/internal/cache"
	"skyhub/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DroneRepository defines persistence operations for drone listings.
type DroneRepository interface {
	Create(ctx context.Context, drone *models.Drone) error
	GetByID(ctx context.Context, id uint) (*models.Drone, error)
	GetByLegacyID(ctx context.Context, legacyID uint) (*models.Drone, error)
	List(ctx context.Context, limit, offset int) ([]models.Drone, error)
	ListByCategory(ctx context.Context, category string) ([]models.Drone, error)
	ListByPriceRange(ctx context.Context, minPrice, maxPrice float64) ([]models.Drone, error)
	ListBySeller(ctx context.Context, sellerID uint) ([]models.Drone, error)
	Update(ctx context.Context, drone *models.Drone) error
	Delete(ctx context.Context, id uint) error
}

type droneRepository struct {
	db *gorm.DB
}

// NewDroneRepository returns a new DroneRepository implementation.
func NewDroneRepository(db *gorm.DB) DroneRepository {
	return &droneRepository{db: db}
}

func withReviews(db *gorm.DB) *gorm.DB {
	return db.Preload("Reviews", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("created_at ASC, id ASC")
	})
}

func (r *droneRepository) Create(ctx context.Context, drone *models.Drone) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(drone).Error; err != nil {
		return writeError(err)
	}
	return nil
}

func (r *droneRepository) GetByID(ctx context.Context, id uint) (*models.Drone, error) {
	var drone models.Drone
	err := cache.Aside(ctx, cache.DroneKey(id), &drone, cache.DroneTTL, func() error {
		if err := withReviews(readDB(r.db).WithContext(ctx)).First(&drone, id).Error; err != nil {
			return lookupError(err, "Drone", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if drone.Reviews == nil {
		drone.Reviews = []models.Review{}
	}
	return &drone, nil
}

func (r *droneRepository) GetByLegacyID(ctx context.Context, legacyID uint) (*models.Drone, error) {
	var drone models.Drone
	if err := withReviews(readDB(r.db).WithContext(ctx)).Where("legacy_id = ?", legacyID).First(&drone).Error; err != nil {
		return nil, lookupError(err, "Drone with legacy ID", legacyID)
	}
	return &drone, nil
}

func (r *droneRepository) List(ctx context.Context, limit, offset int) ([]models.Drone, error) {
	limit, offset = pageBounds(limit, offset)
	drones := []models.Drone{}
	if err := readDB(r.db).WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&drones).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return drones, nil
}

func (r *droneRepository) ListByCategory(ctx context.Context, category string) ([]models.Drone, error) {
	drones := []models.Drone{}
	if err := readDB(r.db).WithContext(ctx).
		Where("category = ?", category).
		Order("id ASC").
		Find(&drones).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return drones, nil
}

// ListByPriceRange is inclusive on both bounds.
func (r *droneRepository) ListByPriceRange(ctx context.Context, minPrice, maxPrice float64) ([]models.Drone, error) {
	drones := []models.Drone{}
	if err := readDB(r.db).WithContext(ctx).
		Where("price >= ? AND price <= ?", minPrice, maxPrice).
		Order("price ASC, id ASC").
		Find(&drones).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return drones, nil
}

func (r *droneRepository) ListBySeller(ctx context.Context, sellerID uint) ([]models.Drone, error) {
	drones := []models.Drone{}
	if err := readDB(r.db).WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("id ASC").
		Find(&drones).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return drones, nil
}

func (r *droneRepository) Update(ctx context.Context, drone *models.Drone) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(drone).Error; err != nil {
		return writeError(err)
	}
	cache.InvalidateDrone(ctx, drone.ID)
	return nil
}

// Delete removes the drone together with its reviews and favorites rows.
func (r *droneRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("drone_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("drone_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Drone{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return lookupError(err, "Drone", id)
	}
	cache.InvalidateDrone(ctx, id)
	return nil
}
