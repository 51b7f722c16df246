package repository

import (
	"context"

	"skyhub/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderRepository stores drone orders.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	ListByBuyer(ctx context.Context, buyerID uint) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uint, status models.OrderStatus) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(order).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Preload("Drone").Preload("Seller").First(&order, id).Error; err != nil {
		return nil, lookupError(err, "Order", id)
	}
	return &order, nil
}

// ListByBuyer returns the buyer's orders with drone and seller preloaded.
// A seller that has since been soft-deleted is left nil.
func (r *orderRepository) ListByBuyer(ctx context.Context, buyerID uint) ([]models.Order, error) {
	orders := []models.Order{}
	if err := readDB(r.db).WithContext(ctx).
		Preload("Drone").
		Preload("Seller").
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return orders, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uint, status models.OrderStatus) error {
	res := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Order", id)
	}
	return nil
}
