package repository

import (
	"context"

	"skyhub/internal/models"

	"gorm.io/gorm"
)

// PaymentRepository stores payments against orders.
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id uint) (*models.Payment, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Payment, error)
	UpdateStatus(ctx context.Context, id uint, status models.PaymentStatus) error
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	if payment.Status == "" {
		payment.Status = models.PaymentStatusPending
	}
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *paymentRepository) GetByID(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).First(&payment, id).Error; err != nil {
		return nil, lookupError(err, "Payment", id)
	}
	return &payment, nil
}

func (r *paymentRepository) ListByUser(ctx context.Context, userID uint) ([]models.Payment, error) {
	payments := []models.Payment{}
	if err := readDB(r.db).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&payments).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return payments, nil
}

func (r *paymentRepository) UpdateStatus(ctx context.Context, id uint, status models.PaymentStatus) error {
	res := r.db.WithContext(ctx).Model(&models.Payment{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Payment", id)
	}
	return nil
}
