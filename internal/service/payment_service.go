package service

import (
	"context"
	"strings"

	"skyhub/internal/models"
	"skyhub/internal/repository"
)

type PaymentService struct {
	paymentRepo repository.PaymentRepository
	orderRepo   repository.OrderRepository
}

type CreatePaymentInput struct {
	UserID  uint
	OrderID uint
	Amount  float64
}

type UpdatePaymentStatusInput struct {
	CallerID  uint
	PaymentID uint
	Status    string
}

func NewPaymentService(paymentRepo repository.PaymentRepository, orderRepo repository.OrderRepository) *PaymentService {
	return &PaymentService{paymentRepo: paymentRepo, orderRepo: orderRepo}
}

func (s *PaymentService) Create(ctx context.Context, in CreatePaymentInput) (*models.Payment, error) {
	if err := requireCaller(in.UserID); err != nil {
		return nil, err
	}
	if in.Amount <= 0 {
		return nil, models.NewValidationError("amount must be greater than 0")
	}
	order, err := s.orderRepo.GetByID(ctx, in.OrderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != in.UserID {
		return nil, models.NewForbiddenError("Only the buyer can pay for this order")
	}

	payment := &models.Payment{
		OrderID: in.OrderID,
		UserID:  in.UserID,
		Amount:  in.Amount,
		Status:  models.PaymentStatusPending,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *PaymentService) ListForPayer(ctx context.Context, userID uint) ([]models.Payment, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}
	return s.paymentRepo.ListByUser(ctx, userID)
}

func (s *PaymentService) UpdateStatus(ctx context.Context, in UpdatePaymentStatusInput) (*models.Payment, error) {
	if err := requireCaller(in.CallerID); err != nil {
		return nil, err
	}
	status := models.PaymentStatus(strings.ToLower(strings.TrimSpace(in.Status)))
	if !status.Valid() {
		return nil, models.NewValidationError("status must be pending, completed or failed")
	}
	payment, err := s.paymentRepo.GetByID(ctx, in.PaymentID)
	if err != nil {
		return nil, err
	}
	if payment.UserID != in.CallerID {
		return nil, models.NewForbiddenError("Only the payer can update this payment")
	}
	if err := s.paymentRepo.UpdateStatus(ctx, payment.ID, status); err != nil {
		return nil, err
	}
	payment.Status = status
	return payment, nil
}
