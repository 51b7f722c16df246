package service

import (
	"context"
	"strings"

	"skyhub/internal/featureflags"
	"skyhub/internal/models"
	"skyhub/internal/observability"
	"skyhub/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

type OrderService struct {
	orderRepo repository.OrderRepository
	droneRepo repository.DroneRepository
	flags     Flags
}

type CreateOrderInput struct {
	BuyerID  uint
	DroneID  uint
	SellerID uint // optional; must match the drone's seller when set
}

type UpdateOrderStatusInput struct {
	CallerID uint
	OrderID  uint
	Status   string
}

func NewOrderService(orderRepo repository.OrderRepository, droneRepo repository.DroneRepository, flags Flags) *OrderService {
	if flags == nil {
		flags = noFlags{}
	}
	return &OrderService{orderRepo: orderRepo, droneRepo: droneRepo, flags: flags}
}

func (s *OrderService) Create(ctx context.Context, in CreateOrderInput) (order *models.Order, err error) {
	ctx, span := observability.StartSpan(ctx, "orders", "create", attribute.Int("drone.id", int(in.DroneID)))
	defer func() { span.End(err) }()

	if err := requireCaller(in.BuyerID); err != nil {
		return nil, err
	}
	if in.DroneID == 0 {
		return nil, models.NewValidationError("drone_id is required")
	}
	drone, err := s.droneRepo.GetByID(ctx, in.DroneID)
	if err != nil {
		return nil, err
	}
	if in.SellerID != 0 && in.SellerID != drone.SellerID {
		return nil, models.NewValidationError("seller_id does not match the drone's seller")
	}

	order = &models.Order{
		DroneID:  drone.ID,
		BuyerID:  in.BuyerID,
		SellerID: drone.SellerID,
		Status:   models.OrderStatusPending,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}
	observability.OrdersCreatedTotal.Inc()
	return order, nil
}

func (s *OrderService) ListForBuyer(ctx context.Context, buyerID uint) ([]models.Order, error) {
	if err := requireCaller(buyerID); err != nil {
		return nil, err
	}
	return s.orderRepo.ListByBuyer(ctx, buyerID)
}

// UpdateStatus writes any known status. With strict_order_status on, only
// forward (or same-status) transitions are accepted.
func (s *OrderService) UpdateStatus(ctx context.Context, in UpdateOrderStatusInput) (order *models.Order, err error) {
	ctx, span := observability.StartSpan(ctx, "orders", "update_status", attribute.Int("order.id", int(in.OrderID)))
	defer func() { span.End(err) }()

	if err := requireCaller(in.CallerID); err != nil {
		return nil, err
	}
	status := models.OrderStatus(strings.ToLower(strings.TrimSpace(in.Status)))
	if !status.Valid() {
		return nil, models.NewValidationError("status must be pending, shipped or delivered")
	}

	order, err = s.orderRepo.GetByID(ctx, in.OrderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != in.CallerID && order.SellerID != in.CallerID {
		return nil, models.NewForbiddenError("Only the buyer or seller can update this order")
	}
	if s.flags.Enabled(featureflags.StrictOrderStatus, in.CallerID) && !order.Status.CanAdvanceTo(status) {
		return nil, models.NewValidationError("cannot move order from " + string(order.Status) + " to " + string(status))
	}

	if err := s.orderRepo.UpdateStatus(ctx, order.ID, status); err != nil {
		return nil, err
	}
	observability.OrderStatusChanges.WithLabelValues(string(status)).Inc()
	order.Status = status
	return order, nil
}
