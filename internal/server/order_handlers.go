package server

import (
	"skyhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createOrderRequest struct {
	DroneID  uint `json:"drone_id"`
	SellerID uint `json:"seller_id"`
}

type statusRequest struct {
	Status string `json:"status"`
}

// CreateOrder handles POST /api/orders
// @Summary Place an order
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body createOrderRequest true "Order"
// @Success 201 {object} models.Order
// @Router /orders [post]
func (s *Server) CreateOrder(c *fiber.Ctx) error {
	var req createOrderRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	order, err := s.orderService.Create(c.UserContext(), service.CreateOrderInput{
		BuyerID:  callerID(c),
		DroneID:  req.DroneID,
		SellerID: req.SellerID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// ListOrders handles GET /api/orders
// @Summary Caller's orders with drone and seller
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Order
// @Router /orders [get]
func (s *Server) ListOrders(c *fiber.Ctx) error {
	orders, err := s.orderService.ListForBuyer(c.UserContext(), callerID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(orders)
}

// UpdateOrderStatus handles PATCH /api/orders/:id/status
// @Summary Update order status (buyer or seller)
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Param request body statusRequest true "New status"
// @Success 200 {object} models.Order
// @Router /orders/{id}/status [patch]
func (s *Server) UpdateOrderStatus(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req statusRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	order, err := s.orderService.UpdateStatus(c.UserContext(), service.UpdateOrderStatusInput{
		CallerID: callerID(c),
		OrderID:  id,
		Status:   req.Status,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(order)
}
