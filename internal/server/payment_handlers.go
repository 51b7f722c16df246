package server

import (
	"skyhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createPaymentRequest struct {
	OrderID uint    `json:"order_id"`
	Amount  float64 `json:"amount"`
}

// CreatePayment handles POST /api/payments
// @Summary Pay for an order
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body createPaymentRequest true "Payment"
// @Success 201 {object} models.Payment
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /payments [post]
func (s *Server) CreatePayment(c *fiber.Ctx) error {
	var req createPaymentRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	payment, err := s.paymentService.Create(c.UserContext(), service.CreatePaymentInput{
		UserID:  callerID(c),
		OrderID: req.OrderID,
		Amount:  req.Amount,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(payment)
}

// ListPayments handles GET /api/payments
// @Summary Caller's payments
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Payment
// @Router /payments [get]
func (s *Server) ListPayments(c *fiber.Ctx) error {
	payments, err := s.paymentService.ListForPayer(c.UserContext(), callerID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(payments)
}

// UpdatePaymentStatus handles PATCH /api/payments/:id/status
// @Summary Update payment status (payer only)
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Payment ID"
// @Param request body statusRequest true "New status"
// @Success 200 {object} models.Payment
// @Router /payments/{id}/status [patch]
func (s *Server) UpdatePaymentStatus(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req statusRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	payment, err := s.paymentService.UpdateStatus(c.UserContext(), service.UpdatePaymentStatusInput{
		CallerID:  callerID(c),
		PaymentID: id,
		Status:    req.Status,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(payment)
}
