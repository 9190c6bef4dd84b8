package handler

import (
	"net/http"

	"secondhand-market/internal/dto"
	"secondhand-market/internal/service"

	"github.com/labstack/echo/v4"
)

type PaymentHandler struct {
	paymentService service.PaymentService
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

func (h *PaymentHandler) CreatePaymentIntent(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.PaymentIntentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	intent, err := h.paymentService.CreateIntent(ctx, req.Price)
	if err != nil {
		return failure(err, "PAYMENT INTENT CREATION FAILED")
	}

	return c.JSON(http.StatusOK, intent)
}

// RecordPayment is called by the client once the provider confirmed the
// charge. The whole body is kept as the payment payload.
func (h *PaymentHandler) RecordPayment(c echo.Context) error {
	ctx := c.Request().Context()

	ids, payload, err := bindDetails(c, "product_id")
	if err != nil {
		return err
	}

	payment, err := h.paymentService.Pay(ctx, ids["product_id"], payload)
	if err != nil {
		return failure(err, "PAYMENT POST FAILED")
	}

	return c.JSON(http.StatusOK, payment)
}
