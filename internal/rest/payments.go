package rest

import (
	"context"
	"net/http"
	"time"

	"dreamKeys/domain"
	"dreamKeys/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type PaymentsService interface {
	CreateIntent(ctx context.Context, actor domain.Actor, bidID uint) (domain.PaymentIntent, error)
	Settle(ctx context.Context, actor domain.Actor, bidID uint, transactionID string) (domain.Settlement, error)
	HandleIntentSucceeded(ctx context.Context, eventID string, intent domain.PaymentIntent) error
	ListByBuyer(ctx context.Context, actor domain.Actor, email string) ([]domain.Payment, error)
	List(ctx context.Context, actor domain.Actor, agentEmail string) ([]domain.Payment, error)
}

type PaymentsHandler struct {
	paymentsService PaymentsService
	validator       *validator.Validate
	timeout         time.Duration
}

func NewPaymentsHandler(paymentsService PaymentsService) *PaymentsHandler {
	return &PaymentsHandler{
		paymentsService: paymentsService,
		validator:       validator.New(),
		timeout:         30 * time.Second,
	}
}

type CreateIntentRequest struct {
	BidID uint `json:"bidId" validate:"required"`
}

type SettleRequest struct {
	BidID         uint   `json:"bidId" validate:"required"`
	TransactionID string `json:"transactionId" validate:"required"`
}

func (h *PaymentsHandler) CreateIntent(c echo.Context) error {
	var req CreateIntentRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return badRequest(c, "invalid request body")
	}

	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, "bidId is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	intent, err := h.paymentsService.CreateIntent(ctx, actorFrom(c), req.BidID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(intent))
}

func (h *PaymentsHandler) Settle(c echo.Context) error {
	var req SettleRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return badRequest(c, "invalid request body")
	}

	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, "bidId and transactionId are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	settlement, err := h.paymentsService.Settle(ctx, actorFrom(c), req.BidID, req.TransactionID)
	if err != nil {
		return writeError(c, err)
	}

	if settlement.Replayed {
		return c.JSON(http.StatusOK, fres.Response.StatusOK(settlement))
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(settlement))
}

func (h *PaymentsHandler) GetAllPayments(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	payments, err := h.paymentsService.List(ctx, actorFrom(c), emailParam(c.QueryParam("agentEmail")))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(payments))
}

func (h *PaymentsHandler) GetBuyerPayments(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	payments, err := h.paymentsService.ListByBuyer(ctx, actorFrom(c), emailParam(c.Param("email")))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(payments))
}
