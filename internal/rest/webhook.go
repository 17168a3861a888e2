package rest

import (
	"context"
	"io"
	"net/http"
	"time"

	"dreamKeys/domain"
	"dreamKeys/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

const maxWebhookBody = 64 << 10

type WebhookVerifier interface {
	ParseWebhook(payload []byte, signature string) (domain.WebhookEvent, error)
}

type WebhookHandler struct {
	verifier        WebhookVerifier
	paymentsService PaymentsService
	timeout         time.Duration
}

func NewWebhookHandler(verifier WebhookVerifier, paymentsService PaymentsService) *WebhookHandler {
	return &WebhookHandler{
		verifier:        verifier,
		paymentsService: paymentsService,
		timeout:         30 * time.Second,
	}
}

func (h *WebhookHandler) HandleStripeWebhook(c echo.Context) error {
	payload, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody))
	if err != nil {
		logger.Error("Failed to read webhook body", err)
		return badRequest(c, "invalid request body")
	}

	event, err := h.verifier.ParseWebhook(payload, c.Request().Header.Get("Stripe-Signature"))
	if err != nil {
		logger.Warn("Rejected webhook", "error", err)
		return writeError(c, err)
	}

	if event.Type != "payment_intent.succeeded" || event.Intent == nil {
		logger.Debug("Ignoring webhook event", "event_id", event.ID, "type", event.Type)
		return c.JSON(http.StatusOK, fres.Response.StatusOK(http.StatusOK))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.paymentsService.HandleIntentSucceeded(ctx, event.ID, *event.Intent); err != nil {
		return writeError(c, err)
	}

	logger.Info("Webhook processed", "event_id", event.ID, "intent_id", event.Intent.ID)
	return c.JSON(http.StatusOK, fres.Response.StatusOK(http.StatusOK))
}
