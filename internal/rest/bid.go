package rest

import (
	"context"
	"net/http"
	"time"

	"dreamKeys/business/bid"
	"dreamKeys/domain"
	"dreamKeys/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type BidService interface {
	Create(ctx context.Context, actor domain.Actor, input bid.CreateBidInput) (domain.Bid, error)
	UpdateStatus(ctx context.Context, actor domain.Actor, id uint, status string) (domain.Bid, error)
	Get(ctx context.Context, actor domain.Actor, id uint) (domain.Bid, error)
	ListByBuyer(ctx context.Context, actor domain.Actor, email string) ([]domain.BidView, error)
	ListByAgent(ctx context.Context, actor domain.Actor, email string) ([]domain.BidView, error)
}

type BidHandler struct {
	bidService BidService
	validator  *validator.Validate
	timeout    time.Duration
}

func NewBidHandler(bidService BidService) *BidHandler {
	return &BidHandler{
		bidService: bidService,
		validator:  validator.New(),
		timeout:    10 * time.Second,
	}
}

type CreateBidRequest struct {
	PropertyID  uint       `json:"propertyId" validate:"required"`
	OfferAmount float64    `json:"offerAmount" validate:"required,gt=0"`
	BuyerName   string     `json:"buyerName"`
	BuyingDate  *time.Time `json:"buyingDate"`
}

type UpdateBidStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *BidHandler) CreateBid(c echo.Context) error {
	var req CreateBidRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return badRequest(c, "invalid request body")
	}

	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	created, err := h.bidService.Create(ctx, actorFrom(c), bid.CreateBidInput{
		PropertyID:  req.PropertyID,
		OfferAmount: req.OfferAmount,
		BuyerName:   req.BuyerName,
		BuyingDate:  req.BuyingDate,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(created))
}

func (h *BidHandler) UpdateBidStatus(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req UpdateBidStatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, "status is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	updated, err := h.bidService.UpdateStatus(ctx, actorFrom(c), id, req.Status)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(updated))
}

func (h *BidHandler) GetBid(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	found, err := h.bidService.Get(ctx, actorFrom(c), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(found))
}

func (h *BidHandler) GetBuyerBids(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	bids, err := h.bidService.ListByBuyer(ctx, actorFrom(c), emailParam(c.Param("email")))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(bids))
}

func (h *BidHandler) GetAgentBids(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	bids, err := h.bidService.ListByAgent(ctx, actorFrom(c), emailParam(c.Param("email")))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(bids))
}
