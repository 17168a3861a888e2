package rest

import (
	"context"
	"net/http"
	"time"

	"dreamKeys/domain"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type WishlistService interface {
	Add(ctx context.Context, actor domain.Actor, propertyID uint) (domain.WishlistItem, error)
	List(ctx context.Context, actor domain.Actor) ([]domain.WishlistItem, error)
	Get(ctx context.Context, actor domain.Actor, id uint) (domain.WishlistItem, error)
	Remove(ctx context.Context, actor domain.Actor, id uint) error
}

type WishlistHandler struct {
	wishlistService WishlistService
	validator       *validator.Validate
	timeout         time.Duration
}

func NewWishlistHandler(wishlistService WishlistService) *WishlistHandler {
	return &WishlistHandler{
		wishlistService: wishlistService,
		validator:       validator.New(),
		timeout:         10 * time.Second,
	}
}

type AddWishlistRequest struct {
	PropertyID uint `json:"propertyId" validate:"required"`
}

func (h *WishlistHandler) AddToWishlist(c echo.Context) error {
	var req AddWishlistRequest

	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, "propertyId is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	item, err := h.wishlistService.Add(ctx, actorFrom(c), req.PropertyID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "added to wishlist",
		"item":    item,
	})
}

func (h *WishlistHandler) GetWishlist(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	items, err := h.wishlistService.List(ctx, actorFrom(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"items": items,
	})
}

func (h *WishlistHandler) GetWishlistItem(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	item, err := h.wishlistService.Get(ctx, actorFrom(c), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"item": item,
	})
}

func (h *WishlistHandler) RemoveFromWishlist(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.wishlistService.Remove(ctx, actorFrom(c), id); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "removed from wishlist",
	})
}
