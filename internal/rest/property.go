package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"dreamKeys/domain"
	"dreamKeys/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/datatypes"
)

type PropertyService interface {
	Create(ctx context.Context, actor domain.Actor, property domain.Property) (domain.Property, error)
	GetByID(ctx context.Context, id uint) (domain.Property, error)
	GetAll(ctx context.Context, filter domain.PropertyFilter) ([]domain.Property, error)
	GetAdvertised(ctx context.Context) ([]domain.Property, error)
	Update(ctx context.Context, actor domain.Actor, id uint, changes domain.PropertyChanges) (domain.Property, error)
	Verify(ctx context.Context, actor domain.Actor, id uint, status string) (domain.Property, error)
	Advertise(ctx context.Context, actor domain.Actor, id uint) (domain.Property, error)
	RemoveAdvertise(ctx context.Context, actor domain.Actor, id uint) (domain.Property, error)
	Delete(ctx context.Context, actor domain.Actor, id uint) error
	DeleteByAgent(ctx context.Context, agentID uint) (int64, error)
}

type PropertyHandler struct {
	propertyService PropertyService
	validator       *validator.Validate
	timeout         time.Duration
}

func NewPropertyHandler(propertyService PropertyService) *PropertyHandler {
	return &PropertyHandler{
		propertyService: propertyService,
		validator:       validator.New(),
		timeout:         10 * time.Second,
	}
}

type CreatePropertyRequest struct {
	Title    string            `json:"title" validate:"required"`
	Location string            `json:"location" validate:"required"`
	ImageURL string            `json:"image" validate:"omitempty,url"`
	MinPrice float64           `json:"minPrice" validate:"gte=0"`
	MaxPrice float64           `json:"maxPrice" validate:"gte=0"`
	Details  datatypes.JSONMap `json:"details"`
}

// UpdatePropertyRequest only carries editable fields. Status, advertisement and agent
// fields are ignored if sent.
type UpdatePropertyRequest struct {
	Title    *string           `json:"title" validate:"omitempty,min=1"`
	Location *string           `json:"location"`
	ImageURL *string           `json:"image" validate:"omitempty,url"`
	MinPrice *float64          `json:"minPrice" validate:"omitempty,gte=0"`
	MaxPrice *float64          `json:"maxPrice" validate:"omitempty,gte=0"`
	Details  datatypes.JSONMap `json:"details"`
}

type VerifyPropertyRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *PropertyHandler) GetAllProperties(c echo.Context) error {
	filter := domain.PropertyFilter{
		AgentEmail:         c.QueryParam("agentEmail"),
		VerificationStatus: domain.VerificationStatus(c.QueryParam("verificationStatus")),
	}
	if raw := c.QueryParam("advertised"); raw != "" {
		advertised, err := strconv.ParseBool(raw)
		if err != nil {
			return badRequest(c, "advertised must be true or false")
		}
		filter.Advertised = &advertised
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	properties, err := h.propertyService.GetAll(ctx, filter)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":    "successfully get all properties",
		"properties": properties,
	})
}

func (h *PropertyHandler) GetAdvertisedProperties(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	properties, err := h.propertyService.GetAdvertised(ctx)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":    "successfully get advertised properties",
		"properties": properties,
	})
}

func (h *PropertyHandler) GetPropertyByID(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	property, err := h.propertyService.GetByID(ctx, id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "successfully find property by id",
		"property": property,
	})
}

func (h *PropertyHandler) CreateProperty(c echo.Context) error {
	var req CreatePropertyRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return badRequest(c, "invalid request body")
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate property request", err)
		return badRequest(c, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	property, err := h.propertyService.Create(ctx, actorFrom(c), domain.Property{
		Title:    req.Title,
		Location: req.Location,
		ImageURL: req.ImageURL,
		MinPrice: req.MinPrice,
		MaxPrice: req.MaxPrice,
		Details:  req.Details,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":  "property created",
		"property": property,
	})
}

func (h *PropertyHandler) UpdateProperty(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req UpdatePropertyRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return badRequest(c, "invalid request body")
	}

	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	property, err := h.propertyService.Update(ctx, actorFrom(c), id, domain.PropertyChanges{
		Title:    req.Title,
		Location: req.Location,
		ImageURL: req.ImageURL,
		MinPrice: req.MinPrice,
		MaxPrice: req.MaxPrice,
		Details:  req.Details,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "property updated",
		"property": property,
	})
}

func (h *PropertyHandler) VerifyProperty(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req VerifyPropertyRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	property, err := h.propertyService.Verify(ctx, actorFrom(c), id, req.Status)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "verification status updated",
		"property": property,
	})
}

func (h *PropertyHandler) AdvertiseProperty(c echo.Context) error {
	return h.toggleAdvertise(c, true)
}

func (h *PropertyHandler) RemoveAdvertiseProperty(c echo.Context) error {
	return h.toggleAdvertise(c, false)
}

func (h *PropertyHandler) toggleAdvertise(c echo.Context, advertise bool) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	var property domain.Property
	message := "property advertised"
	if advertise {
		property, err = h.propertyService.Advertise(ctx, actorFrom(c), id)
	} else {
		property, err = h.propertyService.RemoveAdvertise(ctx, actorFrom(c), id)
		message = "property advertisement removed"
	}
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  message,
		"property": property,
	})
}

func (h *PropertyHandler) DeleteProperty(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.propertyService.Delete(ctx, actorFrom(c), id); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "property deleted",
	})
}

func (h *PropertyHandler) DeletePropertiesByAgent(c echo.Context) error {
	agentID, err := parseID(c, "userId")
	if err != nil {
		return writeError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	deleted, err := h.propertyService.DeleteByAgent(ctx, agentID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":      "agent properties deleted",
		"deletedCount": deleted,
	})
}
