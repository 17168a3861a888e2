package rest

import (
	"context"
	"net/http"
	"time"

	"dreamKeys/domain"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type ReportService interface {
	Create(ctx context.Context, actor domain.Actor, propertyID uint, description string) (domain.PropertyReport, error)
	GetAll(ctx context.Context) ([]domain.PropertyReport, error)
	Delete(ctx context.Context, id uint) error
}

type ReportHandler struct {
	reportService ReportService
	validator     *validator.Validate
	timeout       time.Duration
}

func NewReportHandler(reportService ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		validator:     validator.New(),
		timeout:       10 * time.Second,
	}
}

type ReportPropertyRequest struct {
	Description string `json:"reportDescription" validate:"required,max=2000"`
}

func (h *ReportHandler) ReportProperty(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req ReportPropertyRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, "reportDescription is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	report, err := h.reportService.Create(ctx, actorFrom(c), id, req.Description)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "property reported",
		"report":  report,
	})
}

func (h *ReportHandler) GetAllReports(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	reports, err := h.reportService.GetAll(ctx)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"reports": reports,
	})
}

func (h *ReportHandler) DeleteReport(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.reportService.Delete(ctx, id); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "report deleted",
	})
}
