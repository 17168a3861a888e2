package report

import (
	"context"
	"strings"

	"dreamKeys/domain"
	"dreamKeys/pkg/logger"
)

type ReportRepository interface {
	Create(ctx context.Context, report *domain.PropertyReport) error
	FindAll(ctx context.Context) ([]domain.PropertyReport, error)
	Delete(ctx context.Context, id uint) (int64, error)
}

type PropertyReader interface {
	FindByID(ctx context.Context, id uint) (domain.Property, error)
}

type reportService struct {
	reportRepo   ReportRepository
	propertyRepo PropertyReader
}

func NewReportService(reportRepo ReportRepository, propertyRepo PropertyReader) *reportService {
	return &reportService{
		reportRepo:   reportRepo,
		propertyRepo: propertyRepo,
	}
}

// Create files a report against a listing for admin review.
func (s *reportService) Create(ctx context.Context, actor domain.Actor, propertyID uint, description string) (domain.PropertyReport, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return domain.PropertyReport{}, domain.NewError(domain.ErrInvalidArgument, "report description is required")
	}

	property, err := s.propertyRepo.FindByID(ctx, propertyID)
	if err != nil {
		return domain.PropertyReport{}, err
	}

	report := domain.PropertyReport{
		PropertyID:    property.ID,
		PropertyTitle: property.Title,
		AgentEmail:    property.AgentEmail,
		ReporterName:  actor.Name,
		ReporterEmail: actor.Email,
		Description:   description,
	}

	if err := s.reportRepo.Create(ctx, &report); err != nil {
		logger.Error("Failed to create property report", err)
		return domain.PropertyReport{}, err
	}

	logger.Info("Property reported", "property_id", property.ID, "report_id", report.ID)
	return report, nil
}

func (s *reportService) GetAll(ctx context.Context) ([]domain.PropertyReport, error) {
	return s.reportRepo.FindAll(ctx)
}

func (s *reportService) Delete(ctx context.Context, id uint) error {
	rows, err := s.reportRepo.Delete(ctx, id)
	if err != nil {
		logger.Error("Failed to delete property report", err)
		return err
	}
	if rows == 0 {
		return domain.NewError(domain.ErrNotFound, "report not found")
	}

	return nil
}
