package postgres

import (
	"context"

	"dreamKeys/domain"

	"gorm.io/gorm"
)

type ReportRepository struct {
	DB *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{
		DB: db,
	}
}

func (r *ReportRepository) Create(ctx context.Context, report *domain.PropertyReport) error {
	return r.DB.WithContext(ctx).Create(report).Error
}

func (r *ReportRepository) FindAll(ctx context.Context) ([]domain.PropertyReport, error) {
	var reports []domain.PropertyReport
	if err := r.DB.WithContext(ctx).Order("created_at DESC").Find(&reports).Error; err != nil {
		return nil, err
	}

	return reports, nil
}

func (r *ReportRepository) Delete(ctx context.Context, id uint) (int64, error) {
	row := r.DB.WithContext(ctx).Delete(&domain.PropertyReport{}, id)
	if err := row.Error; err != nil {
		return 0, err
	}

	return row.RowsAffected, nil
}
