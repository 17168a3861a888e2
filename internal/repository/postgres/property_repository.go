package postgres

import (
	"context"
	"errors"
	"fmt"

	"dreamKeys/domain"

	"gorm.io/gorm"
)

type PropertyRepository struct {
	DB *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) *PropertyRepository {
	return &PropertyRepository{
		DB: db,
	}
}

func (r *PropertyRepository) Create(ctx context.Context, property *domain.Property) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(property).Error; err != nil {
		return fmt.Errorf("failed to create property: %w", err)
	}

	return nil
}

func (r *PropertyRepository) FindByID(ctx context.Context, id uint) (domain.Property, error) {
	var property domain.Property

	err := r.DB.WithContext(ctx).First(&property, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Property{}, domain.NewError(domain.ErrNotFound, "property not found")
		}
		return domain.Property{}, fmt.Errorf("failed to find property: %w", err)
	}

	return property, nil
}

func (r *PropertyRepository) FindByIDs(ctx context.Context, ids []uint) ([]domain.Property, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var properties []domain.Property
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&properties).Error; err != nil {
		return nil, fmt.Errorf("failed to find properties: %w", err)
	}

	return properties, nil
}

func (r *PropertyRepository) FindAll(ctx context.Context, filter domain.PropertyFilter) ([]domain.Property, error) {
	query := r.DB.WithContext(ctx).Model(&domain.Property{})
	if filter.AgentEmail != "" {
		query = query.Where("agent_email = ?", filter.AgentEmail)
	}
	if filter.VerificationStatus != "" {
		query = query.Where("verification_status = ?", filter.VerificationStatus)
	}
	if filter.Advertised != nil {
		query = query.Where("is_advertised = ?", *filter.Advertised)
	}

	var properties []domain.Property
	if err := query.Order("id").Find(&properties).Error; err != nil {
		return nil, fmt.Errorf("failed to find properties: %w", err)
	}

	return properties, nil
}

func (r *PropertyRepository) UpdateFields(ctx context.Context, id uint, changes domain.PropertyChanges, requirePending bool) (int64, error) {
	updateData := map[string]interface{}{}
	if changes.Title != nil {
		updateData["title"] = *changes.Title
	}
	if changes.Location != nil {
		updateData["location"] = *changes.Location
	}
	if changes.ImageURL != nil {
		updateData["image_url"] = *changes.ImageURL
	}
	if changes.MinPrice != nil {
		updateData["min_price"] = *changes.MinPrice
	}
	if changes.MaxPrice != nil {
		updateData["max_price"] = *changes.MaxPrice
	}
	if changes.Details != nil {
		updateData["details"] = changes.Details
	}

	query := r.DB.WithContext(ctx).Model(&domain.Property{}).Where("id = ?", id)
	if requirePending {
		query = query.Where("verification_status = ?", domain.VerificationPending)
	}

	if len(updateData) == 0 {
		// nothing to change, still report whether the row matched
		var count int64
		if err := query.Count(&count).Error; err != nil {
			return 0, err
		}
		return count, nil
	}

	result := query.Updates(updateData)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to update property: %w", result.Error)
	}

	return result.RowsAffected, nil
}

func (r *PropertyRepository) UpdateVerification(ctx context.Context, id uint, status domain.VerificationStatus) (int64, error) {
	result := r.DB.WithContext(ctx).Model(&domain.Property{}).
		Where("id = ? AND verification_status = ?", id, domain.VerificationPending).
		Update("verification_status", status)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to update verification status: %w", result.Error)
	}

	return result.RowsAffected, nil
}

func (r *PropertyRepository) SetAdvertised(ctx context.Context, id uint, advertised bool) (int64, error) {
	query := r.DB.WithContext(ctx).Model(&domain.Property{}).Where("id = ? AND is_advertised = ?", id, !advertised)
	if advertised {
		query = query.Where("verification_status = ?", domain.VerificationVerified)
	}

	result := query.Update("is_advertised", advertised)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to update advertisement: %w", result.Error)
	}

	return result.RowsAffected, nil
}

func (r *PropertyRepository) Delete(ctx context.Context, id uint) (int64, error) {
	result := r.DB.WithContext(ctx).Delete(&domain.Property{}, id)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete property: %w", result.Error)
	}

	return result.RowsAffected, nil
}

func (r *PropertyRepository) DeleteByAgent(ctx context.Context, agentID uint) (int64, error) {
	result := r.DB.WithContext(ctx).Where("agent_id = ?", agentID).Delete(&domain.Property{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete agent properties: %w", result.Error)
	}

	return result.RowsAffected, nil
}
