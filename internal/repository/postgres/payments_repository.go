package postgres

import (
	"context"
	"errors"

	"dreamKeys/domain"

	"gorm.io/gorm"
)

type PaymentsRepository struct {
	DB *gorm.DB
}

func NewPaymentsRepository(db *gorm.DB) *PaymentsRepository {
	return &PaymentsRepository{
		DB: db,
	}
}

// Create relies on the unique bid_id and transaction_id indexes to reject double payments.
func (r *PaymentsRepository) Create(ctx context.Context, payment *domain.Payment) error {
	err := r.DB.WithContext(ctx).Create(payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewError(domain.ErrConflict, "payment already recorded")
		}
		return err
	}

	return nil
}

func (r *PaymentsRepository) FindByBidID(ctx context.Context, bidID uint) (domain.Payment, error) {
	var payment domain.Payment
	err := r.DB.WithContext(ctx).Where("bid_id = ?", bidID).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Payment{}, domain.NewError(domain.ErrNotFound, "payment not found")
		}
		return domain.Payment{}, err
	}

	return payment, nil
}

func (r *PaymentsRepository) FindByBuyer(ctx context.Context, email string) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := r.DB.WithContext(ctx).Where("buyer_email = ?", email).Order("created_at DESC").Find(&payments).Error
	if err != nil {
		return nil, err
	}

	return payments, nil
}

func (r *PaymentsRepository) FindByAgent(ctx context.Context, email string) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := r.DB.WithContext(ctx).Where("agent_email = ?", email).Order("created_at DESC").Find(&payments).Error
	if err != nil {
		return nil, err
	}

	return payments, nil
}

func (r *PaymentsRepository) FindAll(ctx context.Context) ([]domain.Payment, error) {
	var payments []domain.Payment
	if err := r.DB.WithContext(ctx).Order("created_at DESC").Find(&payments).Error; err != nil {
		return nil, err
	}

	return payments, nil
}
