package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dreamKeys/domain"

	"gorm.io/gorm"
)

type BidRepository struct {
	DB *gorm.DB
}

func NewBidRepository(db *gorm.DB) *BidRepository {
	return &BidRepository{
		DB: db,
	}
}

func (r *BidRepository) Create(ctx context.Context, bid *domain.Bid) error {
	if err := r.DB.WithContext(ctx).Create(bid).Error; err != nil {
		return fmt.Errorf("failed to create bid: %w", err)
	}

	return nil
}

func (r *BidRepository) FindByID(ctx context.Context, id uint) (domain.Bid, error) {
	var bid domain.Bid

	err := r.DB.WithContext(ctx).First(&bid, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Bid{}, domain.NewError(domain.ErrNotFound, "bid not found")
		}
		return domain.Bid{}, err
	}

	return bid, nil
}

func (r *BidRepository) FindByBuyer(ctx context.Context, email string) ([]domain.Bid, error) {
	var bids []domain.Bid
	if err := r.DB.WithContext(ctx).Where("buyer_email = ?", email).Order("id").Find(&bids).Error; err != nil {
		return nil, err
	}

	return bids, nil
}

func (r *BidRepository) FindByAgent(ctx context.Context, email string) ([]domain.Bid, error) {
	var bids []domain.Bid
	if err := r.DB.WithContext(ctx).Where("agent_email = ?", email).Order("id").Find(&bids).Error; err != nil {
		return nil, err
	}

	return bids, nil
}

// UpdateStatus is a compare-and-set on the current status.
func (r *BidRepository) UpdateStatus(ctx context.Context, id uint, from, to domain.BidStatus) (int64, error) {
	row := r.DB.WithContext(ctx).Model(&domain.Bid{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if err := row.Error; err != nil {
		return 0, err
	}

	return row.RowsAffected, nil
}

func (r *BidRepository) MarkBought(ctx context.Context, id uint, transactionID string, at time.Time) (int64, error) {
	row := r.DB.WithContext(ctx).Model(&domain.Bid{}).
		Where("id = ? AND status = ?", id, domain.BidAccepted).
		Updates(map[string]interface{}{
			"status":         domain.BidBought,
			"transaction_id": transactionID,
			"bought_at":      at,
		})
	if err := row.Error; err != nil {
		return 0, err
	}

	return row.RowsAffected, nil
}
