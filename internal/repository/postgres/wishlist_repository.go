package postgres

import (
	"context"
	"errors"

	"dreamKeys/domain"

	"gorm.io/gorm"
)

type WishlistRepository struct {
	DB *gorm.DB
}

func NewWishlistRepository(db *gorm.DB) *WishlistRepository {
	return &WishlistRepository{
		DB: db,
	}
}

func (r *WishlistRepository) Create(ctx context.Context, item *domain.WishlistItem) error {
	if err := r.DB.WithContext(ctx).Create(item).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewError(domain.ErrConflict, "wishlist item already exists")
		}
		return err
	}

	return nil
}

func (r *WishlistRepository) FindByUser(ctx context.Context, email string) ([]domain.WishlistItem, error) {
	var items []domain.WishlistItem
	if err := r.DB.WithContext(ctx).Where("user_email = ?", email).Order("id").Find(&items).Error; err != nil {
		return nil, err
	}

	return items, nil
}

func (r *WishlistRepository) FindByIDAndUser(ctx context.Context, id uint, email string) (domain.WishlistItem, error) {
	var item domain.WishlistItem
	err := r.DB.WithContext(ctx).Where("id = ? AND user_email = ?", id, email).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.WishlistItem{}, domain.NewError(domain.ErrNotFound, "wishlist item not found")
		}
		return domain.WishlistItem{}, err
	}

	return item, nil
}

func (r *WishlistRepository) Delete(ctx context.Context, id uint, email string) (int64, error) {
	row := r.DB.WithContext(ctx).Where("id = ? AND user_email = ?", id, email).Delete(&domain.WishlistItem{})
	if err := row.Error; err != nil {
		return 0, err
	}

	return row.RowsAffected, nil
}
