package wishlist

import (
	"context"
	"errors"

	"dreamKeys/domain"
	"dreamKeys/pkg/logger"
)

type WishlistRepository interface {
	Create(ctx context.Context, item *domain.WishlistItem) error
	FindByUser(ctx context.Context, email string) ([]domain.WishlistItem, error)
	FindByIDAndUser(ctx context.Context, id uint, email string) (domain.WishlistItem, error)
	Delete(ctx context.Context, id uint, email string) (int64, error)
}

type PropertyReader interface {
	FindByID(ctx context.Context, id uint) (domain.Property, error)
}

type wishlistService struct {
	wishlistRepo WishlistRepository
	propertyRepo PropertyReader
}

func NewWishlistService(wishlistRepo WishlistRepository, propertyRepo PropertyReader) *wishlistService {
	return &wishlistService{
		wishlistRepo: wishlistRepo,
		propertyRepo: propertyRepo,
	}
}

func (s *wishlistService) Add(ctx context.Context, actor domain.Actor, propertyID uint) (domain.WishlistItem, error) {
	property, err := s.propertyRepo.FindByID(ctx, propertyID)
	if err != nil {
		return domain.WishlistItem{}, err
	}

	item := domain.WishlistItem{
		UserEmail:        actor.Email,
		PropertyID:       property.ID,
		PropertySnapshot: property.Snapshot(),
	}

	if err := s.wishlistRepo.Create(ctx, &item); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.WishlistItem{}, domain.NewError(domain.ErrConflict, "property already in wishlist")
		}
		logger.Error("Failed to add wishlist item", err)
		return domain.WishlistItem{}, err
	}

	return item, nil
}

func (s *wishlistService) List(ctx context.Context, actor domain.Actor) ([]domain.WishlistItem, error) {
	return s.wishlistRepo.FindByUser(ctx, actor.Email)
}

func (s *wishlistService) Get(ctx context.Context, actor domain.Actor, id uint) (domain.WishlistItem, error) {
	return s.wishlistRepo.FindByIDAndUser(ctx, id, actor.Email)
}

func (s *wishlistService) Remove(ctx context.Context, actor domain.Actor, id uint) error {
	rows, err := s.wishlistRepo.Delete(ctx, id, actor.Email)
	if err != nil {
		logger.Error("Failed to remove wishlist item", err)
		return err
	}
	if rows == 0 {
		return domain.NewError(domain.ErrNotFound, "wishlist item not found")
	}

	return nil
}
