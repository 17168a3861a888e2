package memory

import (
	"context"
	"sync"
	"time"

	"dreamKeys/domain"
)

type WishlistRepository struct {
	mu     sync.Mutex
	nextID uint
	items  map[uint]domain.WishlistItem
}

func NewWishlistRepository() *WishlistRepository {
	return &WishlistRepository{items: map[uint]domain.WishlistItem{}}
}

func (r *WishlistRepository) Create(_ context.Context, item *domain.WishlistItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, i := range r.items {
		if i.UserEmail == item.UserEmail && i.PropertyID == item.PropertyID {
			return domain.NewError(domain.ErrConflict, "wishlist item already exists")
		}
	}

	r.nextID++
	item.ID = r.nextID
	item.AddedAt = time.Now()
	r.items[item.ID] = *item
	return nil
}

func (r *WishlistRepository) FindByUser(_ context.Context, email string) ([]domain.WishlistItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []domain.WishlistItem{}
	for _, id := range sortedIDs(r.items) {
		if i := r.items[id]; i.UserEmail == email {
			out = append(out, i)
		}
	}
	return out, nil
}

func (r *WishlistRepository) FindByIDAndUser(_ context.Context, id uint, email string) (domain.WishlistItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.items[id]
	if !ok || i.UserEmail != email {
		return domain.WishlistItem{}, domain.NewError(domain.ErrNotFound, "wishlist item not found")
	}
	return i, nil
}

func (r *WishlistRepository) Delete(_ context.Context, id uint, email string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.items[id]
	if !ok || i.UserEmail != email {
		return 0, nil
	}
	delete(r.items, id)
	return 1, nil
}
