package memory

import (
	"context"
	"sync"
	"time"

	"dreamKeys/domain"
)

type BidRepository struct {
	mu     sync.Mutex
	nextID uint
	bids   map[uint]domain.Bid
}

func NewBidRepository() *BidRepository {
	return &BidRepository{bids: map[uint]domain.Bid{}}
}

func (r *BidRepository) Create(_ context.Context, bid *domain.Bid) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	bid.ID = r.nextID
	bid.CreatedAt = time.Now()
	bid.UpdatedAt = bid.CreatedAt
	r.bids[bid.ID] = *bid
	return nil
}

func (r *BidRepository) FindByID(_ context.Context, id uint) (domain.Bid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bids[id]
	if !ok {
		return domain.Bid{}, domain.NewError(domain.ErrNotFound, "bid not found")
	}
	return b, nil
}

func (r *BidRepository) FindByBuyer(_ context.Context, email string) ([]domain.Bid, error) {
	return r.filter(func(b domain.Bid) bool { return b.BuyerEmail == email }), nil
}

func (r *BidRepository) FindByAgent(_ context.Context, email string) ([]domain.Bid, error) {
	return r.filter(func(b domain.Bid) bool { return b.AgentEmail == email }), nil
}

func (r *BidRepository) filter(keep func(domain.Bid) bool) []domain.Bid {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []domain.Bid{}
	for _, id := range sortedIDs(r.bids) {
		if b := r.bids[id]; keep(b) {
			out = append(out, b)
		}
	}
	return out
}

func (r *BidRepository) UpdateStatus(_ context.Context, id uint, from, to domain.BidStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bids[id]
	if !ok || b.Status != from {
		return 0, nil
	}
	b.Status = to
	b.UpdatedAt = time.Now()
	r.bids[id] = b
	return 1, nil
}

func (r *BidRepository) MarkBought(_ context.Context, id uint, transactionID string, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bids[id]
	if !ok || b.Status != domain.BidAccepted {
		return 0, nil
	}
	b.Status = domain.BidBought
	b.TransactionID = transactionID
	b.BoughtAt = &at
	r.bids[id] = b
	return 1, nil
}
