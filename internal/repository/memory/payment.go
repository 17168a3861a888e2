package memory

import (
	"context"
	"sync"
	"time"

	"dreamKeys/domain"
)

type PaymentsRepository struct {
	mu       sync.Mutex
	nextID   uint
	payments map[uint]domain.Payment
}

func NewPaymentsRepository() *PaymentsRepository {
	return &PaymentsRepository{payments: map[uint]domain.Payment{}}
}

func (r *PaymentsRepository) Create(_ context.Context, payment *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.payments {
		if p.BidID == payment.BidID || p.TransactionID == payment.TransactionID {
			return domain.NewError(domain.ErrConflict, "payment already recorded")
		}
	}

	r.nextID++
	payment.ID = r.nextID
	payment.CreatedAt = time.Now()
	r.payments[payment.ID] = *payment
	return nil
}

func (r *PaymentsRepository) FindByBidID(_ context.Context, bidID uint) (domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.payments {
		if p.BidID == bidID {
			return p, nil
		}
	}
	return domain.Payment{}, domain.NewError(domain.ErrNotFound, "payment not found")
}

func (r *PaymentsRepository) FindByBuyer(_ context.Context, email string) ([]domain.Payment, error) {
	return r.filter(func(p domain.Payment) bool { return p.BuyerEmail == email }), nil
}

func (r *PaymentsRepository) FindByAgent(_ context.Context, email string) ([]domain.Payment, error) {
	return r.filter(func(p domain.Payment) bool { return p.AgentEmail == email }), nil
}

func (r *PaymentsRepository) FindAll(_ context.Context) ([]domain.Payment, error) {
	return r.filter(func(domain.Payment) bool { return true }), nil
}

func (r *PaymentsRepository) filter(keep func(domain.Payment) bool) []domain.Payment {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []domain.Payment{}
	for _, id := range sortedIDs(r.payments) {
		if p := r.payments[id]; keep(p) {
			out = append(out, p)
		}
	}
	return out
}
