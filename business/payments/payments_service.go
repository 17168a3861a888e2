package payments

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"dreamKeys/domain"
	"dreamKeys/pkg/logger"
	"dreamKeys/pkg/metrics"
)

// PaymentsRepository contract interface
type PaymentsRepository interface {
	// Create reports domain.ErrConflict when the bid or transaction is already recorded.
	Create(ctx context.Context, payment *domain.Payment) error
	FindByBidID(ctx context.Context, bidID uint) (domain.Payment, error)
	FindByBuyer(ctx context.Context, email string) ([]domain.Payment, error)
	FindByAgent(ctx context.Context, email string) ([]domain.Payment, error)
	FindAll(ctx context.Context) ([]domain.Payment, error)
}

// Gateway is the external payment provider.
type Gateway interface {
	CreatePaymentIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (domain.PaymentIntent, error)
	GetPaymentIntent(ctx context.Context, id string) (domain.PaymentIntent, error)
}

// BidLedger owns bid status. Payments only read bids and ask the ledger to settle them.
type BidLedger interface {
	GetBid(ctx context.Context, id uint) (domain.Bid, error)
	MarkBought(ctx context.Context, id uint) (domain.Bid, bool, error)
}

// EventStore remembers processed gateway events.
type EventStore interface {
	// MarkProcessed returns false when the event was already claimed.
	MarkProcessed(ctx context.Context, eventID string) (bool, error)
	Release(ctx context.Context, eventID string) error
}

const metadataBidID = "bid_id"

type PaymentsService struct {
	paymentRepo PaymentsRepository
	gateway     Gateway
	bids        BidLedger
	events      EventStore
	currency    string
}

func NewPaymentsService(paymentRepo PaymentsRepository, gateway Gateway, bids BidLedger, events EventStore, currency string) *PaymentsService {
	return &PaymentsService{
		paymentRepo: paymentRepo,
		gateway:     gateway,
		bids:        bids,
		events:      events,
		currency:    currency,
	}
}

// CreateIntent opens a gateway charge for the accepted offer. Nothing is recorded locally.
func (s *PaymentsService) CreateIntent(ctx context.Context, actor domain.Actor, bidID uint) (domain.PaymentIntent, error) {
	bid, err := s.bids.GetBid(ctx, bidID)
	if err != nil {
		return domain.PaymentIntent{}, err
	}

	if actor.Email == "" || actor.Email != bid.BuyerEmail {
		return domain.PaymentIntent{}, domain.NewError(domain.ErrForbidden, "only the buyer can pay for this bid")
	}
	if bid.Status != domain.BidAccepted {
		return domain.PaymentIntent{}, domain.NewError(domain.ErrConflict, "only accepted bids can be paid")
	}

	intent, err := s.gateway.CreatePaymentIntent(ctx, toMinorUnits(bid.OfferAmount), s.currency, map[string]string{
		metadataBidID: strconv.FormatUint(uint64(bid.ID), 10),
		"buyer_email": bid.BuyerEmail,
	})
	if err != nil {
		logger.Error("Failed to create payment intent", "bid_id", bid.ID, "error", err)
		return domain.PaymentIntent{}, fmt.Errorf("create payment intent: %w", err)
	}

	logger.Info("Payment intent created", "bid_id", bid.ID, "intent_id", intent.ID)
	return intent, nil
}

// Settle records the payment for a bid and marks it bought. The buyer or an admin may call it.
func (s *PaymentsService) Settle(ctx context.Context, actor domain.Actor, bidID uint, transactionID string) (domain.Settlement, error) {
	if transactionID == "" {
		return domain.Settlement{}, domain.NewError(domain.ErrInvalidArgument, "transaction id is required")
	}

	bid, err := s.bids.GetBid(ctx, bidID)
	if err != nil {
		return domain.Settlement{}, err
	}

	if !actor.CanManage(bid.BuyerEmail) {
		return domain.Settlement{}, domain.NewError(domain.ErrForbidden, "only the buyer can settle this bid")
	}

	return s.settle(ctx, bid, transactionID, nil)
}

// HandleIntentSucceeded settles from a verified gateway event. Duplicate deliveries are no-ops.
func (s *PaymentsService) HandleIntentSucceeded(ctx context.Context, eventID string, intent domain.PaymentIntent) error {
	first, err := s.events.MarkProcessed(ctx, eventID)
	if err != nil {
		logger.Error("Failed to claim webhook event", "event_id", eventID, "error", err)
		return err
	}
	if !first {
		logger.Info("Webhook event already processed", "event_id", eventID)
		return nil
	}

	bidID, err := strconv.ParseUint(intent.Metadata[metadataBidID], 10, 64)
	if err != nil {
		// nothing to settle, keep the claim so redeliveries are ignored
		logger.Warn("Payment intent has no bid reference", "intent_id", intent.ID)
		return nil
	}

	settlement, err := s.settleByID(ctx, uint(bidID), intent)
	var rejected *domain.Error
	if errors.As(err, &rejected) {
		// redelivery cannot change the outcome
		logger.Warn("Webhook settlement rejected", "event_id", eventID, "intent_id", intent.ID, "reason", rejected.Message)
		return nil
	}
	if err != nil {
		if releaseErr := s.events.Release(ctx, eventID); releaseErr != nil {
			logger.Error("Failed to release webhook event", "event_id", eventID, "error", releaseErr)
		}
		return err
	}

	logger.Info("Webhook settled bid", "bid_id", settlement.Bid.ID, "replayed", settlement.Replayed)
	return nil
}

func (s *PaymentsService) settleByID(ctx context.Context, bidID uint, intent domain.PaymentIntent) (domain.Settlement, error) {
	bid, err := s.bids.GetBid(ctx, bidID)
	if err != nil {
		return domain.Settlement{}, err
	}

	return s.settle(ctx, bid, intent.ID, &intent)
}

func (s *PaymentsService) settle(ctx context.Context, bid domain.Bid, transactionID string, intent *domain.PaymentIntent) (domain.Settlement, error) {
	if bid.Status != domain.BidAccepted && bid.Status != domain.BidBought {
		metrics.Settlements.WithLabelValues("rejected").Inc()
		return domain.Settlement{}, domain.NewError(domain.ErrConflict, "only accepted bids can be settled")
	}

	payment, err := s.paymentRepo.FindByBidID(ctx, bid.ID)
	switch {
	case err == nil:
		if payment.TransactionID != transactionID {
			metrics.Settlements.WithLabelValues("rejected").Inc()
			return domain.Settlement{}, domain.NewError(domain.ErrConflict, "bid is already paid by another transaction")
		}
	case errors.Is(err, domain.ErrNotFound):
		if bid.Status == domain.BidBought {
			// bought without a payment row cannot be produced by this service
			return domain.Settlement{}, fmt.Errorf("bid %d is bought but has no payment", bid.ID)
		}
		payment, err = s.record(ctx, bid, transactionID, intent)
		if err != nil {
			return domain.Settlement{}, err
		}
	default:
		logger.Error("Failed to look up payment", err)
		return domain.Settlement{}, err
	}

	settled, replayed, err := s.bids.MarkBought(ctx, bid.ID)
	if err != nil {
		logger.Error("Payment recorded but bid not marked bought", "bid_id", bid.ID, "error", err)
		return domain.Settlement{}, err
	}

	outcome := "settled"
	if replayed {
		outcome = "replayed"
	}
	metrics.Settlements.WithLabelValues(outcome).Inc()

	return domain.Settlement{Payment: payment, Bid: settled, Replayed: replayed}, nil
}

// record confirms the charge with the gateway and inserts the payment row.
func (s *PaymentsService) record(ctx context.Context, bid domain.Bid, transactionID string, intent *domain.PaymentIntent) (domain.Payment, error) {
	if intent == nil {
		fetched, err := s.gateway.GetPaymentIntent(ctx, transactionID)
		if err != nil {
			logger.Error("Failed to fetch payment intent", "intent_id", transactionID, "error", err)
			return domain.Payment{}, fmt.Errorf("fetch payment intent: %w", err)
		}
		intent = &fetched
	}

	if err := s.confirm(bid, *intent); err != nil {
		metrics.Settlements.WithLabelValues("rejected").Inc()
		return domain.Payment{}, err
	}

	title, _ := bid.PropertySnapshot["title"].(string)
	payment := domain.Payment{
		BidID:         bid.ID,
		PropertyID:    bid.PropertyID,
		PropertyTitle: title,
		BuyerEmail:    bid.BuyerEmail,
		AgentEmail:    bid.AgentEmail,
		Amount:        bid.OfferAmount,
		Currency:      intent.Currency,
		TransactionID: transactionID,
	}

	if err := s.paymentRepo.Create(ctx, &payment); err != nil {
		if !errors.Is(err, domain.ErrConflict) {
			logger.Error("Failed to record payment", err)
			return domain.Payment{}, err
		}
		// a concurrent settlement got there first
		existing, findErr := s.paymentRepo.FindByBidID(ctx, bid.ID)
		if findErr != nil || existing.TransactionID != transactionID {
			return domain.Payment{}, domain.NewError(domain.ErrConflict, "transaction is already recorded for another bid")
		}
		return existing, nil
	}

	logger.Info("Payment recorded", "bid_id", bid.ID, "transaction_id", transactionID)
	return payment, nil
}

func (s *PaymentsService) confirm(bid domain.Bid, intent domain.PaymentIntent) error {
	if intent.Status != domain.PaymentIntentSucceeded {
		return domain.NewError(domain.ErrConflict, "payment has not succeeded")
	}
	if intent.Metadata[metadataBidID] != strconv.FormatUint(uint64(bid.ID), 10) {
		return domain.NewError(domain.ErrConflict, "payment does not belong to this bid")
	}
	if intent.Amount != toMinorUnits(bid.OfferAmount) {
		return domain.NewError(domain.ErrConflict, "payment amount does not match the accepted offer")
	}

	return nil
}

func (s *PaymentsService) ListByBuyer(ctx context.Context, actor domain.Actor, email string) ([]domain.Payment, error) {
	if !actor.CanManage(email) {
		return nil, domain.NewError(domain.ErrForbidden, "you can only view your own payments")
	}

	return s.paymentRepo.FindByBuyer(ctx, email)
}

// List returns every payment to admins, or the agent's own sales when agentEmail is set.
func (s *PaymentsService) List(ctx context.Context, actor domain.Actor, agentEmail string) ([]domain.Payment, error) {
	if agentEmail == "" {
		if !actor.IsAdmin() {
			return nil, domain.NewError(domain.ErrForbidden, "admin access required")
		}
		return s.paymentRepo.FindAll(ctx)
	}

	if !actor.CanManage(agentEmail) {
		return nil, domain.NewError(domain.ErrForbidden, "you can only view your own sales")
	}

	return s.paymentRepo.FindByAgent(ctx, agentEmail)
}

func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
