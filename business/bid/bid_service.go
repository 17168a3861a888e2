package bid

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dreamKeys/domain"
	"dreamKeys/pkg/logger"
	"dreamKeys/pkg/metrics"
)

// BidRepository contract interface
type BidRepository interface {
	Create(ctx context.Context, bid *domain.Bid) error
	FindByID(ctx context.Context, id uint) (domain.Bid, error)
	FindByBuyer(ctx context.Context, email string) ([]domain.Bid, error)
	FindByAgent(ctx context.Context, email string) ([]domain.Bid, error)
	// UpdateStatus only matches bids still in the from status.
	UpdateStatus(ctx context.Context, id uint, from, to domain.BidStatus) (int64, error)
	// MarkBought only matches accepted bids.
	MarkBought(ctx context.Context, id uint, transactionID string, at time.Time) (int64, error)
}

type PropertyReader interface {
	FindByID(ctx context.Context, id uint) (domain.Property, error)
	FindByIDs(ctx context.Context, ids []uint) ([]domain.Property, error)
}

type PaymentLookup interface {
	FindByBidID(ctx context.Context, bidID uint) (domain.Payment, error)
}

type Notifier interface {
	SendEmail(toName, toEmail, subject, message string) error
}

type bidService struct {
	bidRepo      BidRepository
	propertyRepo PropertyReader
	paymentRepo  PaymentLookup
	notifier     Notifier
	now          func() time.Time
}

func NewBidService(bidRepo BidRepository, propertyRepo PropertyReader, paymentRepo PaymentLookup, notifier Notifier) *bidService {
	return &bidService{
		bidRepo:      bidRepo,
		propertyRepo: propertyRepo,
		paymentRepo:  paymentRepo,
		notifier:     notifier,
		now:          time.Now,
	}
}

type CreateBidInput struct {
	PropertyID  uint
	OfferAmount float64
	BuyerName   string
	BuyingDate  *time.Time
}

func (s *bidService) Create(ctx context.Context, actor domain.Actor, input CreateBidInput) (domain.Bid, error) {
	if !actor.Registered {
		return domain.Bid{}, domain.NewError(domain.ErrForbidden, "register before placing a bid")
	}
	if actor.IsFraud {
		return domain.Bid{}, domain.NewError(domain.ErrForbidden, "account is flagged as fraudulent")
	}
	if input.OfferAmount <= 0 {
		return domain.Bid{}, domain.NewError(domain.ErrInvalidArgument, "offer amount must be positive")
	}

	property, err := s.propertyRepo.FindByID(ctx, input.PropertyID)
	if err != nil {
		return domain.Bid{}, err
	}

	if property.VerificationStatus != domain.VerificationVerified {
		return domain.Bid{}, domain.NewError(domain.ErrConflict, "bids are only accepted on verified properties")
	}
	if strings.EqualFold(property.AgentEmail, actor.Email) {
		return domain.Bid{}, domain.NewError(domain.ErrForbidden, "agents cannot bid on their own listings")
	}
	if property.MaxPrice > 0 && (input.OfferAmount < property.MinPrice || input.OfferAmount > property.MaxPrice) {
		return domain.Bid{}, domain.NewError(domain.ErrInvalidArgument,
			fmt.Sprintf("offer must be between %.2f and %.2f", property.MinPrice, property.MaxPrice))
	}

	buyerName := strings.TrimSpace(input.BuyerName)
	if buyerName == "" {
		buyerName = actor.Name
	}

	bid := domain.Bid{
		PropertyID:       property.ID,
		PropertySnapshot: property.Snapshot(),
		AgentID:          property.AgentID,
		AgentEmail:       property.AgentEmail,
		BuyerEmail:       actor.Email,
		BuyerName:        buyerName,
		OfferAmount:      input.OfferAmount,
		Status:           domain.BidPending,
		BuyingDate:       input.BuyingDate,
	}

	if err := s.bidRepo.Create(ctx, &bid); err != nil {
		logger.Error("Failed to create bid", err)
		return domain.Bid{}, err
	}

	metrics.BidTransitions.WithLabelValues("", string(domain.BidPending)).Inc()
	logger.Info("Bid created", "bid_id", bid.ID, "property_id", bid.PropertyID)

	s.notify(property.AgentName, property.AgentEmail,
		"New offer on "+property.Title,
		fmt.Sprintf("%s offered %.2f for %s.", bid.BuyerName, bid.OfferAmount, property.Title))

	return bid, nil
}

// UpdateStatus applies an agent decision or, for "bought", reconciles against the payment record.
func (s *bidService) UpdateStatus(ctx context.Context, actor domain.Actor, id uint, status string) (domain.Bid, error) {
	target, err := domain.ParseBidStatus(status)
	if err != nil {
		return domain.Bid{}, err
	}

	bid, err := s.bidRepo.FindByID(ctx, id)
	if err != nil {
		return domain.Bid{}, err
	}

	switch target {
	case domain.BidBought:
		if !s.isParty(actor, bid) {
			return domain.Bid{}, domain.NewError(domain.ErrForbidden, "you are not a party to this bid")
		}
		bid, _, err = s.MarkBought(ctx, id)
		return bid, err
	case domain.BidPending:
		return domain.Bid{}, domain.NewError(domain.ErrConflict, "a bid cannot return to pending")
	}

	if !actor.CanManage(bid.AgentEmail) {
		return domain.Bid{}, domain.NewError(domain.ErrForbidden, "only the listing agent can decide on this bid")
	}
	if !bid.Status.CanTransition(target) {
		return domain.Bid{}, domain.NewError(domain.ErrConflict, "bid is already "+string(bid.Status))
	}

	rows, err := s.bidRepo.UpdateStatus(ctx, id, domain.BidPending, target)
	if err != nil {
		logger.Error("Failed to update bid status", err)
		return domain.Bid{}, err
	}
	if rows == 0 {
		return domain.Bid{}, domain.NewError(domain.ErrConflict, "bid was already decided")
	}

	metrics.BidTransitions.WithLabelValues(string(domain.BidPending), string(target)).Inc()
	logger.Info("Bid status updated", "bid_id", id, "status", target)

	title, _ := bid.PropertySnapshot["title"].(string)
	s.notify(bid.BuyerName, bid.BuyerEmail,
		"Your offer was "+string(target),
		fmt.Sprintf("Your offer of %.2f for %s was %s.", bid.OfferAmount, title, target))

	bid.Status = target
	return bid, nil
}

// MarkBought moves an accepted bid to bought once a payment is on record.
// The boolean is true when the bid had already been bought.
func (s *bidService) MarkBought(ctx context.Context, id uint) (domain.Bid, bool, error) {
	bid, err := s.bidRepo.FindByID(ctx, id)
	if err != nil {
		return domain.Bid{}, false, err
	}

	if bid.Status == domain.BidBought {
		return bid, true, nil
	}
	if bid.Status != domain.BidAccepted {
		return domain.Bid{}, false, domain.NewError(domain.ErrConflict, "only accepted bids can be bought")
	}

	payment, err := s.paymentRepo.FindByBidID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Bid{}, false, domain.NewError(domain.ErrConflict, "no payment recorded for this bid")
		}
		logger.Error("Failed to look up bid payment", err)
		return domain.Bid{}, false, err
	}

	boughtAt := s.now()
	rows, err := s.bidRepo.MarkBought(ctx, id, payment.TransactionID, boughtAt)
	if err != nil {
		logger.Error("Failed to mark bid bought", err)
		return domain.Bid{}, false, err
	}
	if rows == 0 {
		current, err := s.bidRepo.FindByID(ctx, id)
		if err != nil {
			return domain.Bid{}, false, err
		}
		if current.Status == domain.BidBought {
			return current, true, nil
		}
		return domain.Bid{}, false, domain.NewError(domain.ErrConflict, "bid is already "+string(current.Status))
	}

	metrics.BidTransitions.WithLabelValues(string(domain.BidAccepted), string(domain.BidBought)).Inc()
	logger.Info("Bid bought", "bid_id", id, "transaction_id", payment.TransactionID)

	bid.Status = domain.BidBought
	bid.TransactionID = payment.TransactionID
	bid.BoughtAt = &boughtAt
	return bid, false, nil
}

func (s *bidService) GetBid(ctx context.Context, id uint) (domain.Bid, error) {
	return s.bidRepo.FindByID(ctx, id)
}

// Get returns a bid to its buyer, its agent or an admin.
func (s *bidService) Get(ctx context.Context, actor domain.Actor, id uint) (domain.Bid, error) {
	bid, err := s.bidRepo.FindByID(ctx, id)
	if err != nil {
		return domain.Bid{}, err
	}

	if !s.isParty(actor, bid) {
		return domain.Bid{}, domain.NewError(domain.ErrForbidden, "you are not a party to this bid")
	}

	return bid, nil
}

// ListByBuyer shows the property as it was when the bid was placed.
func (s *bidService) ListByBuyer(ctx context.Context, actor domain.Actor, email string) ([]domain.BidView, error) {
	if !actor.CanManage(email) {
		return nil, domain.NewError(domain.ErrForbidden, "you can only view your own bids")
	}

	bids, err := s.bidRepo.FindByBuyer(ctx, email)
	if err != nil {
		logger.Error("Failed to get buyer bids", err)
		return nil, err
	}

	views := make([]domain.BidView, 0, len(bids))
	for _, b := range bids {
		views = append(views, domain.BidView{Bid: b, Property: b.PropertySnapshot})
	}

	return views, nil
}

// ListByAgent joins each bid with the current listing, falling back to the snapshot once the listing is gone.
func (s *bidService) ListByAgent(ctx context.Context, actor domain.Actor, email string) ([]domain.BidView, error) {
	if !actor.CanManage(email) {
		return nil, domain.NewError(domain.ErrForbidden, "you can only view bids on your own listings")
	}

	bids, err := s.bidRepo.FindByAgent(ctx, email)
	if err != nil {
		logger.Error("Failed to get agent bids", err)
		return nil, err
	}

	ids := make([]uint, 0, len(bids))
	seen := make(map[uint]bool, len(bids))
	for _, b := range bids {
		if !seen[b.PropertyID] {
			seen[b.PropertyID] = true
			ids = append(ids, b.PropertyID)
		}
	}

	properties, err := s.propertyRepo.FindByIDs(ctx, ids)
	if err != nil {
		logger.Error("Failed to load bid properties", err)
		return nil, err
	}

	current := make(map[uint]domain.Property, len(properties))
	for _, p := range properties {
		current[p.ID] = p
	}

	views := make([]domain.BidView, 0, len(bids))
	for _, b := range bids {
		view := domain.BidView{Bid: b, Property: b.PropertySnapshot}
		if p, ok := current[b.PropertyID]; ok {
			view.Property = p.Snapshot()
			view.PropertyFound = true
		}
		views = append(views, view)
	}

	return views, nil
}

func (s *bidService) isParty(actor domain.Actor, bid domain.Bid) bool {
	if actor.IsAdmin() {
		return true
	}
	return actor.Email != "" && (strings.EqualFold(actor.Email, bid.BuyerEmail) || strings.EqualFold(actor.Email, bid.AgentEmail))
}

func (s *bidService) notify(name, email, subject, message string) {
	if s.notifier == nil || email == "" {
		return
	}
	if err := s.notifier.SendEmail(name, email, subject, message); err != nil {
		logger.Warn("Failed to send bid notification", "email", email, "error", err)
	}
}
