package domain

import (
	"time"

	"gorm.io/datatypes"
)

type BidStatus string

const (
	BidPending  BidStatus = "pending"
	BidAccepted BidStatus = "accepted"
	BidRejected BidStatus = "rejected"
	BidBought   BidStatus = "bought"
)

// ParseBidStatus accepts only the enumerated statuses.
func ParseBidStatus(s string) (BidStatus, error) {
	switch BidStatus(s) {
	case BidPending, BidAccepted, BidRejected, BidBought:
		return BidStatus(s), nil
	}

	return "", NewError(ErrInvalidArgument, "invalid bid status: "+s)
}

// CanTransition encodes pending -> {accepted, rejected} -> bought (from accepted only).
func (s BidStatus) CanTransition(to BidStatus) bool {
	switch s {
	case BidPending:
		return to == BidAccepted || to == BidRejected
	case BidAccepted:
		return to == BidBought
	}

	return false
}

func (s BidStatus) IsTerminal() bool {
	return s == BidRejected || s == BidBought
}

type Bid struct {
	ID               uint              `gorm:"primaryKey" json:"id"`
	PropertyID       uint              `gorm:"column:property_id;index;not null" json:"propertyId"`
	PropertySnapshot datatypes.JSONMap `gorm:"column:property_snapshot;type:jsonb" json:"property"`
	AgentID          uint              `gorm:"column:agent_id;not null" json:"agentId"`
	AgentEmail       string            `gorm:"column:agent_email;index;not null" json:"agentEmail"`
	BuyerEmail       string            `gorm:"column:buyer_email;index;not null" json:"buyerEmail"`
	BuyerName        string            `gorm:"column:buyer_name" json:"buyerName"`
	OfferAmount      float64           `gorm:"column:offer_amount;type:numeric;not null" json:"offerAmount"`
	Status           BidStatus         `gorm:"column:status;index;not null;default:pending" json:"status"`
	BuyingDate       *time.Time        `gorm:"column:buying_date" json:"buyingDate,omitempty"`
	TransactionID    string            `gorm:"column:transaction_id" json:"transactionId,omitempty"`
	BoughtAt         *time.Time        `gorm:"column:bought_at" json:"boughtAt,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

func (Bid) TableName() string {
	return "bids"
}

// BidView is a bid joined with property data for listing endpoints.
type BidView struct {
	Bid
	Property      datatypes.JSONMap `json:"property"`
	PropertyFound bool              `json:"propertyFound"`
}
