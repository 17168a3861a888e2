package domain

import "time"

type Payment struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	BidID         uint      `gorm:"column:bid_id;uniqueIndex;not null" json:"bidId"`
	PropertyID    uint      `gorm:"column:property_id;not null" json:"propertyId"`
	PropertyTitle string    `gorm:"column:property_title" json:"propertyTitle"`
	BuyerEmail    string    `gorm:"column:buyer_email;index;not null" json:"email"`
	AgentEmail    string    `gorm:"column:agent_email;index;not null" json:"agentEmail"`
	Amount        float64   `gorm:"column:amount;type:numeric;not null" json:"amount"`
	Currency      string    `gorm:"column:currency;not null" json:"currency"`
	TransactionID string    `gorm:"column:transaction_id;uniqueIndex;not null" json:"transactionId"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (Payment) TableName() string {
	return "payments"
}

// PaymentIntent is the gateway's view of a charge.
type PaymentIntent struct {
	ID           string            `json:"id"`
	ClientSecret string            `json:"clientSecret,omitempty"`
	Amount       int64             `json:"amount"`
	Currency     string            `json:"currency"`
	Status       string            `json:"status"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

const PaymentIntentSucceeded = "succeeded"

// Settlement is the outcome of settling a bid.
type Settlement struct {
	Payment  Payment `json:"payment"`
	Bid      Bid     `json:"bid"`
	Replayed bool    `json:"replayed"`
}

// WebhookEvent is a verified gateway notification. Intent is set for payment intent events.
type WebhookEvent struct {
	ID     string
	Type   string
	Intent *PaymentIntent
}
