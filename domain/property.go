package domain

import (
	"time"

	"gorm.io/datatypes"
)

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

func (s VerificationStatus) Valid() bool {
	switch s {
	case VerificationPending, VerificationVerified, VerificationRejected:
		return true
	}
	return false
}

type Property struct {
	ID                 uint               `gorm:"primaryKey" json:"id"`
	AgentID            uint               `gorm:"column:agent_id;index;not null" json:"agentId"`
	AgentEmail         string             `gorm:"column:agent_email;index;not null" json:"agentEmail"`
	AgentName          string             `gorm:"column:agent_name" json:"agentName"`
	AgentPhotoURL      string             `gorm:"column:agent_photo_url" json:"agentPhotoURL"`
	Title              string             `gorm:"column:title;not null" json:"title"`
	Location           string             `gorm:"column:location" json:"location"`
	ImageURL           string             `gorm:"column:image_url" json:"image"`
	MinPrice           float64            `gorm:"column:min_price;type:numeric" json:"minPrice"`
	MaxPrice           float64            `gorm:"column:max_price;type:numeric" json:"maxPrice"`
	Details            datatypes.JSONMap  `gorm:"column:details;type:jsonb" json:"details,omitempty"`
	VerificationStatus VerificationStatus `gorm:"column:verification_status;index;not null;default:pending" json:"verificationStatus"`
	IsAdvertised       bool               `gorm:"column:is_advertised;not null;default:false" json:"isAdvertised"`
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`
}

func (Property) TableName() string {
	return "properties"
}

// Snapshot is the denormalized copy stored on bids and wishlist entries.
func (p Property) Snapshot() datatypes.JSONMap {
	snap := datatypes.JSONMap{
		"id":         p.ID,
		"title":      p.Title,
		"location":   p.Location,
		"image":      p.ImageURL,
		"minPrice":   p.MinPrice,
		"maxPrice":   p.MaxPrice,
		"agentName":  p.AgentName,
		"agentEmail": p.AgentEmail,
	}
	for k, v := range p.Details {
		if _, taken := snap[k]; !taken {
			snap[k] = v
		}
	}

	return snap
}

// PropertyFilter holds the equality filters supported by listing queries.
type PropertyFilter struct {
	AgentEmail         string
	VerificationStatus VerificationStatus
	Advertised         *bool
}

// PropertyChanges are the agent-editable fields. Nil means unchanged.
type PropertyChanges struct {
	Title    *string
	Location *string
	ImageURL *string
	MinPrice *float64
	MaxPrice *float64
	Details  datatypes.JSONMap
}
