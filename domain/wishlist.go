package domain

import (
	"time"

	"gorm.io/datatypes"
)

type WishlistItem struct {
	ID               uint              `gorm:"primaryKey" json:"id"`
	UserEmail        string            `gorm:"column:user_email;not null;uniqueIndex:idx_wishlist_user_property" json:"userEmail"`
	PropertyID       uint              `gorm:"column:property_id;not null;uniqueIndex:idx_wishlist_user_property" json:"propertyId"`
	PropertySnapshot datatypes.JSONMap `gorm:"column:property_snapshot;type:jsonb" json:"property"`
	AddedAt          time.Time         `gorm:"column:added_at;autoCreateTime" json:"addedAt"`
}

func (WishlistItem) TableName() string {
	return "wishlists"
}
