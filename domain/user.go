package domain

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAgent = "agent"
	RoleAdmin = "admin"
)

var validRoles = map[string]bool{
	RoleUser:  true,
	RoleAgent: true,
	RoleAdmin: true,
}

// IsValidRole reports whether role is one of the enumerated roles.
func IsValidRole(role string) bool {
	return validRoles[role]
}

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"column:name" json:"name"`
	Email     string    `gorm:"column:email;uniqueIndex;not null" json:"email"`
	PhotoURL  string    `gorm:"column:photo_url" json:"photoURL"`
	Role      string    `gorm:"column:role;not null;default:user" json:"role"`
	IsFraud   bool      `gorm:"column:is_fraud;not null;default:false" json:"isFraud"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}
