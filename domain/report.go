package domain

import "time"

type PropertyReport struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	PropertyID    uint      `gorm:"column:property_id;index;not null" json:"propertyId"`
	PropertyTitle string    `gorm:"column:property_title" json:"propertyTitle"`
	AgentEmail    string    `gorm:"column:agent_email" json:"agentEmail"`
	ReporterName  string    `gorm:"column:reporter_name" json:"reporterName"`
	ReporterEmail string    `gorm:"column:reporter_email;not null" json:"reporterEmail"`
	Description   string    `gorm:"column:description;type:text;not null" json:"reportDescription"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (PropertyReport) TableName() string {
	return "property_reports"
}
