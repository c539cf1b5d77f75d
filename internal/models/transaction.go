package models

import "time"

// Transaction represents a financial transaction in the system. The category
// reference is optional and survives category deletion as NULL so that
// history is preserved.
type Transaction struct {
	Base
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	CategoryID  *uint     `json:"category_id,omitempty"`
	Kind        Kind      `gorm:"not null" json:"kind"`
	Amount      float64   `gorm:"type:numeric(15,2);not null" json:"amount"`
	Date        time.Time `gorm:"type:date;not null" json:"date"`
	Description string    `json:"description"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
