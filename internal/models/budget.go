package models

import "time"

// Budget represents a spending cap for a category over an inclusive date
// window. The (user, category, window) tuple is unique; setting a budget
// twice for the same tuple replaces the amount.
type Budget struct {
	Base
	UserID     uint      `gorm:"not null;uniqueIndex:idx_budget_key" json:"user_id"`
	CategoryID uint      `gorm:"not null;uniqueIndex:idx_budget_key" json:"category_id"`
	Amount     float64   `gorm:"type:numeric(15,2);not null" json:"amount"`
	StartDate  time.Time `gorm:"type:date;not null;uniqueIndex:idx_budget_key" json:"start_date"`
	EndDate    time.Time `gorm:"type:date;not null;uniqueIndex:idx_budget_key" json:"end_date"`

	// Relationships
	Category Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"category"`
}
