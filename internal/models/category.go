package models

// Category represents a transaction category. Name uniqueness per user is a
// convention of the API layer, not a database constraint.
type Category struct {
	Base
	UserID uint   `gorm:"not null;index" json:"user_id"`
	Name   string `gorm:"not null" json:"name"`
	Kind   Kind   `gorm:"not null" json:"kind"`
	Icon   string `json:"icon"`

	// Relationships
	Transactions []Transaction `gorm:"foreignKey:CategoryID" json:"transactions,omitempty"`
	Budgets      []Budget      `gorm:"foreignKey:CategoryID" json:"budgets,omitempty"`
}
