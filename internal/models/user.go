package models

// User represents the user model in the database
type User struct {
	Base
	Username        string   `gorm:"uniqueIndex;not null" json:"username"`
	Email           string   `gorm:"uniqueIndex;not null" json:"email"`
	Password        string   `gorm:"not null" json:"-"`
	DefaultCurrency string   `gorm:"size:3;default:VND" json:"default_currency"`
	MonthlyLimit    *float64 `gorm:"type:numeric(15,2)" json:"monthly_limit"`

	Categories   []Category    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"categories,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"transactions,omitempty"`
	Budgets      []Budget      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"budgets,omitempty"`
}
