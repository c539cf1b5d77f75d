package models

import "time"

// Base contains common columns for all tables.
// Deletes in this domain are hard deletes: budgets must be recreatable
// under the same (user, category, window) key after removal, and category
// deletion detaches transactions rather than hiding the category row.
type Base struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
