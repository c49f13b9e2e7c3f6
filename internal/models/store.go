package models

import "time"

// Registration states of a store. StoreStatusNotRegistered is reported to
// callers that have no store and is never written to the database.
const (
	StoreStatusNotRegistered = "not registered"
	StoreStatusPending       = "pending"
	StoreStatusApproved      = "approved"
	StoreStatusRejected      = "rejected"
)

// Store is a seller's shop profile. UserID and Username are unique so the
// database, not the handler, is the final word on duplicates.
type Store struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID      string    `json:"userId" gorm:"type:varchar(36);not null;uniqueIndex"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null"`
	Username    string    `json:"username" gorm:"type:varchar(100);not null;uniqueIndex"`
	Description string    `json:"description" gorm:"type:text"`
	Email       string    `json:"email" gorm:"type:varchar(255)"`
	Contact     string    `json:"contact" gorm:"type:varchar(64)"`
	Address     string    `json:"address" gorm:"type:text"`
	Logo        string    `json:"logo" gorm:"type:text"`
	Status      string    `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
