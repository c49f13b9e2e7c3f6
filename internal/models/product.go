package models

import "time"

// Product is an item listed under a store. Images keeps the upload order.
type Product struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	StoreID     string    `json:"storeId" gorm:"type:varchar(36);not null;index"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null"`
	Description string    `json:"description" gorm:"type:text"`
	MRP         float64   `json:"mrp" gorm:"column:mrp;not null"`
	Price       float64   `json:"price" gorm:"not null"`
	Category    string    `json:"category" gorm:"type:varchar(100);index"`
	Images      []string  `json:"images" gorm:"type:text;serializer:json"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
