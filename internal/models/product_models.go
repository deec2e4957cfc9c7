package models

import "time"

// Product is an inventory item sold at the front desk.
type Product struct {
	ProductID     int64     `json:"productId"`
	Name          string    `json:"name" binding:"required"`
	Category      *string   `json:"category,omitempty"`
	Price         float64   `json:"price"`
	StockQuantity int       `json:"stockQuantity"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
