package models

import "time"

type Cart struct {
	CartID    uint       `gorm:"primaryKey" json:"cart_id"`
	UserID    string     `gorm:"uniqueIndex" json:"user_id"`                    // Enforces ONE cart per user
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"` // Cascade delete items if cart is deleted
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartItem snapshots the product at add-to-cart time so later catalog edits
// do not rewrite what the customer saw.
type CartItem struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CartID       uint      `gorm:"index" json:"cart_id"`
	ProductID    uint      `json:"product_id"`
	ProductName  string    `json:"name"`
	ProductImage string    `json:"image"`
	ProductStock int       `json:"product_stock"`
	Price        float64   `json:"price"`
	MRP          float64   `json:"mrp"`
	Quantity     int       `json:"quantity"` // always >= 1
	AddedAt      time.Time `json:"added_at"`
}
