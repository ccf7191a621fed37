package models

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"not null" json:"name"`
	Description string  `json:"description"`
	Category    string  `gorm:"index" json:"category"`
	Price       float64 `gorm:"not null" json:"price"`
	MRP         float64 `json:"mrp"` // strike-through list price
	Stock       int     `json:"stock"`
	Brand       string  `json:"brand"`
	Unit        string  `json:"unit"` // e.g. "piece", "meter", "box"
	ImageURL    string  `json:"imageUrl"`
	IsFeatured  bool    `gorm:"default:false" json:"isFeatured"`
	IsActive    bool    `gorm:"default:true" json:"isActive"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
