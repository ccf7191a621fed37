package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Prannav-7/electrostore-client-sub000/models"
)

type UpdateProductInput struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Price       *float64 `json:"price"`
	MRP         *float64 `json:"mrp"`
	Stock       *int     `json:"stock"`
	Brand       *string  `json:"brand"`
	Unit        *string  `json:"unit"`
	ImageURL    *string  `json:"imageUrl"`
	IsFeatured  *bool    `json:"isFeatured"`
	IsActive    *bool    `json:"isActive"`
}

// PUT /api/admin/products/:id — partial update; stock and price are the
// fields most often touched outside full edits.
func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Product ID is required"})
			return
		}

		var product models.Product
		if err := db.First(&product, "id = ?", id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
			return
		}

		var input UpdateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}

		updates := make(map[string]interface{})
		if input.Name != nil {
			updates["name"] = *input.Name
		}
		if input.Description != nil {
			updates["description"] = *input.Description
		}
		if input.Category != nil {
			updates["category"] = *input.Category
		}
		if input.Price != nil {
			if *input.Price < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "price must be greater than or equal to 0"})
				return
			}
			updates["price"] = *input.Price
		}
		if input.MRP != nil {
			updates["mrp"] = *input.MRP
		}
		if input.Stock != nil {
			if *input.Stock < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "stock cannot be negative"})
				return
			}
			updates["stock"] = *input.Stock
		}
		if input.Brand != nil {
			updates["brand"] = *input.Brand
		}
		if input.Unit != nil {
			updates["unit"] = *input.Unit
		}
		if input.ImageURL != nil {
			updates["image_url"] = *input.ImageURL
		}
		if input.IsFeatured != nil {
			updates["is_featured"] = *input.IsFeatured
		}
		if input.IsActive != nil {
			updates["is_active"] = *input.IsActive
		}

		if len(updates) > 0 {
			if err := db.Model(&product).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update product"})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": product})
	}
}
