package productcontroller

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Prannav-7/electrostore-client-sub000/models"
	"github.com/Prannav-7/electrostore-client-sub000/validators"
)

// CreateProduct creates a new product from a multipart form with an optional
// image upload (an image_url field is accepted instead for external images).
func CreateProduct(db *gorm.DB, uploadsDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Required fields
		name := c.PostForm("name")
		priceStr := c.PostForm("price")
		category := c.PostForm("category")
		if name == "" || priceStr == "" || category == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "name, price and category are required"})
			return
		}

		if err := validators.ValidatePrice(priceStr); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		price, _ := strconv.ParseFloat(priceStr, 64)

		// Optional fields
		description := c.PostForm("description")
		brand := c.PostForm("brand")
		unit := c.PostForm("unit")
		mrpStr := c.PostForm("mrp")
		stockStr := c.PostForm("stock")
		isFeatured := c.PostForm("is_featured") == "true"

		var mrp float64
		if mrpStr != "" {
			v, err := strconv.ParseFloat(mrpStr, 64)
			if err != nil || v < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid mrp"})
				return
			}
			mrp = v
		}

		var stock int
		if stockStr != "" {
			v, err := strconv.Atoi(stockStr)
			if err != nil || v < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid stock"})
				return
			}
			stock = v
		}

		// Image: uploaded file wins over a provided URL
		imageURL := c.PostForm("image_url")
		if file, err := c.FormFile("image"); err == nil {
			savedURL, saveErr := saveProductImage(c, file, uploadsDir)
			if saveErr != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": saveErr.Error()})
				return
			}
			imageURL = savedURL
		}

		product := models.Product{
			Name:        name,
			Description: description,
			Category:    category,
			Price:       price,
			MRP:         mrp,
			Stock:       stock,
			Brand:       brand,
			Unit:        unit,
			ImageURL:    imageURL,
			IsFeatured:  isFeatured,
			IsActive:    true,
		}

		if err := db.Create(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create product"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"success": true, "data": product})
	}
}

func saveProductImage(c *gin.Context, file *multipart.FileHeader, uploadsDir string) (string, error) {
	filename := strings.ReplaceAll(file.Filename, " ", "_")

	saveDir := filepath.Join(uploadsDir, "products")
	if err := os.MkdirAll(saveDir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create upload folder: %v", err)
	}
	savePath := filepath.Join(saveDir, filename)

	if err := c.SaveUploadedFile(file, savePath); err != nil {
		return "", fmt.Errorf("failed to save image: %v", err)
	}

	// Public URL served by gin's static handler
	return fmt.Sprintf("/uploads/products/%s", filename), nil
}
