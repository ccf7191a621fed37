package productcontroller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"

	"github.com/Prannav-7/electrostore-client-sub000/models"
)

// POST /api/admin/products/import-excel
// Expected columns:
// ID | Name | Description | Category | Price | MRP | Stock | Brand | Unit | ImageURL | Featured | Active
// Rows with an existing ID update that product; rows without an ID create.
func ImportProductsFromExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		excelFileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Excel file is required"})
			return
		}

		file, err := excelFileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to open Excel file"})
			return
		}
		defer file.Close()

		xlFile, err := xlsx.OpenReaderAt(file, excelFileHeader.Size)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to parse Excel file"})
			return
		}

		if len(xlFile.Sheets) == 0 || xlFile.Sheets[0].MaxRow < 2 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Excel file is empty or missing header row"})
			return
		}

		sheet := xlFile.Sheets[0]
		createdCount, updatedCount, skippedCount := 0, 0, 0

		for i := 1; i < sheet.MaxRow; i++ {
			row := sheet.Rows[i]

			get := func(index int) string {
				if index < len(row.Cells) {
					return strings.TrimSpace(row.Cells[index].String())
				}
				return ""
			}

			idStr := get(0)
			name := get(1)
			description := get(2)
			category := get(3)
			priceStr := get(4)
			mrpStr := get(5)
			stockStr := get(6)
			brand := get(7)
			unit := get(8)
			imageURL := get(9)
			featured := strings.EqualFold(get(10), "yes")
			active := !strings.EqualFold(get(11), "no")

			if name == "" || priceStr == "" {
				skippedCount++
				continue
			}
			price, err := strconv.ParseFloat(priceStr, 64)
			if err != nil || price < 0 {
				skippedCount++
				continue
			}
			mrp, _ := strconv.ParseFloat(mrpStr, 64)
			stock, _ := strconv.Atoi(stockStr)

			if idStr != "" {
				id, err := strconv.ParseUint(idStr, 10, 64)
				if err != nil {
					skippedCount++
					continue
				}
				var product models.Product
				if err := db.First(&product, "id = ?", uint(id)).Error; err != nil {
					skippedCount++
					continue
				}
				product.Name = name
				product.Description = description
				product.Category = category
				product.Price = price
				product.MRP = mrp
				product.Stock = stock
				product.Brand = brand
				product.Unit = unit
				if imageURL != "" {
					product.ImageURL = imageURL
				}
				product.IsFeatured = featured
				product.IsActive = active
				if err := db.Save(&product).Error; err != nil {
					skippedCount++
					continue
				}
				updatedCount++
				continue
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
				IsFeatured:  featured,
				IsActive:    active,
			}
			if err := db.Create(&product).Error; err != nil {
				skippedCount++
				continue
			}
			createdCount++
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"created": createdCount,
				"updated": updatedCount,
				"skipped": skippedCount,
			},
		})
	}
}
