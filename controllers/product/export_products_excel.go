package productcontroller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"

	"github.com/Prannav-7/electrostore-client-sub000/models"
)

// GET /api/admin/products/export-excel
func ExportProductsToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []models.Product
		if err := db.Order("id").Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch products"})
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Products")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create sheet"})
			return
		}

		header := sheet.AddRow()
		for _, title := range []string{
			"ID", "Name", "Description", "Category", "Price", "MRP",
			"Stock", "Brand", "Unit", "ImageURL", "Featured", "Active",
		} {
			header.AddCell().SetString(title)
		}

		for _, p := range products {
			row := sheet.AddRow()
			row.AddCell().SetInt(int(p.ID))
			row.AddCell().SetString(p.Name)
			row.AddCell().SetString(p.Description)
			row.AddCell().SetString(p.Category)
			row.AddCell().SetFloat(p.Price)
			row.AddCell().SetFloat(p.MRP)
			row.AddCell().SetInt(p.Stock)
			row.AddCell().SetString(p.Brand)
			row.AddCell().SetString(p.Unit)
			row.AddCell().SetString(p.ImageURL)
			row.AddCell().SetString(yesNo(p.IsFeatured))
			row.AddCell().SetString(yesNo(p.IsActive))
		}

		filename := fmt.Sprintf("Products_Export_%s.xlsx", time.Now().Format("2006-01-02"))
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to write Excel file"})
			return
		}
	}
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
