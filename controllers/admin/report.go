package adminController

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
	"gorm.io/gorm"

	"github.com/Prannav-7/electrostore-client-sub000/models"
)

// GET /api/admin/reports/monthly?year=2026&month=8
// Streams the monthly sales report as a PDF with a deterministic filename:
// Monthly_Sales_Report_<YYYY-MM-DD>.pdf (first day of the reported month).
func MonthlySalesReportHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		year, month, ok := parseYearMonth(c, now)
		if !ok {
			return
		}

		start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 1, 0)

		var orders []models.Order
		if err := revenueOrders(db).
			Where("created_at >= ? AND created_at < ?", start, end).
			Order("created_at").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch orders"})
			return
		}

		var totalRevenue float64
		var totalItems int
		for _, order := range orders {
			totalRevenue += order.Summary.Total
			totalItems += order.Summary.ItemCount
		}

		pdf := gofpdf.New("P", "mm", "A4", "")
		pdf.SetTitle("Monthly Sales Report", false)
		pdf.AddPage()

		// Header
		pdf.SetFont("Arial", "B", 16)
		pdf.Cell(0, 10, "ElectroStore - Monthly Sales Report")
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 11)
		pdf.Cell(0, 8, fmt.Sprintf("Period: %s", start.Format("January 2006")))
		pdf.Ln(6)
		pdf.Cell(0, 8, fmt.Sprintf("Generated: %s", now.Format("2006-01-02 15:04")))
		pdf.Ln(10)

		// Summary lines
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 8, "Summary")
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 11)
		pdf.Cell(0, 7, fmt.Sprintf("Total orders: %d", len(orders)))
		pdf.Ln(6)
		pdf.Cell(0, 7, fmt.Sprintf("Total items sold: %d", totalItems))
		pdf.Ln(6)
		pdf.Cell(0, 7, fmt.Sprintf("Total revenue: Rs. %.2f", totalRevenue))
		pdf.Ln(10)

		// Tabular body
		pdf.SetFont("Arial", "B", 10)
		colWidths := []float64{40, 30, 35, 30, 25, 30}
		headers := []string{"Order No.", "Date", "Customer", "Method", "Status", "Total"}
		for i, title := range headers {
			pdf.CellFormat(colWidths[i], 8, title, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 9)
		for _, order := range orders {
			orderNo := order.OrderNumber
			if len(orderNo) > 20 {
				orderNo = orderNo[:20]
			}
			customer := order.CustomerDetails.Name
			if len(customer) > 18 {
				customer = customer[:18]
			}
			cells := []string{
				orderNo,
				order.CreatedAt.Format("2006-01-02"),
				customer,
				string(order.PaymentMethod),
				string(order.Status),
				fmt.Sprintf("%.2f", order.Summary.Total),
			}
			for i, value := range cells {
				pdf.CellFormat(colWidths[i], 7, value, "1", 0, "L", false, 0, "")
			}
			pdf.Ln(-1)
		}

		filename := fmt.Sprintf("Monthly_Sales_Report_%s.pdf", start.Format("2006-01-02"))
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
		c.Header("Content-Type", "application/pdf")

		if err := pdf.Output(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to write PDF"})
			return
		}
	}
}
