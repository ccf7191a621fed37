package adminController

import (
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Prannav-7/electrostore-client-sub000/models"
)

// revenueOrders are the orders that count toward revenue figures:
// everything except cancelled.
func revenueOrders(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Order{}).Where("status <> ?", models.OrderStatusCancelled)
}

// GET /api/admin/analytics/summary
func SalesSummaryHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := revenueOrders(db).Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch orders"})
			return
		}

		var totalRevenue float64
		var pendingCount int64
		for _, order := range orders {
			totalRevenue += order.Summary.Total
			if order.Status == models.OrderStatusPending {
				pendingCount++
			}
		}

		var productCount, customerCount int64
		db.Model(&models.Product{}).Where("is_active = ?", true).Count(&productCount)
		db.Model(&models.User{}).Count(&customerCount)

		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
			"total_orders":   len(orders),
			"total_revenue":  totalRevenue,
			"pending_orders": pendingCount,
			"products":       productCount,
			"customers":      customerCount,
		}})
	}
}

type dailyPoint struct {
	Date    string  `json:"date"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// GET /api/admin/analytics/monthly?year=2026&month=8
// Returns the per-day revenue series plus status and payment-method splits
// for the month, ready for the dashboard charts.
func MonthlySalesHandler(db *gorm.DB) gin.HandlerFunc {
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
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch orders"})
			return
		}

		daily := make(map[string]*dailyPoint)
		statusSplit := make(map[string]int)
		methodSplit := make(map[string]float64)
		var totalRevenue float64

		for _, order := range orders {
			day := order.CreatedAt.UTC().Format("2006-01-02")
			point, exists := daily[day]
			if !exists {
				point = &dailyPoint{Date: day}
				daily[day] = point
			}
			point.Orders++
			point.Revenue += order.Summary.Total
			statusSplit[string(order.Status)]++
			methodSplit[string(order.PaymentMethod)] += order.Summary.Total
			totalRevenue += order.Summary.Total
		}

		series := make([]dailyPoint, 0, len(daily))
		for _, point := range daily {
			series = append(series, *point)
		}
		sort.Slice(series, func(i, j int) bool { return series[i].Date < series[j].Date })

		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
			"year":           year,
			"month":          month,
			"total_orders":   len(orders),
			"total_revenue":  totalRevenue,
			"daily":          series,
			"status_split":   statusSplit,
			"method_revenue": methodSplit,
		}})
	}
}

type topProduct struct {
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"name"`
	Quantity    int     `json:"quantity"`
	Revenue     float64 `json:"revenue"`
}

// GET /api/admin/analytics/top-products?limit=5
func TopProductsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 5
		if raw := c.Query("limit"); raw != "" {
			if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 50 {
				limit = v
			}
		}

		var items []models.OrderItem
		if err := db.Find(&items).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch order items"})
			return
		}

		byProduct := make(map[uint]*topProduct)
		for _, item := range items {
			entry, exists := byProduct[item.ProductID]
			if !exists {
				entry = &topProduct{ProductID: item.ProductID, ProductName: item.ProductName}
				byProduct[item.ProductID] = entry
			}
			entry.Quantity += item.Quantity
			entry.Revenue += item.Price * float64(item.Quantity)
		}

		ranked := make([]topProduct, 0, len(byProduct))
		for _, entry := range byProduct {
			ranked = append(ranked, *entry)
		}
		sort.Slice(ranked, func(i, j int) bool { return ranked[i].Revenue > ranked[j].Revenue })
		if len(ranked) > limit {
			ranked = ranked[:limit]
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": ranked})
	}
}

func parseYearMonth(c *gin.Context, now time.Time) (int, int, bool) {
	year := now.Year()
	month := int(now.Month())

	if raw := c.Query("year"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 2000 || v > 2100 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid year"})
			return 0, 0, false
		}
		year = v
	}
	if raw := c.Query("month"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 12 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid month"})
			return 0, 0, false
		}
		month = v
	}
	return year, month, true
}
