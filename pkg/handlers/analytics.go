package handlers

import (
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sahilverma/nursestation-go/pkg/models"
)

// Dashboard summarizes inventory health and the last 30 days of billing
func (h *Handler) Dashboard(c *gin.Context) {
	var totalItems, outOfStock int64
	if err := h.DB.Model(&models.InventoryItem{}).Count(&totalItems).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch inventory stats"})
		return
	}
	h.DB.Model(&models.InventoryItem{}).Where("quantity <= 0").Count(&outOfStock)

	lowStock, err := h.lowStockItems()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch inventory stats"})
		return
	}
	expiring, err := h.expiringItems(30)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch inventory stats"})
		return
	}

	cutoff := time.Now().AddDate(0, 0, -30).Format(dateLayout)
	var recentBills []models.BillingRecord
	if err := h.DB.Where("date >= ?", cutoff).Find(&recentBills).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch billing stats"})
		return
	}

	revenue := 0.0
	pending := 0
	for _, bill := range recentBills {
		if bill.PaymentStatus != "cancelled" {
			revenue += bill.TotalAmount
		}
		if bill.PaymentStatus == "pending" {
			pending++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"inventory": gin.H{
			"total_items":   totalItems,
			"low_stock":     len(lowStock),
			"expiring_soon": len(expiring),
			"out_of_stock":  outOfStock,
		},
		"billing": gin.H{
			"total_bills_30d":   len(recentBills),
			"total_revenue_30d": math.Round(revenue*100) / 100,
			"pending_bills":     pending,
		},
	})
}

// InventoryAlerts returns the expiring and low-stock item lists in the
// compact shape the dashboard widgets render
func (h *Handler) InventoryAlerts(c *gin.Context) {
	expiring, err := h.expiringItems(30)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch inventory"})
		return
	}
	lowStock, err := h.lowStockItems()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch inventory"})
		return
	}

	formattedExpiring := make([]gin.H, 0, len(expiring))
	for _, item := range expiring {
		formattedExpiring = append(formattedExpiring, gin.H{
			"id":                item.ID,
			"name":              item.ItemName,
			"expiry_date":       item.ExpiryDate,
			"days_until_expiry": item.DaysUntilExpiry,
			"quantity":          item.Quantity,
		})
	}
	formattedLowStock := make([]gin.H, 0, len(lowStock))
	for _, item := range lowStock {
		formattedLowStock = append(formattedLowStock, gin.H{
			"id":            item.ID,
			"name":          item.ItemName,
			"quantity":      item.Quantity,
			"reorder_level": item.ReorderLevel,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"expiring_soon": formattedExpiring,
		"low_stock":     formattedLowStock,
	})
}
