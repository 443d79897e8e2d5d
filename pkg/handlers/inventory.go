package handlers

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sahilverma/nursestation-go/pkg/models"
)

const dateLayout = "2006-01-02"

// expiryDate parses the date part of an expiry string. Timestamps with a
// time component are tolerated; only the date matters.
func expiryDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	datePart := strings.SplitN(s, "T", 2)[0]
	t, err := time.Parse(dateLayout, datePart)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ListInventory returns all items sorted by name
func (h *Handler) ListInventory(c *gin.Context) {
	var items []models.InventoryItem
	if err := h.DB.Order("LOWER(item_name)").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch inventory"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// ListAvailableInventory returns in-stock, unexpired items in the compact
// shape the billing UI consumes
func (h *Handler) ListAvailableInventory(c *gin.Context) {
	var items []models.InventoryItem
	if err := h.DB.Where("quantity > 0").Order("LOWER(item_name)").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch inventory"})
		return
	}

	today := time.Now().Truncate(24 * time.Hour)
	available := make([]gin.H, 0, len(items))
	for _, item := range items {
		if exp, ok := expiryDate(item.ExpiryDate); ok && !exp.After(today) {
			continue
		}
		category := item.Category
		if category == "" {
			category = "General"
		}
		unit := item.Unit
		if unit == "" {
			unit = "units"
		}
		available = append(available, gin.H{
			"id":                 item.ID,
			"item_name":          item.ItemName,
			"manufacturer":       item.Manufacturer,
			"price":              item.Price,
			"quantity_available": item.Quantity,
			"unit":               unit,
			"category":           category,
		})
	}
	c.JSON(http.StatusOK, available)
}

// AddInventoryItem creates an item; names are unique case-insensitively
func (h *Handler) AddInventoryItem(c *gin.Context) {
	var item models.InventoryItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if item.ExpiryDate != "" {
		exp, ok := expiryDate(item.ExpiryDate)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid expiry date format. Use YYYY-MM-DD"})
			return
		}
		item.ExpiryDate = exp.Format(dateLayout)
	}
	if item.Unit == "" {
		item.Unit = "units"
	}

	var count int64
	h.DB.Model(&models.InventoryItem{}).Where("LOWER(item_name) = ?", strings.ToLower(item.ItemName)).Count(&count)
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Item with this name already exists"})
		return
	}

	item.ID = 0
	item.CreatedAt = time.Now()
	if err := h.DB.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create item"})
		return
	}
	c.JSON(http.StatusCreated, item)
}

// UpdateInventoryItem replaces the stored fields of an existing item
func (h *Handler) UpdateInventoryItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	var existing models.InventoryItem
	if err := h.DB.First(&existing, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item with ID " + c.Param("id") + " not found"})
		return
	}

	var update models.InventoryItem
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if update.ExpiryDate != "" {
		exp, ok := expiryDate(update.ExpiryDate)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid expiry date format. Use YYYY-MM-DD"})
			return
		}
		update.ExpiryDate = exp.Format(dateLayout)
	}

	update.ID = existing.ID
	update.CreatedAt = existing.CreatedAt
	if err := h.DB.Save(&update).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update item"})
		return
	}
	c.JSON(http.StatusOK, update)
}

// DeleteInventoryItem removes an item by ID
func (h *Handler) DeleteInventoryItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	res := h.DB.Delete(&models.InventoryItem{}, id)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete item"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item with ID " + c.Param("id") + " not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully"})
}

// ExpiringInventory lists items expiring within ?days (default 30),
// soonest first. Already expired items are not included.
func (h *Handler) ExpiringInventory(c *gin.Context) {
	days := 30
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 365 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be between 1 and 365"})
			return
		}
		days = parsed
	}

	expiring, err := h.expiringItems(days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch inventory"})
		return
	}
	c.JSON(http.StatusOK, expiring)
}

type expiringItem struct {
	models.InventoryItem
	DaysUntilExpiry int `json:"days_until_expiry"`
}

func (h *Handler) expiringItems(days int) ([]expiringItem, error) {
	var items []models.InventoryItem
	if err := h.DB.Where("expiry_date <> ''").Find(&items).Error; err != nil {
		return nil, err
	}

	today := time.Now().Truncate(24 * time.Hour)
	target := today.AddDate(0, 0, days)
	expiring := make([]expiringItem, 0)
	for _, item := range items {
		exp, ok := expiryDate(item.ExpiryDate)
		if !ok || !exp.After(today) || exp.After(target) {
			continue
		}
		expiring = append(expiring, expiringItem{
			InventoryItem:   item,
			DaysUntilExpiry: int(exp.Sub(today).Hours() / 24),
		})
	}
	// soonest expiry first
	sort.Slice(expiring, func(i, j int) bool {
		return expiring[i].DaysUntilExpiry < expiring[j].DaysUntilExpiry
	})
	return expiring, nil
}

// LowStockInventory lists items at or below their reorder level
func (h *Handler) LowStockInventory(c *gin.Context) {
	items, err := h.lowStockItems()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch inventory"})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) lowStockItems() ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	err := h.DB.Where("quantity <= reorder_level").Find(&items).Error
	return items, err
}
