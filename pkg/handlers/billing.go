package handlers

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sahilverma/nursestation-go/pkg/models"
)

// billingError carries an HTTP status out of the billing transaction so
// stock checks can abort with 400/404 instead of a generic 500.
type billingError struct {
	status int
	msg    string
}

func (e *billingError) Error() string { return e.msg }

// ListBilling returns all bills, newest first
func (h *Handler) ListBilling(c *gin.Context) {
	var bills []models.BillingRecord
	if err := h.DB.Order("date DESC, id DESC").Find(&bills).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch bills"})
		return
	}
	c.JSON(http.StatusOK, bills)
}

// CreateBill creates a bill and deducts the billed quantities from
// inventory. Stock checks and deduction run in one transaction; a failed
// bill leaves inventory untouched.
func (h *Handler) CreateBill(c *gin.Context) {
	var req models.BillingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.PaymentStatus == "" {
		req.PaymentStatus = "pending"
	}
	if !validPaymentStatus(req.PaymentStatus) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payment_status must be pending, paid or cancelled"})
		return
	}

	var bill models.BillingRecord
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		today := time.Now().Truncate(24 * time.Hour)
		total := 0.0
		enriched := make([]models.BilledItem, 0, len(req.Items))

		// consolidate duplicate line items before deducting
		needed := make(map[int]int)
		for _, line := range req.Items {
			needed[line.ItemID] += line.Quantity
		}

		for _, line := range req.Items {
			var item models.InventoryItem
			if err := tx.First(&item, line.ItemID).Error; err != nil {
				return &billingError{http.StatusNotFound, fmt.Sprintf("Inventory item ID %d not found", line.ItemID)}
			}
			if item.Quantity < needed[line.ItemID] {
				return &billingError{http.StatusBadRequest, fmt.Sprintf("Insufficient quantity for %s. Available: %d, Requested: %d", item.ItemName, item.Quantity, needed[line.ItemID])}
			}
			if exp, ok := expiryDate(item.ExpiryDate); ok && !exp.After(today) {
				return &billingError{http.StatusBadRequest, fmt.Sprintf("Item %s has expired on %s", item.ItemName, exp.Format(dateLayout))}
			}

			subtotal := item.Price * float64(line.Quantity)
			total += subtotal
			enriched = append(enriched, models.BilledItem{
				ItemID:       item.ID,
				ItemName:     item.ItemName,
				Manufacturer: item.Manufacturer,
				Quantity:     line.Quantity,
				UnitPrice:    item.Price,
				Subtotal:     math.Round(subtotal*100) / 100,
				Unit:         item.Unit,
			})
		}

		for itemID, qty := range needed {
			if err := tx.Model(&models.InventoryItem{}).Where("id = ?", itemID).
				Update("quantity", gorm.Expr("quantity - ?", qty)).Error; err != nil {
				return err
			}
		}

		itemsJSON, err := json.Marshal(enriched)
		if err != nil {
			return err
		}
		bill = models.BillingRecord{
			PatientID:       req.PatientID,
			PatientName:     req.PatientName,
			DoctorName:      req.DoctorName,
			Items:           datatypes.JSON(itemsJSON),
			TotalAmount:     math.Round(total*100) / 100,
			Date:            today.Format(dateLayout),
			TransactionTime: time.Now(),
			PaymentStatus:   req.PaymentStatus,
			PaymentMethod:   req.PaymentMethod,
			Notes:           req.Notes,
		}
		return tx.Create(&bill).Error
	})
	if err != nil {
		if be, ok := err.(*billingError); ok {
			c.JSON(be.status, gin.H{"error": be.msg})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error during bill creation: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, bill)
}

// PendingBills lists bills still awaiting payment
func (h *Handler) PendingBills(c *gin.Context) {
	var bills []models.BillingRecord
	if err := h.DB.Where("payment_status = ?", "pending").Order("date DESC, id DESC").Find(&bills).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch bills"})
		return
	}
	c.JSON(http.StatusOK, bills)
}

// UpdatePaymentStatus changes a bill's payment status, optionally
// recording the payment method
func (h *Handler) UpdatePaymentStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bill ID"})
		return
	}

	status := c.Query("payment_status")
	if !validPaymentStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payment_status must be pending, paid or cancelled"})
		return
	}

	var bill models.BillingRecord
	if err := h.DB.First(&bill, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bill with ID " + c.Param("id") + " not found"})
		return
	}

	bill.PaymentStatus = status
	if method := c.Query("payment_method"); method != "" {
		bill.PaymentMethod = method
	}
	if err := h.DB.Save(&bill).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update bill"})
		return
	}
	c.JSON(http.StatusOK, bill)
}

func validPaymentStatus(s string) bool {
	return s == "pending" || s == "paid" || s == "cancelled"
}
