package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahilverma/nursestation-go/pkg/models"
)

func billPayload(items ...models.BillingItemRequest) models.BillingRequest {
	return models.BillingRequest{
		PatientID:   "P001",
		PatientName: "Jane Roe",
		DoctorName:  "Dr. Smith",
		Items:       items,
	}
}

func TestCreateBillDeductsStock(t *testing.T) {
	h, r := newTestHandler(t)
	item := seedItem(t, h, models.InventoryItem{ItemName: "Bandage", Manufacturer: "A", Price: 2.5, Quantity: 10})

	w := doJSON(t, r, http.MethodPost, "/billing/", billPayload(models.BillingItemRequest{ItemID: item.ID, Quantity: 4}))
	require.Equal(t, http.StatusCreated, w.Code)

	bill := decodeBody[models.BillingRecord](t, w)
	assert.Equal(t, 10.0, bill.TotalAmount)
	assert.Equal(t, "pending", bill.PaymentStatus)
	assert.Equal(t, time.Now().Format(dateLayout), bill.Date)

	var lines []models.BilledItem
	require.NoError(t, json.Unmarshal(bill.Items, &lines))
	require.Len(t, lines, 1)
	assert.Equal(t, "Bandage", lines[0].ItemName)
	assert.Equal(t, 2.5, lines[0].UnitPrice)
	assert.Equal(t, 10.0, lines[0].Subtotal)

	var stored models.InventoryItem
	require.NoError(t, h.DB.First(&stored, item.ID).Error)
	assert.Equal(t, 6, stored.Quantity)
}

func TestCreateBillInsufficientStock(t *testing.T) {
	h, r := newTestHandler(t)
	item := seedItem(t, h, models.InventoryItem{ItemName: "Syringe", Manufacturer: "A", Price: 1, Quantity: 3})

	w := doJSON(t, r, http.MethodPost, "/billing/", billPayload(models.BillingItemRequest{ItemID: item.ID, Quantity: 5}))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Insufficient quantity")

	// stock untouched, nothing persisted
	var stored models.InventoryItem
	require.NoError(t, h.DB.First(&stored, item.ID).Error)
	assert.Equal(t, 3, stored.Quantity)
	var count int64
	h.DB.Model(&models.BillingRecord{}).Count(&count)
	assert.Zero(t, count)
}

func TestCreateBillUnknownItem(t *testing.T) {
	_, r := newTestHandler(t)

	w := doJSON(t, r, http.MethodPost, "/billing/", billPayload(models.BillingItemRequest{ItemID: 42, Quantity: 1}))
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not found")
}

func TestCreateBillExpiredItem(t *testing.T) {
	h, r := newTestHandler(t)
	item := seedItem(t, h, models.InventoryItem{ItemName: "Old Serum", Manufacturer: "A", Price: 5, Quantity: 10,
		ExpiryDate: time.Now().AddDate(0, 0, -1).Format(dateLayout)})

	w := doJSON(t, r, http.MethodPost, "/billing/", billPayload(models.BillingItemRequest{ItemID: item.ID, Quantity: 1}))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "expired")
}

func TestCreateBillFailureRollsBackDeductions(t *testing.T) {
	h, r := newTestHandler(t)
	good := seedItem(t, h, models.InventoryItem{ItemName: "Good", Manufacturer: "A", Price: 1, Quantity: 10})
	low := seedItem(t, h, models.InventoryItem{ItemName: "Scarce", Manufacturer: "A", Price: 1, Quantity: 1})

	w := doJSON(t, r, http.MethodPost, "/billing/", billPayload(
		models.BillingItemRequest{ItemID: good.ID, Quantity: 5},
		models.BillingItemRequest{ItemID: low.ID, Quantity: 2},
	))
	require.Equal(t, http.StatusBadRequest, w.Code)

	var stored models.InventoryItem
	require.NoError(t, h.DB.First(&stored, good.ID).Error)
	assert.Equal(t, 10, stored.Quantity)
}

func TestCreateBillConsolidatesDuplicateLines(t *testing.T) {
	h, r := newTestHandler(t)
	item := seedItem(t, h, models.InventoryItem{ItemName: "Mask", Manufacturer: "A", Price: 1, Quantity: 5})

	// two lines of 3 for a stock of 5 must be rejected as a whole
	w := doJSON(t, r, http.MethodPost, "/billing/", billPayload(
		models.BillingItemRequest{ItemID: item.ID, Quantity: 3},
		models.BillingItemRequest{ItemID: item.ID, Quantity: 3},
	))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Insufficient quantity")
}

func TestListBillingNewestFirst(t *testing.T) {
	h, r := newTestHandler(t)
	require.NoError(t, h.DB.Create(&models.BillingRecord{PatientID: "P1", PatientName: "A", Date: "2026-08-01", PaymentStatus: "paid"}).Error)
	require.NoError(t, h.DB.Create(&models.BillingRecord{PatientID: "P2", PatientName: "B", Date: "2026-08-20", PaymentStatus: "pending"}).Error)

	w := doJSON(t, r, http.MethodGet, "/billing/", nil)
	require.Equal(t, http.StatusOK, w.Code)

	bills := decodeBody[[]models.BillingRecord](t, w)
	require.Len(t, bills, 2)
	assert.Equal(t, "2026-08-20", bills[0].Date)
}

func TestPendingBills(t *testing.T) {
	h, r := newTestHandler(t)
	require.NoError(t, h.DB.Create(&models.BillingRecord{PatientID: "P1", PatientName: "A", Date: "2026-08-01", PaymentStatus: "paid"}).Error)
	require.NoError(t, h.DB.Create(&models.BillingRecord{PatientID: "P2", PatientName: "B", Date: "2026-08-20", PaymentStatus: "pending"}).Error)

	w := doJSON(t, r, http.MethodGet, "/billing/pending/", nil)
	require.Equal(t, http.StatusOK, w.Code)

	bills := decodeBody[[]models.BillingRecord](t, w)
	require.Len(t, bills, 1)
	assert.Equal(t, "P2", bills[0].PatientID)
}

func TestUpdatePaymentStatus(t *testing.T) {
	h, r := newTestHandler(t)
	require.NoError(t, h.DB.Create(&models.BillingRecord{PatientID: "P1", PatientName: "A", Date: "2026-08-01", PaymentStatus: "pending"}).Error)

	w := doJSON(t, r, http.MethodPut, "/billing/1/payment?payment_status=paid&payment_method=card", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stored models.BillingRecord
	require.NoError(t, h.DB.First(&stored, 1).Error)
	assert.Equal(t, "paid", stored.PaymentStatus)
	assert.Equal(t, "card", stored.PaymentMethod)
}

func TestUpdatePaymentStatusValidation(t *testing.T) {
	h, r := newTestHandler(t)
	require.NoError(t, h.DB.Create(&models.BillingRecord{PatientID: "P1", PatientName: "A", Date: "2026-08-01", PaymentStatus: "pending"}).Error)

	w := doJSON(t, r, http.MethodPut, "/billing/1/payment?payment_status=refunded", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPut, "/billing/99/payment?payment_status=paid", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateBillRejectsBadStatus(t *testing.T) {
	h, r := newTestHandler(t)
	item := seedItem(t, h, models.InventoryItem{ItemName: "Tape", Manufacturer: "A", Price: 1, Quantity: 5})

	payload := billPayload(models.BillingItemRequest{ItemID: item.ID, Quantity: 1})
	payload.PaymentStatus = "refunded"
	w := doJSON(t, r, http.MethodPost, "/billing/", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
