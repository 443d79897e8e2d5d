package models

import (
	"time"

	"gorm.io/datatypes"
)

// InventoryItem is a stocked consumable or piece of equipment.
type InventoryItem struct {
	ID           int     `gorm:"primaryKey" json:"id"`
	ItemName     string  `gorm:"not null" json:"item_name" binding:"required"`
	Manufacturer string  `gorm:"not null" json:"manufacturer" binding:"required"`
	Price        float64 `json:"price" binding:"required,gt=0"`
	Quantity     int     `json:"quantity" binding:"gte=0"`
	ExpiryDate   string  `json:"expiry_date"`
	Category     string  `json:"category"`
	Unit         string  `json:"unit"`
	ReorderLevel int     `json:"reorder_level" binding:"gte=0"`
	Notes        string  `json:"notes"`

	CreatedAt   time.Time `json:"created_at"`
	LastUpdated time.Time `gorm:"autoUpdateTime" json:"last_updated"`
}

// BillingItemRequest references an inventory item and a quantity on an
// incoming bill.
type BillingItemRequest struct {
	ItemID   int `json:"item_id" binding:"required,gt=0"`
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

// BillingRequest is the client payload for creating a bill.
type BillingRequest struct {
	PatientID     string               `json:"patient_id" binding:"required"`
	PatientName   string               `json:"patient_name" binding:"required"`
	DoctorName    string               `json:"doctor_name" binding:"required"`
	Items         []BillingItemRequest `json:"items" binding:"required,min=1"`
	PaymentStatus string               `json:"payment_status"`
	PaymentMethod string               `json:"payment_method"`
	Notes         string               `json:"notes"`
}

// BilledItem is a line item on a stored bill, enriched with the inventory
// snapshot at billing time.
type BilledItem struct {
	ItemID       int     `json:"item_id"`
	ItemName     string  `json:"item_name"`
	Manufacturer string  `json:"manufacturer"`
	Quantity     int     `json:"quantity"`
	UnitPrice    float64 `json:"unit_price"`
	Subtotal     float64 `json:"subtotal"`
	Unit         string  `json:"unit"`
}

// BillingRecord is a persisted bill. Line items are stored as a JSON column
// since they are only ever read back as a whole.
type BillingRecord struct {
	ID              int            `gorm:"primaryKey" json:"id"`
	PatientID       string         `gorm:"not null" json:"patient_id"`
	PatientName     string         `gorm:"not null" json:"patient_name"`
	DoctorName      string         `json:"doctor_name"`
	Items           datatypes.JSON `json:"items"`
	TotalAmount     float64        `json:"total_amount"`
	Date            string         `gorm:"index" json:"date"`
	TransactionTime time.Time      `json:"transaction_time"`
	PaymentStatus   string         `gorm:"default:pending" json:"payment_status"`
	PaymentMethod   string         `json:"payment_method"`
	Notes           string         `json:"notes"`
}

// Protocol holds the metadata for an uploaded clinical protocol. The full
// text lives in ProtocolChunks.
type Protocol struct {
	ID             int       `gorm:"primaryKey" json:"id"`
	Title          string    `gorm:"not null" json:"title"`
	Category       string    `json:"category"`
	Tags           string    `json:"tags"`
	ContentPreview string    `json:"content_preview"`
	Filename       string    `json:"filename"`
	ChunkCount     int       `json:"chunk_count"`
	CreatedAt      time.Time `json:"created_at"`
	LastUpdated    time.Time `gorm:"autoUpdateTime" json:"last_updated"`
}

// ProtocolChunks stores the chunked full text of one protocol as a JSON
// array of strings.
type ProtocolChunks struct {
	ProtocolID int            `gorm:"primaryKey" json:"protocol_id"`
	Chunks     datatypes.JSON `json:"chunks"`
}

// ProtocolInput is the client payload for adding a protocol by hand.
type ProtocolInput struct {
	Title    string `json:"title" binding:"required"`
	Category string `json:"category"`
	Content  string `json:"content" binding:"required"`
	Tags     string `json:"tags"`
}

// ProtocolQuery is a free-text question over the stored protocols.
type ProtocolQuery struct {
	Question string `json:"question" binding:"required"`
}
