package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SupplyInvoice records a container/shipment intake from a supplier.
// Invariants: TotalUSD == sum(items cost_usd*quantity) and
// TotalLYD == sum(items price_lyd*quantity). Receiving increments matching
// product stock and overwrites the product's cost/price with the invoice's
// per-item values (last-write-wins pricing update).
type SupplyInvoice struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceNo    string          `gorm:"type:varchar(40);uniqueIndex;not null" json:"invoice_no"` // SUP-<timestamp>
	Date         time.Time       `gorm:"not null;index" json:"date"`
	SupplierID   *uuid.UUID      `gorm:"type:uuid;index" json:"supplier_id"`
	Supplier     *Supplier       `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	SupplierName string          `gorm:"type:varchar(255);not null" json:"supplier_name"`
	Items        []SupplyItem    `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items"`
	TotalUSD     decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total_usd"`
	TotalLYD     decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total_lyd"`
	Notes        string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy    *uuid.UUID      `gorm:"type:uuid" json:"created_by"`
	Creator      *User           `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// SupplyItem is one received product line with its USD cost and new LYD price
type SupplyItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductCode string          `gorm:"type:varchar(30)" json:"product_code"`
	ProductName string          `gorm:"type:varchar(255);not null" json:"product_name"`
	Quantity    int             `gorm:"type:int;not null" json:"quantity"`
	CostUSD     decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"cost_usd"`
	PriceLYD    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"price_lyd"`
}
