package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod enum constants. Credit sales add to the customer's debt.
const (
	PaymentCash     = "Cash"
	PaymentCheck    = "Check"
	PaymentTransfer = "Transfer"
	PaymentCredit   = "Credit"
)

// SaleStatus enum constants
const (
	SaleCompleted = "Completed"
	SalePending   = "Pending"
)

// InvoiceType enum constants
const (
	InvoiceTypeSale        = "Sale"
	InvoiceTypeMaintenance = "Maintenance"
	InvoiceTypeSupply      = "Supply"
)

// DebtPaymentCode is the pseudo product code carried by the single line item
// of a debt-payment receipt so it prints like a regular invoice.
const DebtPaymentCode = "DEBT-PAYMENT"

// Sale represents a ledger invoice. Immutable once created, except deletion
// (which removes the row only and does not compensate stock or balances).
// Invariant: Total == sum(items price*quantity) + LaborCost.
type Sale struct {
	ID                uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceNo         string          `gorm:"type:varchar(30);uniqueIndex;not null" json:"invoice_no"` // INV-#### or PAY-######
	Date              time.Time       `gorm:"not null;index" json:"date"`
	CustomerID        *uuid.UUID      `gorm:"type:uuid;index" json:"customer_id"` // nil for walk-in customers
	Customer          *Customer       `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	CustomerName      string          `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerType      string          `gorm:"type:varchar(20);not null" json:"customer_type"`
	Items             []SaleItem      `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE" json:"items"`
	LaborCost         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"labor_cost"`
	Total             decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total"`
	PaymentMethod     string          `gorm:"type:varchar(20);not null;index" json:"payment_method"`
	Status            string          `gorm:"type:varchar(20);not null;default:'Completed'" json:"status"`
	InvoiceType       string          `gorm:"type:varchar(20);not null;index" json:"invoice_type"`
	MaintenanceDevice string          `gorm:"type:varchar(255)" json:"maintenance_device,omitempty"`
	Notes             string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy         *uuid.UUID      `gorm:"type:uuid" json:"created_by"`
	Creator           *User           `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// SaleItem represents one invoice line. ProductID is nil for the synthetic
// debt-payment line (ProductCode carries DebtPaymentCode in that case).
type SaleItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SaleID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"sale_id"`
	ProductID   *uuid.UUID      `gorm:"type:uuid;index" json:"product_id"`
	ProductCode string          `gorm:"type:varchar(30)" json:"product_code"`
	ProductName string          `gorm:"type:varchar(255);not null" json:"product_name"`
	Quantity    int             `gorm:"type:int;not null" json:"quantity"`
	Price       decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"price"` // unit price, LYD
}

// LineTotal returns price * quantity for the item
func (i SaleItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ItemsTotal sums the line totals of a sale's items
func (s *Sale) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}
