package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaintenanceStatus enum constants. The workshop board allows any transition
// in any direction; the flow below is the nominal order only.
const (
	StatusEntered    = "Entered"
	StatusInspected  = "Inspected"
	StatusInProgress = "InProgress"
	StatusFinished   = "Finished"
	StatusDelivered  = "Delivered"
)

// MaintenanceStatuses lists the board columns in workflow order
var MaintenanceStatuses = []string{
	StatusEntered,
	StatusInspected,
	StatusInProgress,
	StatusFinished,
	StatusDelivered,
}

// IsCompletedStatus reports whether the status carries a completion date
func IsCompletedStatus(status string) bool {
	return status == StatusFinished || status == StatusDelivered
}

// MaintenanceRecord tracks one repair/service job through its lifecycle.
// Invariants, recomputed on every save:
//
//	TotalCost == LaborCost + sum(parts price*quantity)
//	RemainingAmount == TotalCost - PaidAmount (negative when overpaid)
//	CompletionDate set iff status is Finished or Delivered
type MaintenanceRecord struct {
	ID              uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	JobNo           string            `gorm:"type:varchar(30);uniqueIndex;not null" json:"job_no"` // JOB-####
	Date            time.Time         `gorm:"not null" json:"date"`                                // intake date
	CompletionDate  *time.Time        `json:"completion_date,omitempty"`
	CustomerID      uuid.UUID         `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer        *Customer         `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	CustomerName    string            `gorm:"type:varchar(255);not null" json:"customer_name"`
	Technician      string            `gorm:"type:varchar(255);not null" json:"technician"`
	DeviceInfo      string            `gorm:"type:varchar(255);not null" json:"device_info"` // boat/engine identification
	ServiceType     string            `gorm:"type:varchar(255)" json:"service_type"`
	InspectionNotes string            `gorm:"type:text" json:"inspection_notes"`
	Status          string            `gorm:"type:varchar(20);not null;default:'Entered';index" json:"status"`
	LaborCost       decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0" json:"labor_cost"`
	Parts           []MaintenancePart `gorm:"foreignKey:RecordID;constraint:OnDelete:CASCADE" json:"parts_used"`
	TotalCost       decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0" json:"total_cost"`
	PaidAmount      decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0" json:"paid_amount"`
	RemainingAmount decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0" json:"remaining_amount"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// MaintenancePart represents a part line consumed by a job. Price defaults to
// the catalog price at the time the part is added but may be overridden.
// Adding a part does not decrement catalog stock.
type MaintenancePart struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RecordID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"record_id"`
	ProductID   *uuid.UUID      `gorm:"type:uuid;index" json:"product_id"`
	ProductCode string          `gorm:"type:varchar(30)" json:"product_code"`
	ProductName string          `gorm:"type:varchar(255);not null" json:"product_name"`
	Quantity    int             `gorm:"type:int;not null" json:"quantity"`
	Price       decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"price"`
}

// LineTotal returns price * quantity for the part
func (p MaintenancePart) LineTotal() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

// PartsTotal sums the line totals of the job's parts
func (m *MaintenanceRecord) PartsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, part := range m.Parts {
		total = total.Add(part.LineTotal())
	}
	return total
}
