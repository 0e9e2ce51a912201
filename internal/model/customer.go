package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CustomerType enum constants
const (
	CustomerPermanent = "Permanent"
	CustomerWalkIn    = "WalkIn"
)

// Customer represents a registered client of the company.
// Balance is a signed LYD ledger value: negative means the customer owes the
// company, positive means the company owes the customer credit. It is mutated
// only by debt-payment confirmation and by the manual edit endpoint.
type Customer struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code      string          `gorm:"type:varchar(30);uniqueIndex;not null" json:"code"` // e.g. C001
	Name      string          `gorm:"type:varchar(255);not null" json:"name"`
	Contact   string          `gorm:"type:varchar(100)" json:"contact"`
	Type      string          `gorm:"type:varchar(20);not null;default:'Permanent'" json:"type"`
	Balance   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`
}

// OwesCompany reports whether the customer carries outstanding debt
func (c *Customer) OwesCompany() bool {
	return c.Balance.IsNegative()
}
