package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductCategory enum constants
const (
	CategoryEngine      = "Engine"
	CategoryBoat        = "Boat"
	CategorySparePart   = "SparePart"
	CategoryEquipment   = "Equipment"
	CategoryMaintenance = "Maintenance"
	CategoryFluid       = "Fluid"
)

// ProductCategories lists every valid category value
var ProductCategories = []string{
	CategoryEngine,
	CategoryBoat,
	CategorySparePart,
	CategoryEquipment,
	CategoryMaintenance,
	CategoryFluid,
}

// Product represents an item in the marine-equipment catalog.
// Stock is mutated only inside a sale transaction (decrement) or a supply
// intake transaction (increment + price overwrite).
type Product struct {
	ID         uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code       string          `gorm:"type:varchar(30);uniqueIndex;not null" json:"code"` // e.g. P001
	Name       string          `gorm:"type:varchar(255);not null" json:"name"`
	Category   string          `gorm:"type:varchar(20);not null;index" json:"category"`
	Stock      int             `gorm:"type:int;not null;default:0" json:"stock"`
	Price      decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"price"`    // LYD retail price
	CostUSD    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"cost_usd"` // supplier cost
	MinStock   int             `gorm:"type:int;not null;default:0" json:"min_stock"`
	Location   string          `gorm:"type:varchar(255)" json:"location"`
	SupplierID *uuid.UUID      `gorm:"type:uuid;index" json:"supplier_id"`
	Supplier   *Supplier       `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	DeletedAt  gorm.DeletedAt  `gorm:"index" json:"-"`
}

// IsLowStock reports whether the product is at or below its reorder threshold
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.MinStock
}

// Supplier represents an upstream vendor supplying catalog products
type Supplier struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code      string         `gorm:"type:varchar(30);uniqueIndex;not null" json:"code"` // e.g. S001
	Name      string         `gorm:"type:varchar(255);not null" json:"name"`
	Contact   string         `gorm:"type:varchar(100)" json:"contact"`
	Email     string         `gorm:"type:varchar(255)" json:"email"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
