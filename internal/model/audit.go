package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreateProduct  = "CREATE_PRODUCT"
	ActionUpdateProduct  = "UPDATE_PRODUCT"
	ActionDeleteProduct  = "DELETE_PRODUCT"
	ActionSupplyIntake   = "SUPPLY_INTAKE"
	ActionCreateSale     = "CREATE_SALE"
	ActionDeleteSale     = "DELETE_SALE"
	ActionDebtPayment    = "DEBT_PAYMENT"
	ActionCreateJob      = "CREATE_JOB"
	ActionUpdateJob      = "UPDATE_JOB"
	ActionJobStatus      = "JOB_STATUS_CHANGE"
	ActionDeleteJob      = "DELETE_JOB"
	ActionCreateCustomer = "CREATE_CUSTOMER"
	ActionUpdateCustomer = "UPDATE_CUSTOMER"
	ActionDeleteCustomer = "DELETE_CUSTOMER"
)

// AuditLog tracks who did what and when for every mutating ledger operation.
// Written inside the same transaction as the mutation it describes.
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	User       *User      `gorm:"foreignKey:UserID" json:"user"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`        // document code or uuid
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"` // human readable name
	Details    string     `gorm:"type:jsonb" json:"details"`                      // serialized JSON payload
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
