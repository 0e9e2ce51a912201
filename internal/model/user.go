package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role enum constants
const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

// User represents a system operator. Admins implicitly hold every permission;
// regular users carry an explicit capability set.
type User struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username    string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Password    string         `gorm:"type:varchar(255);not null" json:"-"`
	Role        string         `gorm:"type:varchar(20);not null;default:'User'" json:"role"`
	Permissions []Permission   `gorm:"many2many:user_permissions;" json:"permissions"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// Permission codes — one per application area
const (
	PermDashboard   = "dashboard"
	PermSales       = "sales"
	PermInventory   = "inventory"
	PermMaintenance = "maintenance"
	PermCustomers   = "customers"
	PermAccounting  = "accounting"
	PermSettings    = "settings"
	PermReports     = "reports"
	PermMessages    = "messages"
	PermArchive     = "archive"
)

// PermissionCodes lists every assignable capability
var PermissionCodes = []string{
	PermDashboard,
	PermSales,
	PermInventory,
	PermMaintenance,
	PermCustomers,
	PermAccounting,
	PermSettings,
	PermReports,
	PermMessages,
	PermArchive,
}

// Permission represents a single capability that can be assigned to users
type Permission struct {
	ID   uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name string    `gorm:"type:varchar(255);not null" json:"name"`
}
