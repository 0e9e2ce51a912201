package model

import (
	"time"

	"github.com/google/uuid"
)

// Company inbox addresses
const (
	InboxSales = "sales@alwatnya.com.ly"
	InboxInfo  = "info@alwatnya.com.ly"
)

// Message is a stored inbound email. There is no sending transport; the store
// only supports listing and read-state tracking.
type Message struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code          string    `gorm:"type:varchar(30);uniqueIndex;not null" json:"code"` // e.g. MSG-001
	Inbox         string    `gorm:"type:varchar(100);not null;index" json:"inbox"`
	Sender        string    `gorm:"type:varchar(255);not null" json:"sender"`
	SenderEmail   string    `gorm:"type:varchar(255);not null" json:"sender_email"`
	Subject       string    `gorm:"type:varchar(500);not null" json:"subject"`
	Body          string    `gorm:"type:text" json:"body"`
	Date          time.Time `gorm:"not null;index" json:"date"`
	IsRead        bool      `gorm:"not null;default:false" json:"is_read"`
	HasAttachment bool      `gorm:"not null;default:false" json:"has_attachment"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
