package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MessageChannel enum constants
const (
	ChannelSMS   = "SMS"
	ChannelEmail = "EMAIL"
	ChannelCall  = "CALL"
)

// MessageStatus enum constants
const (
	MessageStatusDraft  = "DRAFT"
	MessageStatusSent   = "SENT"
	MessageStatusFailed = "FAILED"
)

// FamilyContact is a next-of-kin contact attached to a deceased record.
type FamilyContact struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	DeceasedID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"deceased_id"`
	Deceased     *DeceasedRecord `gorm:"foreignKey:DeceasedID" json:"deceased,omitempty"`
	FullName     string          `gorm:"type:varchar(255);not null" json:"full_name"`
	Relationship string          `gorm:"type:varchar(50)" json:"relationship"` // spouse, child, sibling...
	Phone        string          `gorm:"type:varchar(50)" json:"phone"`
	Email        string          `gorm:"type:varchar(255)" json:"email"`
	Address      string          `gorm:"type:text" json:"address"`
	IsPrimary    bool            `gorm:"default:false" json:"is_primary"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`
}

// Message is an outbound family communication entry. Actual delivery is an
// external collaborator's concern; this records what was sent and when.
type Message struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ContactID uuid.UUID      `gorm:"type:uuid;not null;index" json:"contact_id"`
	Contact   *FamilyContact `gorm:"foreignKey:ContactID" json:"contact,omitempty"`
	Channel   string         `gorm:"type:varchar(20);not null" json:"channel"` // SMS, EMAIL, CALL
	Subject   string         `gorm:"type:varchar(255)" json:"subject"`
	Body      string         `gorm:"type:text;not null" json:"body"`
	Status    string         `gorm:"type:varchar(20);not null;default:'DRAFT';index" json:"status"` // DRAFT, SENT, FAILED
	SentAt    *time.Time     `json:"sent_at"`
	CreatedBy *uuid.UUID     `gorm:"type:uuid" json:"created_by"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
