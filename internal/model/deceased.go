package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DeceasedStatus enum constants
const (
	DeceasedStatusInStorage = "IN_STORAGE"
	DeceasedStatusReleased  = "RELEASED"
)

// DeceasedRecord is the intake record for a body in the facility's care.
// ReceivedAt/ReleasedAt form the stay window used to prorate daily-rate
// services (e.g. cold storage) on invoices.
type DeceasedRecord struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TagNumber    string         `gorm:"type:varchar(30);uniqueIndex;not null" json:"tag_number"`
	FullName     string         `gorm:"type:varchar(255);not null" json:"full_name"`
	Gender       string         `gorm:"type:varchar(20)" json:"gender"`
	DateOfBirth  *time.Time     `gorm:"type:date" json:"date_of_birth"`
	DateOfDeath  time.Time      `gorm:"type:date;not null" json:"date_of_death"`
	CauseOfDeath string         `gorm:"type:varchar(255)" json:"cause_of_death"`
	ReceivedAt   *time.Time     `json:"received_at"`
	ReleasedAt   *time.Time     `json:"released_at"`
	StorageUnit  string         `gorm:"type:varchar(30)" json:"storage_unit"`
	Status       string         `gorm:"type:varchar(20);not null;default:'IN_STORAGE';index" json:"status"` // IN_STORAGE, RELEASED
	Notes        string         `gorm:"type:text" json:"notes"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
