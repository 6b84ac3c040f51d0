package model

import (
	"time"

	"github.com/google/uuid"
)

// CaseStatus enum constants
const (
	CaseStatusPending    = "PENDING"
	CaseStatusInProgress = "IN_PROGRESS"
	CaseStatusCompleted  = "COMPLETED"
)

// EmbalmingCase tracks preparation work on a deceased record, assigned to an
// embalmer on staff.
type EmbalmingCase struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CaseNo      string          `gorm:"type:varchar(30);uniqueIndex;not null" json:"case_no"`
	DeceasedID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"deceased_id"`
	Deceased    *DeceasedRecord `gorm:"foreignKey:DeceasedID" json:"deceased,omitempty"`
	EmbalmerID  *uuid.UUID      `gorm:"type:uuid;index" json:"embalmer_id"`
	Embalmer    *Employee       `gorm:"foreignKey:EmbalmerID" json:"embalmer,omitempty"`
	ScheduledAt *time.Time      `json:"scheduled_at"`
	CompletedAt *time.Time      `json:"completed_at"`
	Status      string          `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"` // PENDING, IN_PROGRESS, COMPLETED
	Notes       string          `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
