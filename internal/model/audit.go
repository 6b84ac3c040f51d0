package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreateDeceased = "CREATE_DECEASED_RECORD"
	ActionUpdateDeceased = "UPDATE_DECEASED_RECORD"
	ActionReleaseBody    = "RELEASE_BODY"

	ActionCreateCase       = "CREATE_EMBALMING_CASE"
	ActionUpdateCaseStatus = "UPDATE_CASE_STATUS"

	ActionCreateInvoice = "CREATE_INVOICE"
	ActionUpdateInvoice = "UPDATE_INVOICE"
	ActionIssueInvoice  = "ISSUE_INVOICE"
	ActionVoidInvoice   = "VOID_INVOICE"

	ActionGeneratePayslip = "GENERATE_PAYSLIP"
	ActionRunPayroll      = "RUN_PAYROLL"

	ActionCreateTrip       = "CREATE_TRIP"
	ActionUpdateTripStatus = "UPDATE_TRIP_STATUS"

	ActionAdjustStock = "ADJUST_STOCK"
	ActionSendMessage = "SEND_MESSAGE"
)

// AuditLog tracks Who, What, and When for critical system changes
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // Nullable gracefully if automated bot
	User       *User      `gorm:"foreignKey:UserID" json:"user"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`        // Reference string (uuid/code)
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"` // Human readable name
	Details    string     `gorm:"type:jsonb" json:"details"`                      // Serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
