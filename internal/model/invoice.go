package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus enum constants
const (
	InvoiceStatusDraft  = "DRAFT"
	InvoiceStatusIssued = "ISSUED"
	InvoiceStatusPaid   = "PAID"
	InvoiceStatusVoid   = "VOID"
)

// Invoice bills the services rendered for a deceased record.
// Subtotal, TaxAmount, and Total are always recomputed together from the line
// items, never updated independently, so the invariant
// total == subtotal + tax_amount - discount cannot drift.
type Invoice struct {
	ID         uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceNo  string            `gorm:"type:varchar(30);uniqueIndex;not null" json:"invoice_no"`
	DeceasedID uuid.UUID         `gorm:"type:uuid;not null;index" json:"deceased_id"`
	Deceased   *DeceasedRecord   `gorm:"foreignKey:DeceasedID" json:"deceased,omitempty"`
	TaxRate    decimal.Decimal   `gorm:"type:decimal(10,4);not null;default:0" json:"tax_rate"` // fraction, e.g. 0.10
	Subtotal   decimal.Decimal   `gorm:"type:decimal(18,4);not null" json:"subtotal"`
	TaxAmount  decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0" json:"tax_amount"`
	Discount   decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0" json:"discount"` // flat amount, not a rate
	Total      decimal.Decimal   `gorm:"type:decimal(18,4);not null" json:"total"`
	Status     string            `gorm:"type:varchar(20);not null;default:'DRAFT';index" json:"status"` // DRAFT, ISSUED, PAID, VOID
	Note       string            `gorm:"type:text" json:"note"`
	LineItems  []InvoiceLineItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"line_items"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// InvoiceLineItem is one priced row on an invoice, derived entirely from the
// referenced catalog service, the quantity, and the record's stay window.
// Rows are replaced wholesale on recomputation, never patched in place.
type InvoiceLineItem struct {
	ID          uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceID   uuid.UUID        `gorm:"type:uuid;not null;index" json:"invoice_id"`
	ServiceID   uuid.UUID        `gorm:"type:uuid;not null;index" json:"service_id"`
	Service     *MortuaryService `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	Quantity    int              `gorm:"type:int;not null" json:"quantity"`
	Rate        decimal.Decimal  `gorm:"type:decimal(18,4);not null" json:"rate"` // per-unit amount after proration
	Amount      decimal.Decimal  `gorm:"type:decimal(18,4);not null" json:"amount"`
	DaysCharged int              `gorm:"type:int;not null;default:0" json:"days_charged"` // 0 for one-time services
}
