package model

import (
	"time"

	"backend/internal/pricing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MortuaryService is a catalog entry for a billable service. One-time services
// bill a flat base price; daily services additionally bill a per-extra-day rate
// prorated over the deceased record's stay window.
type MortuaryService struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Type        string          `gorm:"type:varchar(20);not null;index" json:"type"` // ONE_TIME, DAILY
	BasePrice   decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"base_price"`
	DailyRate   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"daily_rate"`
	IsActive    bool            `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

// RateCard converts the catalog entry into the pricing calculator's input.
func (s MortuaryService) RateCard() pricing.RateCard {
	return pricing.RateCard{
		Type:      s.Type,
		BasePrice: s.BasePrice,
		DailyRate: s.DailyRate,
	}
}
