package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ItemCategory enum constants
const (
	ItemCategoryChemical   = "CHEMICAL"
	ItemCategoryCasket     = "CASKET"
	ItemCategoryConsumable = "CONSUMABLE"
	ItemCategoryOther      = "OTHER"
)

// InventoryItem is a stocked supply item (embalming chemicals, caskets,
// consumables). Stock falls to or below ReorderLevel triggers a low-stock
// alert over the websocket hub.
type InventoryItem struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SKU          string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"sku"`
	Name         string         `gorm:"type:varchar(255);not null" json:"name"`
	Category     string         `gorm:"type:varchar(20);not null;default:'OTHER';index" json:"category"`
	Unit         string         `gorm:"type:varchar(20)" json:"unit"` // bottle, box, unit...
	CurrentStock int            `gorm:"type:int;default:0;not null" json:"current_stock"`
	ReorderLevel int            `gorm:"type:int;default:0;not null" json:"reorder_level"`
	UnitCost     float64        `gorm:"type:decimal(10,2);not null;default:0" json:"unit_cost"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// StockTxType enum constants
const (
	StockTxIn  = "IN"
	StockTxOut = "OUT"
)

// InventoryTransaction records every stock change strictly, with the stock
// level after the change.
type InventoryTransaction struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ItemID          uuid.UUID  `gorm:"type:uuid;not null;index" json:"item_id"`
	TransactionType string     `gorm:"type:varchar(10);not null" json:"transaction_type"` // IN, OUT
	QuantityChanged int        `gorm:"type:int;not null" json:"quantity_changed"`
	StockAfter      int        `gorm:"type:int;not null" json:"stock_after"`
	Reason          string     `gorm:"type:varchar(255)" json:"reason"`
	ActorID         *uuid.UUID `gorm:"type:uuid" json:"actor_id"`
	CreatedAt       time.Time  `json:"created_at"`
}
