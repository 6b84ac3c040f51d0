package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/websocket"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateItemRequest struct {
	SKU          string  `json:"sku" binding:"required"`
	Name         string  `json:"name" binding:"required"`
	Category     string  `json:"category" binding:"required,oneof=CHEMICAL CASKET CONSUMABLE OTHER"`
	Unit         string  `json:"unit"`
	InitialStock int     `json:"initial_stock" binding:"min=0"`
	ReorderLevel int     `json:"reorder_level" binding:"min=0"`
	UnitCost     float64 `json:"unit_cost" binding:"min=0"`
}

type UpdateItemRequest struct {
	Name         *string  `json:"name"`
	Category     *string  `json:"category" binding:"omitempty,oneof=CHEMICAL CASKET CONSUMABLE OTHER"`
	Unit         *string  `json:"unit"`
	ReorderLevel *int     `json:"reorder_level" binding:"omitempty,min=0"`
	UnitCost     *float64 `json:"unit_cost" binding:"omitempty,min=0"`
}

type AdjustStockRequest struct {
	TransactionType string `json:"transaction_type" binding:"required,oneof=IN OUT"`
	Quantity        int    `json:"quantity" binding:"required,min=1"`
	Reason          string `json:"reason"`
}

type ItemResponse struct {
	ID           string  `json:"id"`
	SKU          string  `json:"sku"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Unit         string  `json:"unit"`
	CurrentStock int     `json:"current_stock"`
	ReorderLevel int     `json:"reorder_level"`
	UnitCost     float64 `json:"unit_cost"`
	LowStock     bool    `json:"low_stock"`
}

type TransactionResponse struct {
	ID              string `json:"id"`
	ItemID          string `json:"item_id"`
	TransactionType string `json:"transaction_type"`
	QuantityChanged int    `json:"quantity_changed"`
	StockAfter      int    `json:"stock_after"`
	Reason          string `json:"reason"`
	CreatedAt       string `json:"created_at"`
}

type ItemFilter struct {
	Category string
	LowStock bool
	Search   string
	Page     int
	Limit    int
}

// --- Interface ---

type InventoryService interface {
	CreateItem(ctx context.Context, userID string, req CreateItemRequest) (ItemResponse, error)
	GetItem(ctx context.Context, id string) (ItemResponse, error)
	ListItems(ctx context.Context, filter ItemFilter) ([]ItemResponse, int64, error)
	UpdateItem(ctx context.Context, id string, req UpdateItemRequest) (ItemResponse, error)
	DeleteItem(ctx context.Context, id string) error
	AdjustStock(ctx context.Context, userID, id string, req AdjustStockRequest) (ItemResponse, error)
	ListTransactions(ctx context.Context, id string, page, limit int) ([]TransactionResponse, int64, error)
}

type inventoryService struct {
	inventoryRepo repository.InventoryRepository
	auditRepo     repository.AuditRepository
	txManager     repository.TransactionManager
	hub           *websocket.Hub
}

func NewInventoryService(
	inventoryRepo repository.InventoryRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *websocket.Hub,
) InventoryService {
	return &inventoryService{
		inventoryRepo: inventoryRepo,
		auditRepo:     auditRepo,
		txManager:     txManager,
		hub:           hub,
	}
}

// --- Implementation ---

func (s *inventoryService) CreateItem(ctx context.Context, userID string, req CreateItemRequest) (ItemResponse, error) {
	item := model.InventoryItem{
		SKU:          req.SKU,
		Name:         req.Name,
		Category:     req.Category,
		Unit:         req.Unit,
		CurrentStock: req.InitialStock,
		ReorderLevel: req.ReorderLevel,
		UnitCost:     req.UnitCost,
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.inventoryRepo.CreateItem(txCtx, &item); err != nil {
			return fmt.Errorf("failed to create item: %w", err)
		}
		if req.InitialStock > 0 {
			entry := model.InventoryTransaction{
				ItemID:          item.ID,
				TransactionType: model.StockTxIn,
				QuantityChanged: req.InitialStock,
				StockAfter:      req.InitialStock,
				Reason:          "initial stock",
			}
			if uid, err := uuid.Parse(userID); err == nil {
				entry.ActorID = &uid
			}
			if err := s.inventoryRepo.CreateTransaction(txCtx, &entry); err != nil {
				return fmt.Errorf("failed to record initial stock: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return ItemResponse{}, err
	}

	return toItemResponse(item), nil
}

func (s *inventoryService) GetItem(ctx context.Context, id string) (ItemResponse, error) {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return ItemResponse{}, fmt.Errorf("invalid item id: %w", err)
	}
	item, err := s.inventoryRepo.FindItemByID(ctx, itemID)
	if err != nil {
		return ItemResponse{}, fmt.Errorf("item not found: %w", err)
	}
	return toItemResponse(*item), nil
}

func (s *inventoryService) ListItems(ctx context.Context, filter ItemFilter) ([]ItemResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	items, total, err := s.inventoryRepo.ListItems(ctx, repository.InventoryListFilter{
		Category: filter.Category,
		LowStock: filter.LowStock,
		Search:   filter.Search,
		Page:     filter.Page,
		Limit:    filter.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch items: %w", err)
	}

	result := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		result = append(result, toItemResponse(item))
	}
	return result, total, nil
}

func (s *inventoryService) UpdateItem(ctx context.Context, id string, req UpdateItemRequest) (ItemResponse, error) {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return ItemResponse{}, fmt.Errorf("invalid item id: %w", err)
	}

	item, err := s.inventoryRepo.FindItemByID(ctx, itemID)
	if err != nil {
		return ItemResponse{}, fmt.Errorf("item not found: %w", err)
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.Unit != nil {
		item.Unit = *req.Unit
	}
	if req.ReorderLevel != nil {
		item.ReorderLevel = *req.ReorderLevel
	}
	if req.UnitCost != nil {
		item.UnitCost = *req.UnitCost
	}

	if err := s.inventoryRepo.UpdateItem(ctx, item); err != nil {
		return ItemResponse{}, fmt.Errorf("failed to update item: %w", err)
	}
	return toItemResponse(*item), nil
}

func (s *inventoryService) DeleteItem(ctx context.Context, id string) error {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid item id: %w", err)
	}
	return s.inventoryRepo.DeleteItem(ctx, itemID)
}

// AdjustStock applies an IN/OUT movement, records the transaction with the
// resulting stock level, and broadcasts a low-stock alert when the item
// crosses its reorder level. Stock never goes negative.
func (s *inventoryService) AdjustStock(ctx context.Context, userID, id string, req AdjustStockRequest) (ItemResponse, error) {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return ItemResponse{}, fmt.Errorf("invalid item id: %w", err)
	}

	var item *model.InventoryItem
	wasLow := false
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		item, err = s.inventoryRepo.FindItemByID(txCtx, itemID)
		if err != nil {
			return fmt.Errorf("item not found: %w", err)
		}
		wasLow = item.CurrentStock <= item.ReorderLevel

		switch req.TransactionType {
		case model.StockTxIn:
			item.CurrentStock += req.Quantity
		case model.StockTxOut:
			if req.Quantity > item.CurrentStock {
				return fmt.Errorf("insufficient stock: have %d, requested %d", item.CurrentStock, req.Quantity)
			}
			item.CurrentStock -= req.Quantity
		}

		if err := s.inventoryRepo.UpdateItem(txCtx, item); err != nil {
			return fmt.Errorf("failed to update item: %w", err)
		}

		entry := model.InventoryTransaction{
			ItemID:          item.ID,
			TransactionType: req.TransactionType,
			QuantityChanged: req.Quantity,
			StockAfter:      item.CurrentStock,
			Reason:          req.Reason,
		}
		if uid, err := uuid.Parse(userID); err == nil {
			entry.ActorID = &uid
		}
		if err := s.inventoryRepo.CreateTransaction(txCtx, &entry); err != nil {
			return fmt.Errorf("failed to record transaction: %w", err)
		}

		s.logAudit(txCtx, userID, model.ActionAdjustStock, item.ID.String(), item.SKU,
			map[string]interface{}{
				"transaction_type": req.TransactionType,
				"quantity":         req.Quantity,
				"stock_after":      item.CurrentStock,
				"reason":           req.Reason,
			})
		return nil
	})
	if err != nil {
		return ItemResponse{}, err
	}

	isLow := item.CurrentStock <= item.ReorderLevel
	if s.hub != nil && isLow && !wasLow {
		s.hub.BroadcastEvent(websocket.EventLowStock, map[string]interface{}{
			"item_id":       item.ID.String(),
			"sku":           item.SKU,
			"name":          item.Name,
			"current_stock": item.CurrentStock,
			"reorder_level": item.ReorderLevel,
		})
	}

	return toItemResponse(*item), nil
}

func (s *inventoryService) ListTransactions(ctx context.Context, id string, page, limit int) ([]TransactionResponse, int64, error) {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid item id: %w", err)
	}

	txs, total, err := s.inventoryRepo.ListTransactions(ctx, itemID, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch transactions: %w", err)
	}

	result := make([]TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		result = append(result, TransactionResponse{
			ID:              tx.ID.String(),
			ItemID:          tx.ItemID.String(),
			TransactionType: tx.TransactionType,
			QuantityChanged: tx.QuantityChanged,
			StockAfter:      tx.StockAfter,
			Reason:          tx.Reason,
			CreatedAt:       tx.CreatedAt.Format(time.RFC3339),
		})
	}
	return result, total, nil
}

// --- Helpers ---

func (s *inventoryService) logAudit(ctx context.Context, userID, action, entityID, entityName string, payload interface{}) {
	var uid *uuid.UUID
	if parsed, err := uuid.Parse(userID); err == nil {
		uid = &parsed
	}
	details, _ := json.Marshal(payload)
	_ = s.auditRepo.Log(ctx, &model.AuditLog{
		UserID:     uid,
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(details),
	})
}

// --- Mapping ---

func toItemResponse(item model.InventoryItem) ItemResponse {
	return ItemResponse{
		ID:           item.ID.String(),
		SKU:          item.SKU,
		Name:         item.Name,
		Category:     item.Category,
		Unit:         item.Unit,
		CurrentStock: item.CurrentStock,
		ReorderLevel: item.ReorderLevel,
		UnitCost:     item.UnitCost,
		LowStock:     item.CurrentStock <= item.ReorderLevel,
	}
}
