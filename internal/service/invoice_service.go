package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/pricing"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type InvoiceItemRequest struct {
	ServiceID string `json:"service_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

type CreateInvoiceRequest struct {
	DeceasedID string               `json:"deceased_id" binding:"required"`
	TaxRate    string               `json:"tax_rate"` // fraction, defaults to the configured rate
	Discount   string               `json:"discount"` // flat amount, defaults to 0
	Note       string               `json:"note"`
	Items      []InvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateInvoiceRequest replaces the invoice's inputs; all amounts are
// recomputed from scratch. Only DRAFT invoices can be edited.
type UpdateInvoiceRequest struct {
	Discount *string              `json:"discount"`
	Note     *string              `json:"note"`
	Items    []InvoiceItemRequest `json:"items" binding:"omitempty,min=1,dive"`
}

type InvoiceFilter struct {
	Status     string
	InvoiceNo  string
	DeceasedID string
	Page       int
	Limit      int
}

type InvoiceItemResponse struct {
	ID          string `json:"id"`
	ServiceID   string `json:"service_id"`
	ServiceName string `json:"service_name"`
	ServiceType string `json:"service_type"`
	Quantity    int    `json:"quantity"`
	Rate        string `json:"rate"`
	Amount      string `json:"amount"`
	DaysCharged int    `json:"days_charged"`
}

type InvoiceResponse struct {
	ID           string                `json:"id"`
	InvoiceNo    string                `json:"invoice_no"`
	DeceasedID   string                `json:"deceased_id"`
	DeceasedName string                `json:"deceased_name,omitempty"`
	TaxRate      string                `json:"tax_rate"`
	Subtotal     string                `json:"subtotal"`
	TaxAmount    string                `json:"tax_amount"`
	Discount     string                `json:"discount"`
	Total        string                `json:"total"`
	NegativeDue  bool                  `json:"negative_due"` // discount exceeded subtotal+tax
	Status       string                `json:"status"`
	Note         string                `json:"note"`
	LineItems    []InvoiceItemResponse `json:"line_items"`
	CreatedAt    string                `json:"created_at"`
}

// --- Interface ---

type InvoiceService interface {
	CreateInvoice(ctx context.Context, userID string, req CreateInvoiceRequest) (InvoiceResponse, error)
	GetInvoice(ctx context.Context, id string) (InvoiceResponse, error)
	ListInvoices(ctx context.Context, filter InvoiceFilter) ([]InvoiceResponse, int64, error)
	UpdateInvoice(ctx context.Context, userID, id string, req UpdateInvoiceRequest) (InvoiceResponse, error)
	IssueInvoice(ctx context.Context, userID, id string) (InvoiceResponse, error)
	MarkInvoicePaid(ctx context.Context, userID, id string) (InvoiceResponse, error)
	VoidInvoice(ctx context.Context, userID, id string) (InvoiceResponse, error)
}

type invoiceService struct {
	invoiceRepo    repository.InvoiceRepository
	catalogRepo    repository.CatalogRepository
	deceasedRepo   repository.DeceasedRepository
	auditRepo      repository.AuditRepository
	txManager      repository.TransactionManager
	defaultTaxRate decimal.Decimal
}

func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	catalogRepo repository.CatalogRepository,
	deceasedRepo repository.DeceasedRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	defaultTaxRate decimal.Decimal,
) InvoiceService {
	return &invoiceService{
		invoiceRepo:    invoiceRepo,
		catalogRepo:    catalogRepo,
		deceasedRepo:   deceasedRepo,
		auditRepo:      auditRepo,
		txManager:      txManager,
		defaultTaxRate: defaultTaxRate,
	}
}

// --- Implementation ---

func (s *invoiceService) CreateInvoice(ctx context.Context, userID string, req CreateInvoiceRequest) (InvoiceResponse, error) {
	deceasedID, err := uuid.Parse(req.DeceasedID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid deceased_id: %w", err)
	}

	record, err := s.deceasedRepo.FindByID(ctx, deceasedID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("deceased record not found: %w", err)
	}

	taxRate := s.defaultTaxRate
	if req.TaxRate != "" {
		taxRate, err = decimal.NewFromString(req.TaxRate)
		if err != nil {
			return InvoiceResponse{}, fmt.Errorf("invalid tax_rate: %w", err)
		}
	}

	discount := decimal.Zero
	if req.Discount != "" {
		discount, err = decimal.NewFromString(req.Discount)
		if err != nil {
			return InvoiceResponse{}, fmt.Errorf("invalid discount: %w", err)
		}
		if discount.IsNegative() {
			return InvoiceResponse{}, fmt.Errorf("discount must not be negative")
		}
	}

	items, totals, err := s.priceItems(ctx, record, req.Items, taxRate, discount)
	if err != nil {
		return InvoiceResponse{}, err
	}

	invoiceNo, err := s.generateInvoiceNo(ctx)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("failed to generate invoice number: %w", err)
	}

	invoice := model.Invoice{
		InvoiceNo:  invoiceNo,
		DeceasedID: deceasedID,
		TaxRate:    taxRate,
		Subtotal:   totals.Subtotal,
		TaxAmount:  totals.TaxAmount,
		Discount:   discount,
		Total:      totals.Total,
		Status:     model.InvoiceStatusDraft,
		Note:       req.Note,
		LineItems:  items,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.invoiceRepo.Create(txCtx, &invoice); err != nil {
			return fmt.Errorf("failed to create invoice: %w", err)
		}
		s.logAudit(txCtx, userID, model.ActionCreateInvoice, invoice.ID.String(), invoice.InvoiceNo, req)
		return nil
	})
	if err != nil {
		return InvoiceResponse{}, err
	}

	return s.reload(ctx, invoice.ID)
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (InvoiceResponse, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid invoice id: %w", err)
	}
	return s.reload(ctx, invoiceID)
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter InvoiceFilter) ([]InvoiceResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	invoices, total, err := s.invoiceRepo.List(ctx, repository.InvoiceListFilter{
		Status:     filter.Status,
		InvoiceNo:  filter.InvoiceNo,
		DeceasedID: filter.DeceasedID,
		Page:       filter.Page,
		Limit:      filter.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch invoices: %w", err)
	}

	result := make([]InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		result = append(result, toInvoiceResponse(inv))
	}
	return result, total, nil
}

// UpdateInvoice re-prices a DRAFT invoice. Line items and totals are always
// recomputed together from the current stay window; the stored rows are
// replaced, never patched, so subtotal/tax/total cannot drift.
func (s *invoiceService) UpdateInvoice(ctx context.Context, userID, id string, req UpdateInvoiceRequest) (InvoiceResponse, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid invoice id: %w", err)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		invoice, err := s.invoiceRepo.FindByIDWithItems(txCtx, invoiceID)
		if err != nil {
			return fmt.Errorf("invoice not found: %w", err)
		}
		if invoice.Status != model.InvoiceStatusDraft {
			return fmt.Errorf("cannot edit invoice with status %s", invoice.Status)
		}

		if req.Note != nil {
			invoice.Note = *req.Note
		}
		if req.Discount != nil {
			discount, err := decimal.NewFromString(*req.Discount)
			if err != nil {
				return fmt.Errorf("invalid discount: %w", err)
			}
			if discount.IsNegative() {
				return fmt.Errorf("discount must not be negative")
			}
			invoice.Discount = discount
		}

		itemReqs := req.Items
		if itemReqs == nil {
			// Discount or stay window may have changed: re-price the existing rows.
			itemReqs = make([]InvoiceItemRequest, 0, len(invoice.LineItems))
			for _, li := range invoice.LineItems {
				itemReqs = append(itemReqs, InvoiceItemRequest{
					ServiceID: li.ServiceID.String(),
					Quantity:  li.Quantity,
				})
			}
		}

		record, err := s.deceasedRepo.FindByID(txCtx, invoice.DeceasedID)
		if err != nil {
			return fmt.Errorf("deceased record not found: %w", err)
		}

		items, totals, err := s.priceItems(txCtx, record, itemReqs, invoice.TaxRate, invoice.Discount)
		if err != nil {
			return err
		}
		for i := range items {
			items[i].InvoiceID = invoice.ID
		}

		if err := s.invoiceRepo.ReplaceLineItems(txCtx, invoice.ID, items); err != nil {
			return fmt.Errorf("failed to replace line items: %w", err)
		}

		invoice.Subtotal = totals.Subtotal
		invoice.TaxAmount = totals.TaxAmount
		invoice.Total = totals.Total
		invoice.LineItems = nil // already persisted above
		if err := s.invoiceRepo.Update(txCtx, invoice); err != nil {
			return fmt.Errorf("failed to update invoice: %w", err)
		}

		s.logAudit(txCtx, userID, model.ActionUpdateInvoice, invoice.ID.String(), invoice.InvoiceNo, req)
		return nil
	})
	if err != nil {
		return InvoiceResponse{}, err
	}

	return s.reload(ctx, invoiceID)
}

func (s *invoiceService) IssueInvoice(ctx context.Context, userID, id string) (InvoiceResponse, error) {
	return s.updateStatus(ctx, userID, id, model.InvoiceStatusIssued, model.ActionIssueInvoice, model.InvoiceStatusDraft)
}

func (s *invoiceService) MarkInvoicePaid(ctx context.Context, userID, id string) (InvoiceResponse, error) {
	return s.updateStatus(ctx, userID, id, model.InvoiceStatusPaid, model.ActionUpdateInvoice, model.InvoiceStatusIssued)
}

func (s *invoiceService) VoidInvoice(ctx context.Context, userID, id string) (InvoiceResponse, error) {
	return s.updateStatus(ctx, userID, id, model.InvoiceStatusVoid, model.ActionVoidInvoice,
		model.InvoiceStatusDraft, model.InvoiceStatusIssued)
}

func (s *invoiceService) updateStatus(ctx context.Context, userID, id, target, action string, allowedFrom ...string) (InvoiceResponse, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid invoice id: %w", err)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		invoice, err := s.invoiceRepo.FindByID(txCtx, invoiceID)
		if err != nil {
			return fmt.Errorf("invoice not found: %w", err)
		}

		ok := false
		for _, from := range allowedFrom {
			if invoice.Status == from {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("cannot move invoice from %s to %s", invoice.Status, target)
		}

		invoice.Status = target
		if err := s.invoiceRepo.Update(txCtx, invoice); err != nil {
			return fmt.Errorf("failed to update invoice: %w", err)
		}

		s.logAudit(txCtx, userID, action, invoice.ID.String(), invoice.InvoiceNo,
			map[string]string{"status": target})
		return nil
	})
	if err != nil {
		return InvoiceResponse{}, err
	}

	return s.reload(ctx, invoiceID)
}

// priceItems runs the pricing calculator over the requested rows against the
// record's stay window and returns fresh line items plus the aggregated totals.
func (s *invoiceService) priceItems(
	ctx context.Context,
	record *model.DeceasedRecord,
	reqs []InvoiceItemRequest,
	taxRate, discount decimal.Decimal,
) ([]model.InvoiceLineItem, pricing.Totals, error) {
	stayDays := pricing.StayDays(record.ReceivedAt, record.ReleasedAt)

	items := make([]model.InvoiceLineItem, 0, len(reqs))
	amounts := make([]decimal.Decimal, 0, len(reqs))

	for _, req := range reqs {
		svcID, err := uuid.Parse(req.ServiceID)
		if err != nil {
			return nil, pricing.Totals{}, fmt.Errorf("invalid service_id: %w", err)
		}

		svc, err := s.catalogRepo.FindByID(ctx, svcID)
		if err != nil {
			return nil, pricing.Totals{}, fmt.Errorf("service not found: %w", err)
		}
		if !svc.IsActive {
			return nil, pricing.Totals{}, fmt.Errorf("service %s is no longer offered", svc.Name)
		}

		line, err := pricing.LineAmount(svc.RateCard(), req.Quantity, stayDays)
		if err != nil {
			return nil, pricing.Totals{}, err
		}

		items = append(items, model.InvoiceLineItem{
			ServiceID:   svc.ID,
			Quantity:    req.Quantity,
			Rate:        line.Amount.Div(decimal.NewFromInt(int64(req.Quantity))),
			Amount:      line.Amount,
			DaysCharged: line.DaysCharged,
		})
		amounts = append(amounts, line.Amount)
	}

	return items, pricing.ComputeTotals(amounts, taxRate, discount), nil
}

func (s *invoiceService) reload(ctx context.Context, id uuid.UUID) (InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDWithItems(ctx, id)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("failed to reload invoice: %w", err)
	}
	return toInvoiceResponse(*invoice), nil
}

func (s *invoiceService) generateInvoiceNo(ctx context.Context) (string, error) {
	today := time.Now().Format("20060102")
	prefix := "INV-" + today + "-"

	count, err := s.invoiceRepo.CountByPrefix(ctx, prefix)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%05d", prefix, count+1), nil
}

func (s *invoiceService) logAudit(ctx context.Context, userID, action, entityID, entityName string, payload interface{}) {
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

func toInvoiceResponse(inv model.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:          inv.ID.String(),
		InvoiceNo:   inv.InvoiceNo,
		DeceasedID:  inv.DeceasedID.String(),
		TaxRate:     inv.TaxRate.StringFixed(4),
		Subtotal:    inv.Subtotal.StringFixed(4),
		TaxAmount:   inv.TaxAmount.StringFixed(4),
		Discount:    inv.Discount.StringFixed(4),
		Total:       inv.Total.StringFixed(4),
		NegativeDue: inv.Total.IsNegative(),
		Status:      inv.Status,
		Note:        inv.Note,
		CreatedAt:   inv.CreatedAt.Format(time.RFC3339),
	}

	if inv.Deceased != nil {
		resp.DeceasedName = inv.Deceased.FullName
	}

	resp.LineItems = make([]InvoiceItemResponse, 0, len(inv.LineItems))
	for _, li := range inv.LineItems {
		item := InvoiceItemResponse{
			ID:          li.ID.String(),
			ServiceID:   li.ServiceID.String(),
			Quantity:    li.Quantity,
			Rate:        li.Rate.StringFixed(4),
			Amount:      li.Amount.StringFixed(4),
			DaysCharged: li.DaysCharged,
		}
		if li.Service != nil {
			item.ServiceName = li.Service.Name
			item.ServiceType = li.Service.Type
		}
		resp.LineItems = append(resp.LineItems, item)
	}

	return resp
}
