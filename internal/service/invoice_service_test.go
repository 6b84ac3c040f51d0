package service

import (
	"context"
	"testing"
	"time"

	"backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newInvoiceServiceForTest(
	invoiceRepo *mockInvoiceRepo,
	catalogRepo *mockCatalogRepo,
	deceasedRepo *mockDeceasedRepo,
	auditRepo *mockAuditRepo,
) InvoiceService {
	return NewInvoiceService(invoiceRepo, catalogRepo, deceasedRepo, auditRepo, &mockTxManager{}, decimal.RequireFromString("0.1"))
}

func TestCreateInvoice_PricesDailyAndOneTimeLines(t *testing.T) {
	invoiceRepo := &mockInvoiceRepo{}
	catalogRepo := &mockCatalogRepo{}
	deceasedRepo := &mockDeceasedRepo{}
	auditRepo := &mockAuditRepo{}
	service := newInvoiceServiceForTest(invoiceRepo, catalogRepo, deceasedRepo, auditRepo)

	deceasedID := uuid.New()
	received := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	released := received.Add(3*24*time.Hour + 12*time.Hour) // 3.5 days -> 4 charged
	record := &model.DeceasedRecord{
		ID:         deceasedID,
		FullName:   "John Doe",
		ReceivedAt: &received,
		ReleasedAt: &released,
		Status:     model.DeceasedStatusReleased,
	}

	casketID := uuid.New()
	storageID := uuid.New()
	casket := &model.MortuaryService{
		ID:        casketID,
		Name:      "Standard Casket",
		Type:      "ONE_TIME",
		BasePrice: decimal.RequireFromString("500"),
		IsActive:  true,
	}
	storage := &model.MortuaryService{
		ID:        storageID,
		Name:      "Cold Storage",
		Type:      "DAILY",
		BasePrice: decimal.RequireFromString("100"),
		DailyRate: decimal.RequireFromString("40"),
		IsActive:  true,
	}

	deceasedRepo.On("FindByID", mock.Anything, deceasedID).Return(record, nil)
	catalogRepo.On("FindByID", mock.Anything, casketID).Return(casket, nil)
	catalogRepo.On("FindByID", mock.Anything, storageID).Return(storage, nil)
	invoiceRepo.On("CountByPrefix", mock.Anything, mock.Anything).Return(int64(0), nil)
	auditRepo.On("Log", mock.Anything, mock.Anything).Return(nil)

	var created *model.Invoice
	invoiceRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		created = args.Get(1).(*model.Invoice)
		created.ID = uuid.New()
	}).Return(nil)
	invoiceRepo.On("FindByIDWithItems", mock.Anything, mock.Anything).Return(&model.Invoice{
		DeceasedID: deceasedID,
		Status:     model.InvoiceStatusDraft,
	}, nil)

	_, err := service.CreateInvoice(context.Background(), uuid.New().String(), CreateInvoiceRequest{
		DeceasedID: deceasedID.String(),
		Discount:   "50",
		Items: []InvoiceItemRequest{
			{ServiceID: casketID.String(), Quantity: 1},
			{ServiceID: storageID.String(), Quantity: 1},
		},
	})

	require.NoError(t, err)
	require.NotNil(t, created)

	// casket 500 + storage (100 + 40*3 extra days) = 720
	assert.True(t, created.Subtotal.Equal(decimal.RequireFromString("720")), "subtotal %s", created.Subtotal)
	assert.True(t, created.TaxAmount.Equal(decimal.RequireFromString("72")), "tax %s", created.TaxAmount)
	assert.True(t, created.Total.Equal(decimal.RequireFromString("742")), "total %s", created.Total)
	assert.Equal(t, model.InvoiceStatusDraft, created.Status)

	require.Len(t, created.LineItems, 2)
	assert.Equal(t, 0, created.LineItems[0].DaysCharged)
	assert.Equal(t, 4, created.LineItems[1].DaysCharged)
	assert.True(t, created.LineItems[1].Amount.Equal(decimal.RequireFromString("220")))

	invoiceRepo.AssertExpectations(t)
	auditRepo.AssertExpectations(t)
}

func TestCreateInvoice_RejectsInactiveService(t *testing.T) {
	invoiceRepo := &mockInvoiceRepo{}
	catalogRepo := &mockCatalogRepo{}
	deceasedRepo := &mockDeceasedRepo{}
	auditRepo := &mockAuditRepo{}
	service := newInvoiceServiceForTest(invoiceRepo, catalogRepo, deceasedRepo, auditRepo)

	deceasedID := uuid.New()
	svcID := uuid.New()
	received := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	deceasedRepo.On("FindByID", mock.Anything, deceasedID).Return(&model.DeceasedRecord{
		ID:         deceasedID,
		ReceivedAt: &received,
		Status:     model.DeceasedStatusInStorage,
	}, nil)
	catalogRepo.On("FindByID", mock.Anything, svcID).Return(&model.MortuaryService{
		ID:        svcID,
		Name:      "Retired Package",
		Type:      "ONE_TIME",
		BasePrice: decimal.RequireFromString("100"),
		IsActive:  false,
	}, nil)

	_, err := service.CreateInvoice(context.Background(), uuid.New().String(), CreateInvoiceRequest{
		DeceasedID: deceasedID.String(),
		Items:      []InvoiceItemRequest{{ServiceID: svcID.String(), Quantity: 1}},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no longer offered")
	invoiceRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateInvoice_NegativeTotalIsKeptAndFlagged(t *testing.T) {
	invoiceRepo := &mockInvoiceRepo{}
	catalogRepo := &mockCatalogRepo{}
	deceasedRepo := &mockDeceasedRepo{}
	auditRepo := &mockAuditRepo{}
	service := newInvoiceServiceForTest(invoiceRepo, catalogRepo, deceasedRepo, auditRepo)

	deceasedID := uuid.New()
	svcID := uuid.New()
	received := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	deceasedRepo.On("FindByID", mock.Anything, deceasedID).Return(&model.DeceasedRecord{
		ID:         deceasedID,
		ReceivedAt: &received,
		Status:     model.DeceasedStatusInStorage,
	}, nil)
	catalogRepo.On("FindByID", mock.Anything, svcID).Return(&model.MortuaryService{
		ID:        svcID,
		Name:      "Viewing Room",
		Type:      "ONE_TIME",
		BasePrice: decimal.RequireFromString("100"),
		IsActive:  true,
	}, nil)
	invoiceRepo.On("CountByPrefix", mock.Anything, mock.Anything).Return(int64(2), nil)
	auditRepo.On("Log", mock.Anything, mock.Anything).Return(nil)

	var created *model.Invoice
	invoiceRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		created = args.Get(1).(*model.Invoice)
		created.ID = uuid.New()
	}).Return(nil)
	invoiceRepo.On("FindByIDWithItems", mock.Anything, mock.Anything).Return(&model.Invoice{
		DeceasedID: deceasedID,
		Total:      decimal.RequireFromString("-390"),
		Status:     model.InvoiceStatusDraft,
	}, nil)

	resp, err := service.CreateInvoice(context.Background(), uuid.New().String(), CreateInvoiceRequest{
		DeceasedID: deceasedID.String(),
		Discount:   "500",
		Items:      []InvoiceItemRequest{{ServiceID: svcID.String(), Quantity: 1}},
	})

	require.NoError(t, err)
	// 100 + 10 tax - 500 discount: stored as computed, not clamped at zero
	assert.True(t, created.Total.Equal(decimal.RequireFromString("-390")), "total %s", created.Total)
	assert.True(t, resp.NegativeDue)
}

func TestUpdateInvoice_RejectsNonDraft(t *testing.T) {
	invoiceRepo := &mockInvoiceRepo{}
	catalogRepo := &mockCatalogRepo{}
	deceasedRepo := &mockDeceasedRepo{}
	auditRepo := &mockAuditRepo{}
	service := newInvoiceServiceForTest(invoiceRepo, catalogRepo, deceasedRepo, auditRepo)

	invoiceID := uuid.New()
	invoiceRepo.On("FindByIDWithItems", mock.Anything, invoiceID).Return(&model.Invoice{
		ID:     invoiceID,
		Status: model.InvoiceStatusIssued,
	}, nil)

	note := "late edit"
	_, err := service.UpdateInvoice(context.Background(), uuid.New().String(), invoiceID.String(), UpdateInvoiceRequest{Note: &note})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot edit invoice with status ISSUED")
	invoiceRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestInvoiceStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		call    func(s InvoiceService, id string) error
		wantErr string
	}{
		{
			name: "issue from draft",
			from: model.InvoiceStatusDraft,
			call: func(s InvoiceService, id string) error {
				_, err := s.IssueInvoice(context.Background(), uuid.New().String(), id)
				return err
			},
		},
		{
			name: "pay from issued",
			from: model.InvoiceStatusIssued,
			call: func(s InvoiceService, id string) error {
				_, err := s.MarkInvoicePaid(context.Background(), uuid.New().String(), id)
				return err
			},
		},
		{
			name: "void from issued",
			from: model.InvoiceStatusIssued,
			call: func(s InvoiceService, id string) error {
				_, err := s.VoidInvoice(context.Background(), uuid.New().String(), id)
				return err
			},
		},
		{
			name: "pay from draft rejected",
			from: model.InvoiceStatusDraft,
			call: func(s InvoiceService, id string) error {
				_, err := s.MarkInvoicePaid(context.Background(), uuid.New().String(), id)
				return err
			},
			wantErr: "cannot move invoice from DRAFT to PAID",
		},
		{
			name: "void from paid rejected",
			from: model.InvoiceStatusPaid,
			call: func(s InvoiceService, id string) error {
				_, err := s.VoidInvoice(context.Background(), uuid.New().String(), id)
				return err
			},
			wantErr: "cannot move invoice from PAID to VOID",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			invoiceRepo := &mockInvoiceRepo{}
			auditRepo := &mockAuditRepo{}
			service := newInvoiceServiceForTest(invoiceRepo, &mockCatalogRepo{}, &mockDeceasedRepo{}, auditRepo)

			invoiceID := uuid.New()
			invoiceRepo.On("FindByID", mock.Anything, invoiceID).Return(&model.Invoice{
				ID:        invoiceID,
				InvoiceNo: "INV-20250301-00001",
				Status:    tt.from,
			}, nil)
			invoiceRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
			invoiceRepo.On("FindByIDWithItems", mock.Anything, invoiceID).Return(&model.Invoice{ID: invoiceID}, nil)
			auditRepo.On("Log", mock.Anything, mock.Anything).Return(nil)

			err := tt.call(service, invoiceID.String())

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				invoiceRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
				invoiceRepo.AssertCalled(t, "Update", mock.Anything, mock.Anything)
			}
		})
	}
}
