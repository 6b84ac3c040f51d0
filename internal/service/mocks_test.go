package service

import (
	"context"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// mockTxManager runs the callback directly so transactional service logic can
// be exercised against the other mocks without a database.
type mockTxManager struct{}

func (m *mockTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type mockAuditRepo struct {
	mock.Mock
}

func (m *mockAuditRepo) Log(ctx context.Context, entry *model.AuditLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *mockAuditRepo) List(ctx context.Context, action string, page, limit int) ([]model.AuditLog, int64, error) {
	args := m.Called(ctx, action, page, limit)
	return args.Get(0).([]model.AuditLog), args.Get(1).(int64), args.Error(2)
}

type mockInvoiceRepo struct {
	mock.Mock
}

func (m *mockInvoiceRepo) Create(ctx context.Context, invoice *model.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *mockInvoiceRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Invoice), args.Error(1)
}

func (m *mockInvoiceRepo) FindByIDWithItems(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Invoice), args.Error(1)
}

func (m *mockInvoiceRepo) List(ctx context.Context, filter repository.InvoiceListFilter) ([]model.Invoice, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]model.Invoice), args.Get(1).(int64), args.Error(2)
}

func (m *mockInvoiceRepo) Update(ctx context.Context, invoice *model.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *mockInvoiceRepo) ReplaceLineItems(ctx context.Context, invoiceID uuid.UUID, items []model.InvoiceLineItem) error {
	args := m.Called(ctx, invoiceID, items)
	return args.Error(0)
}

func (m *mockInvoiceRepo) CountByPrefix(ctx context.Context, prefix string) (int64, error) {
	args := m.Called(ctx, prefix)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockInvoiceRepo) SumTotalsByStatus(ctx context.Context, statuses []string, start, end time.Time) (decimal.Decimal, int64, error) {
	args := m.Called(ctx, statuses, start, end)
	return args.Get(0).(decimal.Decimal), args.Get(1).(int64), args.Error(2)
}

type mockCatalogRepo struct {
	mock.Mock
}

func (m *mockCatalogRepo) Create(ctx context.Context, svc *model.MortuaryService) error {
	args := m.Called(ctx, svc)
	return args.Error(0)
}

func (m *mockCatalogRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.MortuaryService, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MortuaryService), args.Error(1)
}

func (m *mockCatalogRepo) List(ctx context.Context, activeOnly bool, page, limit int) ([]model.MortuaryService, int64, error) {
	args := m.Called(ctx, activeOnly, page, limit)
	return args.Get(0).([]model.MortuaryService), args.Get(1).(int64), args.Error(2)
}

func (m *mockCatalogRepo) Update(ctx context.Context, svc *model.MortuaryService) error {
	args := m.Called(ctx, svc)
	return args.Error(0)
}

func (m *mockCatalogRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockDeceasedRepo struct {
	mock.Mock
}

func (m *mockDeceasedRepo) Create(ctx context.Context, record *model.DeceasedRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *mockDeceasedRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.DeceasedRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DeceasedRecord), args.Error(1)
}

func (m *mockDeceasedRepo) List(ctx context.Context, filter repository.DeceasedListFilter) ([]model.DeceasedRecord, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]model.DeceasedRecord), args.Get(1).(int64), args.Error(2)
}

func (m *mockDeceasedRepo) Update(ctx context.Context, record *model.DeceasedRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *mockDeceasedRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockDeceasedRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockDeceasedRepo) CountByPrefix(ctx context.Context, prefix string) (int64, error) {
	args := m.Called(ctx, prefix)
	return args.Get(0).(int64), args.Error(1)
}

type mockTripRepo struct {
	mock.Mock
}

func (m *mockTripRepo) Create(ctx context.Context, trip *model.Trip) error {
	args := m.Called(ctx, trip)
	return args.Error(0)
}

func (m *mockTripRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Trip, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Trip), args.Error(1)
}

func (m *mockTripRepo) FindByIDWithHistory(ctx context.Context, id uuid.UUID) (*model.Trip, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Trip), args.Error(1)
}

func (m *mockTripRepo) List(ctx context.Context, filter repository.TripListFilter) ([]model.Trip, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]model.Trip), args.Get(1).(int64), args.Error(2)
}

func (m *mockTripRepo) Update(ctx context.Context, trip *model.Trip) error {
	args := m.Called(ctx, trip)
	return args.Error(0)
}

func (m *mockTripRepo) AppendHistory(ctx context.Context, entry *model.TripStatusHistory) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *mockTripRepo) ListHistory(ctx context.Context, tripID uuid.UUID) ([]model.TripStatusHistory, error) {
	args := m.Called(ctx, tripID)
	return args.Get(0).([]model.TripStatusHistory), args.Error(1)
}

func (m *mockTripRepo) CountByPrefix(ctx context.Context, prefix string) (int64, error) {
	args := m.Called(ctx, prefix)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockTripRepo) CountGroupedByStatus(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[string]int64), args.Error(1)
}

type mockVehicleRepo struct {
	mock.Mock
}

func (m *mockVehicleRepo) Create(ctx context.Context, vehicle *model.Vehicle) error {
	args := m.Called(ctx, vehicle)
	return args.Error(0)
}

func (m *mockVehicleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Vehicle), args.Error(1)
}

func (m *mockVehicleRepo) List(ctx context.Context, activeOnly bool, page, limit int) ([]model.Vehicle, int64, error) {
	args := m.Called(ctx, activeOnly, page, limit)
	return args.Get(0).([]model.Vehicle), args.Get(1).(int64), args.Error(2)
}

func (m *mockVehicleRepo) Update(ctx context.Context, vehicle *model.Vehicle) error {
	args := m.Called(ctx, vehicle)
	return args.Error(0)
}

func (m *mockVehicleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockEmployeeRepo struct {
	mock.Mock
}

func (m *mockEmployeeRepo) Create(ctx context.Context, emp *model.Employee) error {
	args := m.Called(ctx, emp)
	return args.Error(0)
}

func (m *mockEmployeeRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Employee, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Employee), args.Error(1)
}

func (m *mockEmployeeRepo) FindByIDWithSalaryStructure(ctx context.Context, id uuid.UUID) (*model.Employee, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Employee), args.Error(1)
}

func (m *mockEmployeeRepo) List(ctx context.Context, filter repository.EmployeeListFilter) ([]model.Employee, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]model.Employee), args.Get(1).(int64), args.Error(2)
}

func (m *mockEmployeeRepo) ListActiveWithSalaryStructure(ctx context.Context) ([]model.Employee, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Employee), args.Error(1)
}

func (m *mockEmployeeRepo) Update(ctx context.Context, emp *model.Employee) error {
	args := m.Called(ctx, emp)
	return args.Error(0)
}

func (m *mockEmployeeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockEmployeeRepo) ReplaceComponents(ctx context.Context, employeeID uuid.UUID, components []model.SalaryComponent) error {
	args := m.Called(ctx, employeeID, components)
	return args.Error(0)
}

func (m *mockEmployeeRepo) CountByPrefix(ctx context.Context, prefix string) (int64, error) {
	args := m.Called(ctx, prefix)
	return args.Get(0).(int64), args.Error(1)
}

type mockPayslipRepo struct {
	mock.Mock
}

func (m *mockPayslipRepo) CreateRun(ctx context.Context, run *model.PayrollRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *mockPayslipRepo) Create(ctx context.Context, slip *model.Payslip) error {
	args := m.Called(ctx, slip)
	return args.Error(0)
}

func (m *mockPayslipRepo) CreateBatch(ctx context.Context, slips []model.Payslip) error {
	args := m.Called(ctx, slips)
	return args.Error(0)
}

func (m *mockPayslipRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Payslip, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payslip), args.Error(1)
}

func (m *mockPayslipRepo) List(ctx context.Context, filter repository.PayslipListFilter) ([]model.Payslip, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]model.Payslip), args.Get(1).(int64), args.Error(2)
}

func (m *mockPayslipRepo) ExistsForPeriod(ctx context.Context, employeeID uuid.UUID, period string) (bool, error) {
	args := m.Called(ctx, employeeID, period)
	return args.Bool(0), args.Error(1)
}
