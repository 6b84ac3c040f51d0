package service

import (
	"context"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
)

// --- Interface ---

type StatisticsService interface {
	GetDashboardStats(ctx context.Context, startDate, endDate string) (*model.DashboardStats, error)
}

type statisticsService struct {
	deceasedRepo  repository.DeceasedRepository
	caseRepo      repository.CaseRepository
	tripRepo      repository.TripRepository
	inventoryRepo repository.InventoryRepository
	invoiceRepo   repository.InvoiceRepository
}

func NewStatisticsService(
	deceasedRepo repository.DeceasedRepository,
	caseRepo repository.CaseRepository,
	tripRepo repository.TripRepository,
	inventoryRepo repository.InventoryRepository,
	invoiceRepo repository.InvoiceRepository,
) StatisticsService {
	return &statisticsService{
		deceasedRepo:  deceasedRepo,
		caseRepo:      caseRepo,
		tripRepo:      tripRepo,
		inventoryRepo: inventoryRepo,
		invoiceRepo:   invoiceRepo,
	}
}

// --- Implementation ---

// GetDashboardStats aggregates the headline numbers. Counts (storage, cases,
// trips, low stock) reflect the current state; revenue and invoice counts are
// bounded by the requested date range, defaulting to the last 30 days.
func (s *statisticsService) GetDashboardStats(ctx context.Context, startDate, endDate string) (*model.DashboardStats, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -30)

	if startDate != "" {
		parsed, err := time.Parse("2006-01-02", startDate)
		if err != nil {
			return nil, fmt.Errorf("invalid start_date: %w", err)
		}
		start = parsed
	}
	if endDate != "" {
		parsed, err := time.Parse("2006-01-02", endDate)
		if err != nil {
			return nil, fmt.Errorf("invalid end_date: %w", err)
		}
		// Inclusive through end of day.
		end = parsed.Add(24*time.Hour - time.Nanosecond)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("end_date must not precede start_date")
	}

	stats := &model.DashboardStats{
		TimeRangeStartDate: start,
		TimeRangeEndDate:   end,
	}

	var err error
	if stats.BodiesInStorage, err = s.deceasedRepo.CountByStatus(ctx, model.DeceasedStatusInStorage); err != nil {
		return nil, fmt.Errorf("failed to count bodies in storage: %w", err)
	}
	if stats.CasesByStatus, err = s.caseRepo.CountGroupedByStatus(ctx); err != nil {
		return nil, fmt.Errorf("failed to count cases: %w", err)
	}
	if stats.TripsByStatus, err = s.tripRepo.CountGroupedByStatus(ctx); err != nil {
		return nil, fmt.Errorf("failed to count trips: %w", err)
	}
	if stats.LowStockItems, err = s.inventoryRepo.CountLowStock(ctx); err != nil {
		return nil, fmt.Errorf("failed to count low-stock items: %w", err)
	}

	revenue, issued, err := s.invoiceRepo.SumTotalsByStatus(ctx,
		[]string{model.InvoiceStatusIssued, model.InvoiceStatusPaid}, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}
	stats.Revenue = revenue.StringFixed(4)
	stats.InvoicesIssued = issued

	return stats, nil
}
