package model

import (
	"time"
)

// DashboardStats aggregates the headline numbers shown on the admin dashboard
type DashboardStats struct {
	BodiesInStorage    int64            `json:"bodies_in_storage"`
	CasesByStatus      map[string]int64 `json:"cases_by_status"`
	TripsByStatus      map[string]int64 `json:"trips_by_status"`
	LowStockItems      int64            `json:"low_stock_items"`
	InvoicesIssued     int64            `json:"invoices_issued"`
	Revenue            string           `json:"revenue"` // issued + paid invoice totals in range
	TimeRangeStartDate time.Time        `json:"time_range_start_date"`
	TimeRangeEndDate   time.Time        `json:"time_range_end_date"`
}
