package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// DashboardStats is the admin landing-page summary. Revenue counts only
// completed bookings.
type DashboardStats struct {
	TotalUsers        int
	TotalMovies       int
	TotalBookings     int
	TotalRevenue      decimal.Decimal
	BookingsThisMonth int
	RecentBookings    []BookingSummary
}

type ReportRepository interface {
	GetDashboardStats(ctx context.Context) (*DashboardStats, error)
}
