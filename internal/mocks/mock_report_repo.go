package mocks

import (
	"context"

	"github.com/cinemaster/cinemaster-api/internal/domain"
)

type MockReportRepo struct {
	domain.ReportRepository
	GetDashboardStatsFunc func(ctx context.Context) (*domain.DashboardStats, error)
}

func (m *MockReportRepo) GetDashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	return m.GetDashboardStatsFunc(ctx)
}
