package services

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"rma-system/internal/dto"
	"rma-system/internal/repositories"
	"rma-system/pkg/constants"
	apperrors "rma-system/pkg/errors"
)

const recentRMALimit = 5

type DashboardServiceInterface interface {
	GetDashboardStats(ctx context.Context) (*dto.DashboardStatsDTO, error)
}

type DashboardService struct {
	repo       repositories.DashboardRepositoryInterface
	manualRepo repositories.ManualRepositoryInterface
	logger     *zap.Logger
}

func NewDashboardService(
	repo repositories.DashboardRepositoryInterface,
	manualRepo repositories.ManualRepositoryInterface,
	logger *zap.Logger,
) DashboardServiceInterface {
	return &DashboardService{repo: repo, manualRepo: manualRepo, logger: logger}
}

// GetDashboardStats recomputes the aggregates on every call; nothing here is
// cached.
func (s *DashboardService) GetDashboardStats(ctx context.Context) (*dto.DashboardStatsDTO, error) {
	var (
		wg           sync.WaitGroup
		statusCounts []repositories.StatusCount
		manualsTotal uint64
		recent       []dto.RMADTO

		errs []error
		mu   sync.Mutex
	)

	addTask := func(fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}()
	}

	addTask(func() (err error) { statusCounts, err = s.repo.GetCountByStatus(ctx); return })
	addTask(func() (err error) { manualsTotal, err = s.manualRepo.CountManuals(ctx); return })
	addTask(func() (err error) { recent, err = s.repo.GetRecentRMAs(ctx, recentRMALimit); return })

	wg.Wait()

	if len(errs) > 0 {
		s.logger.Error("dashboard fetching error", zap.Error(errs[0]))
		return nil, apperrors.NewInternalError("failed to load dashboard")
	}

	stats := &dto.DashboardStatsDTO{
		ManualsTotal: manualsTotal,
		RecentRMAs:   make([]dto.RecentRMADTO, 0, len(recent)),
	}
	for _, c := range statusCounts {
		stats.Total += c.Count
		switch c.Status {
		case constants.RMAStatusPending:
			stats.Pending = c.Count
		case constants.RMAStatusInProgress:
			stats.InProgress = c.Count
		case constants.RMAStatusCompleted:
			stats.Completed = c.Count
		case constants.RMAStatusCancelled:
			stats.Cancelled = c.Count
		}
	}

	for _, rma := range recent {
		stats.RecentRMAs = append(stats.RecentRMAs, toRecentRMA(rma))
	}

	return stats, nil
}

func toRecentRMA(rma dto.RMADTO) dto.RecentRMADTO {
	summary := rma.CustomerName + ": " + rma.IssueDescription
	// cut on a rune boundary so multi-byte names survive the trim
	if runes := []rune(summary); len(runes) > 80 {
		summary = string(runes[:77]) + "..."
	}
	color, icon := statusDisplay(rma.Status)
	return dto.RecentRMADTO{
		ID:          rma.ID,
		RMANumber:   rma.RMANumber,
		ProductName: rma.ProductName,
		Status:      rma.Status,
		StatusColor: color,
		StatusIcon:  icon,
		Summary:     summary,
		DateCreated: rma.DateCreated,
	}
}

func statusDisplay(status string) (color, icon string) {
	switch status {
	case constants.RMAStatusPending:
		return "yellow", "clock"
	case constants.RMAStatusInProgress:
		return "blue", "wrench"
	case constants.RMAStatusCompleted:
		return "green", "check"
	case constants.RMAStatusCancelled:
		return "gray", "x"
	default:
		return "gray", "help"
	}
}
