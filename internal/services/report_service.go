package services

import (
	"context"

	"rma-system/internal/dto"
	"rma-system/internal/repositories"
	"rma-system/pkg/types"
)

type ReportServiceInterface interface {
	GetRMAReport(ctx context.Context, filter types.Filter) ([]dto.RMADTO, uint64, error)
}

type ReportService struct {
	rmaRepo repositories.RMARepositoryInterface
}

func NewReportService(rmaRepo repositories.RMARepositoryInterface) ReportServiceInterface {
	return &ReportService{rmaRepo: rmaRepo}
}

func (s *ReportService) GetRMAReport(ctx context.Context, filter types.Filter) ([]dto.RMADTO, uint64, error) {
	return s.rmaRepo.GetRMAs(ctx, filter)
}
