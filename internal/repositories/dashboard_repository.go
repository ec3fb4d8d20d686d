package repositories

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"rma-system/internal/dto"
)

type StatusCount struct {
	Status string
	Count  uint64
}

type DashboardRepositoryInterface interface {
	GetCountByStatus(ctx context.Context) ([]StatusCount, error)
	GetRecentRMAs(ctx context.Context, limit uint64) ([]dto.RMADTO, error)
}

type dashboardRepository struct{ storage *pgxpool.Pool }

func NewDashboardRepository(storage *pgxpool.Pool) DashboardRepositoryInterface {
	return &dashboardRepository{storage: storage}
}

func (r *dashboardRepository) GetCountByStatus(ctx context.Context) ([]StatusCount, error) {
	query, args, err := sq.Select("status", "COUNT(*)").
		From(rmaTable).
		GroupBy("status").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make([]StatusCount, 0)
	for rows.Next() {
		var c StatusCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (r *dashboardRepository) GetRecentRMAs(ctx context.Context, limit uint64) ([]dto.RMADTO, error) {
	query, args, err := sq.Select(rmaFields).
		From(rmaTable).
		OrderBy("created_at DESC").
		Limit(limit).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rmas := make([]dto.RMADTO, 0)
	for rows.Next() {
		var dbRow dbRMA
		if err := rows.Scan(dbRow.scanTargets()...); err != nil {
			return nil, err
		}
		rmas = append(rmas, dbRow.ToDTO())
	}
	return rmas, rows.Err()
}
