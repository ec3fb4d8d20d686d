package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"rma-system/internal/dto"
	"rma-system/internal/infrastructure/bd"
	apperrors "rma-system/pkg/errors"
	"rma-system/pkg/types"
	"rma-system/pkg/utils"
)

type dbRMA struct {
	ID                  uint64
	RMANumber           string
	ErpCode             string
	ProductName         string
	SerialNumber        string
	IssueDescription    string
	Status              string
	CustomerName        string
	CustomerEmail       string
	BoundMachine        bool
	BoundMachineErp     sql.NullString
	BoundMachineSerial  sql.NullString
	RepairTechnician    sql.NullString
	RepairSentDate      sql.NullTime
	RepairEstimatedCost sql.NullFloat64
	RepairExternalRMA   sql.NullString
	Notes               []string
	CreatedAt           time.Time
	UpdatedAt           sql.NullTime
}

func (db *dbRMA) scanTargets() []interface{} {
	return []interface{}{
		&db.ID, &db.RMANumber, &db.ErpCode, &db.ProductName, &db.SerialNumber,
		&db.IssueDescription, &db.Status, &db.CustomerName, &db.CustomerEmail,
		&db.BoundMachine, &db.BoundMachineErp, &db.BoundMachineSerial,
		&db.RepairTechnician, &db.RepairSentDate, &db.RepairEstimatedCost,
		&db.RepairExternalRMA, &db.Notes, &db.CreatedAt, &db.UpdatedAt,
	}
}

func (db *dbRMA) ToDTO() dto.RMADTO {
	out := dto.RMADTO{
		ID:                 db.ID,
		RMANumber:          db.RMANumber,
		ErpCode:            db.ErpCode,
		ProductName:        db.ProductName,
		SerialNumber:       db.SerialNumber,
		IssueDescription:   db.IssueDescription,
		Status:             db.Status,
		CustomerName:       db.CustomerName,
		CustomerEmail:      db.CustomerEmail,
		BoundMachine:       db.BoundMachine,
		BoundMachineErp:    utils.NullStringToString(db.BoundMachineErp),
		BoundMachineSerial: utils.NullStringToString(db.BoundMachineSerial),
		Notes:              db.Notes,
		DateCreated:        db.CreatedAt.Local().Format("2006-01-02 15:04:05"),
		UpdatedAt:          utils.NullTimeToEmptyString(db.UpdatedAt),
	}
	if out.Notes == nil {
		out.Notes = []string{}
	}
	if db.RepairTechnician.Valid {
		out.RepairInfo = &dto.RepairInfoDTO{
			Technician:        db.RepairTechnician.String,
			SentDate:          utils.NullTimeToEmptyString(db.RepairSentDate),
			EstimatedCost:     utils.NullFloat64ToFloat64(db.RepairEstimatedCost),
			ExternalRMANumber: utils.NullStringToString(db.RepairExternalRMA),
		}
	}
	return out
}

const (
	rmaTable  = "rmas"
	rmaFields = "id, rma_number, erp_code, product_name, serial_number, issue_description, status, customer_name, customer_email, bound_machine, bound_machine_erp, bound_machine_serial, repair_technician, repair_sent_date, repair_estimated_cost, repair_external_rma, notes, created_at, updated_at"
)

// rmaSearchColumns is the fixed field set the free-text search matches against.
var rmaSearchColumns = []string{"rma_number", "erp_code", "product_name", "serial_number", "customer_name"}

var rmaAllowedFilterFields = map[string]string{"status": "status"}
var rmaAllowedSortFields = map[string]string{"status": "status", "created_at": "created_at", "rma_number": "rma_number"}

type RMARepositoryInterface interface {
	GetRMAs(ctx context.Context, filter types.Filter) ([]dto.RMADTO, uint64, error)
	FindRMA(ctx context.Context, id uint64) (*dto.RMADTO, error)
	CreateRMA(ctx context.Context, payload dto.CreateRMADTO, rmaNumber, status string) (*dto.RMADTO, error)
	UpdateRMA(ctx context.Context, id uint64, payload dto.UpdateRMADTO) (*dto.RMADTO, error)
	UpdateStatus(ctx context.Context, id uint64, status string) (*dto.RMADTO, error)
	DeleteRMA(ctx context.Context, id uint64) error
}

type rmaRepository struct{ storage *pgxpool.Pool }

func NewRMARepository(storage *pgxpool.Pool) RMARepositoryInterface {
	return &rmaRepository{storage: storage}
}

func rmaSearchCondition(search string) sq.Sqlizer {
	pattern := "%" + search + "%"
	or := make(sq.Or, 0, len(rmaSearchColumns))
	for _, col := range rmaSearchColumns {
		or = append(or, sq.ILike{col: pattern})
	}
	return or
}

func (r *rmaRepository) GetRMAs(ctx context.Context, filter types.Filter) ([]dto.RMADTO, uint64, error) {
	// "all" means no status constraint
	if s, ok := filter.Filter["status"].(string); ok && (s == "all" || s == "") {
		delete(filter.Filter, "status")
	}

	countBuilder := sq.Select("COUNT(*)").From(rmaTable)
	listBuilder := sq.Select(rmaFields).From(rmaTable)

	if filter.Search != "" {
		cond := rmaSearchCondition(filter.Search)
		countBuilder = countBuilder.Where(cond)
		listBuilder = listBuilder.Where(cond)
	}

	countBuilder = bd.ApplyFilters(countBuilder, filter, rmaAllowedFilterFields)
	listBuilder = bd.ApplyListParams(listBuilder, filter, mergeMaps(rmaAllowedFilterFields, rmaAllowedSortFields))
	if len(filter.Sort) == 0 {
		listBuilder = listBuilder.OrderBy("created_at DESC")
	}

	countQuery, countArgs, err := countBuilder.PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []dto.RMADTO{}, 0, nil
	}

	query, args, err := listBuilder.PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	rmas := make([]dto.RMADTO, 0)
	for rows.Next() {
		var dbRow dbRMA
		if err := rows.Scan(dbRow.scanTargets()...); err != nil {
			return nil, 0, err
		}
		rmas = append(rmas, dbRow.ToDTO())
	}
	return rmas, total, rows.Err()
}

func (r *rmaRepository) FindRMA(ctx context.Context, id uint64) (*dto.RMADTO, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", rmaFields, rmaTable)
	var dbRow dbRMA
	err := r.storage.QueryRow(ctx, query, id).Scan(dbRow.scanTargets()...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	rmaDTO := dbRow.ToDTO()
	return &rmaDTO, nil
}

func (r *rmaRepository) CreateRMA(ctx context.Context, payload dto.CreateRMADTO, rmaNumber, status string) (*dto.RMADTO, error) {
	query := fmt.Sprintf(`INSERT INTO %s
		(rma_number, erp_code, product_name, serial_number, issue_description, status, customer_name, customer_email, bound_machine, bound_machine_erp, bound_machine_serial, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, ''), NULLIF($11, ''), $12)
		RETURNING %s`, rmaTable, rmaFields)

	notes := payload.Notes
	if notes == nil {
		notes = []string{}
	}

	var dbRow dbRMA
	err := r.storage.QueryRow(ctx, query,
		rmaNumber, payload.ErpCode, payload.ProductName, payload.SerialNumber,
		payload.IssueDescription, status, payload.CustomerName, payload.CustomerEmail,
		payload.BoundMachine, payload.BoundMachineErp, payload.BoundMachineSerial, notes,
	).Scan(dbRow.scanTargets()...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperrors.ErrConflict
		}
		return nil, err
	}
	rmaDTO := dbRow.ToDTO()
	return &rmaDTO, nil
}

func (r *rmaRepository) UpdateRMA(ctx context.Context, id uint64, payload dto.UpdateRMADTO) (*dto.RMADTO, error) {
	var setClauses []string
	var args []interface{}
	argID := 1

	addSet := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argID))
		args = append(args, value)
		argID++
	}

	if payload.ErpCode.Valid {
		addSet("erp_code", payload.ErpCode.String)
	}
	if payload.ProductName.Valid {
		addSet("product_name", payload.ProductName.String)
	}
	if payload.SerialNumber.Valid {
		addSet("serial_number", payload.SerialNumber.String)
	}
	if payload.IssueDescription.Valid {
		addSet("issue_description", payload.IssueDescription.String)
	}
	if payload.Status.Valid {
		addSet("status", payload.Status.String)
	}
	if payload.CustomerName.Valid {
		addSet("customer_name", payload.CustomerName.String)
	}
	if payload.CustomerEmail.Valid {
		addSet("customer_email", payload.CustomerEmail.String)
	}
	if payload.BoundMachine.Valid {
		addSet("bound_machine", payload.BoundMachine.Bool)
	}
	if payload.BoundMachineErp.Valid {
		addSet("bound_machine_erp", payload.BoundMachineErp.String)
	}
	if payload.BoundMachineSerial.Valid {
		addSet("bound_machine_serial", payload.BoundMachineSerial.String)
	}
	if payload.RepairInfo != nil {
		addSet("repair_technician", payload.RepairInfo.Technician)
		addSet("repair_estimated_cost", payload.RepairInfo.EstimatedCost)
		addSet("repair_external_rma", payload.RepairInfo.ExternalRMANumber)
		if t, err := time.Parse("2006-01-02", payload.RepairInfo.SentDate); err == nil {
			addSet("repair_sent_date", t)
		}
	}
	if payload.Notes != nil {
		addSet("notes", *payload.Notes)
	}

	if len(setClauses) == 0 {
		return r.FindRMA(ctx, id)
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING %s",
		rmaTable, strings.Join(setClauses, ", "), argID, rmaFields)
	args = append(args, id)

	var dbRow dbRMA
	err := r.storage.QueryRow(ctx, query, args...).Scan(dbRow.scanTargets()...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	rmaDTO := dbRow.ToDTO()
	return &rmaDTO, nil
}

func (r *rmaRepository) UpdateStatus(ctx context.Context, id uint64, status string) (*dto.RMADTO, error) {
	query := fmt.Sprintf("UPDATE %s SET status = $1, updated_at = NOW() WHERE id = $2 RETURNING %s", rmaTable, rmaFields)
	var dbRow dbRMA
	err := r.storage.QueryRow(ctx, query, status, id).Scan(dbRow.scanTargets()...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	rmaDTO := dbRow.ToDTO()
	return &rmaDTO, nil
}

func (r *rmaRepository) DeleteRMA(ctx context.Context, id uint64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", rmaTable)
	result, err := r.storage.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func mergeMaps(maps ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}
