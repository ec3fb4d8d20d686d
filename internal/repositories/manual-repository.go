package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rma-system/internal/dto"
	apperrors "rma-system/pkg/errors"
	"rma-system/pkg/types"
)

type dbManual struct {
	ID          uint64
	Name        string
	Title       string
	FilePath    string
	FolderPath  string
	FileType    string
	Description string
	Size        int64
	UploadedBy  sql.NullInt64
	UploadedAt  time.Time
}

func (db *dbManual) ToDTO() dto.ManualDTO {
	out := dto.ManualDTO{
		ID:          db.ID,
		Name:        db.Name,
		Title:       db.Title,
		FilePath:    db.FilePath,
		FolderPath:  db.FolderPath,
		FileType:    db.FileType,
		Description: db.Description,
		Size:        db.Size,
		UploadedAt:  db.UploadedAt.Local().Format("2006-01-02 15:04:05"),
	}
	if db.UploadedBy.Valid {
		out.UploadedBy = uint64(db.UploadedBy.Int64)
	}
	return out
}

const (
	manualTable  = "manuals"
	manualFields = "id, name, title, file_path, folder_path, file_type, description, size, uploaded_by, uploaded_at"
)

type CreateManualRecord struct {
	Name        string
	Title       string
	FilePath    string
	FolderPath  string
	FileType    string
	Description string
	Size        int64
	UploadedBy  uint64
}

type ManualRepositoryInterface interface {
	GetManuals(ctx context.Context, folderPath string, filter types.Filter) ([]dto.ManualDTO, uint64, error)
	FindManual(ctx context.Context, id uint64) (*dto.ManualDTO, error)
	CreateManual(ctx context.Context, record CreateManualRecord) (*dto.ManualDTO, error)
	DeleteManual(ctx context.Context, id uint64) error
	CountManuals(ctx context.Context) (uint64, error)
}

type manualRepository struct{ storage *pgxpool.Pool }

func NewManualRepository(storage *pgxpool.Pool) ManualRepositoryInterface {
	return &manualRepository{storage: storage}
}

// GetManuals lists one folder level: rows whose folder_path equals the current
// folder exactly, newest first, optionally narrowed by the free-text search.
func (r *manualRepository) GetManuals(ctx context.Context, folderPath string, filter types.Filter) ([]dto.ManualDTO, uint64, error) {
	countBuilder := sq.Select("COUNT(*)").From(manualTable).Where(sq.Eq{"folder_path": folderPath})
	listBuilder := sq.Select(manualFields).From(manualTable).Where(sq.Eq{"folder_path": folderPath})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		cond := sq.Or{
			sq.ILike{"title": pattern},
			sq.ILike{"name": pattern},
			sq.ILike{"description": pattern},
		}
		countBuilder = countBuilder.Where(cond)
		listBuilder = listBuilder.Where(cond)
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
		return []dto.ManualDTO{}, 0, nil
	}

	listBuilder = listBuilder.OrderBy("uploaded_at DESC")
	if filter.WithPagination && filter.Limit > 0 {
		listBuilder = listBuilder.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
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

	manuals := make([]dto.ManualDTO, 0)
	for rows.Next() {
		var dbRow dbManual
		if err := rows.Scan(&dbRow.ID, &dbRow.Name, &dbRow.Title, &dbRow.FilePath, &dbRow.FolderPath,
			&dbRow.FileType, &dbRow.Description, &dbRow.Size, &dbRow.UploadedBy, &dbRow.UploadedAt); err != nil {
			return nil, 0, err
		}
		manuals = append(manuals, dbRow.ToDTO())
	}
	return manuals, total, rows.Err()
}

func (r *manualRepository) FindManual(ctx context.Context, id uint64) (*dto.ManualDTO, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", manualFields, manualTable)
	var dbRow dbManual
	err := r.storage.QueryRow(ctx, query, id).Scan(&dbRow.ID, &dbRow.Name, &dbRow.Title, &dbRow.FilePath,
		&dbRow.FolderPath, &dbRow.FileType, &dbRow.Description, &dbRow.Size, &dbRow.UploadedBy, &dbRow.UploadedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	manualDTO := dbRow.ToDTO()
	return &manualDTO, nil
}

func (r *manualRepository) CreateManual(ctx context.Context, record CreateManualRecord) (*dto.ManualDTO, error) {
	query := fmt.Sprintf(`INSERT INTO %s
		(name, title, file_path, folder_path, file_type, description, size, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s`, manualTable, manualFields)
	var dbRow dbManual
	err := r.storage.QueryRow(ctx, query,
		record.Name, record.Title, record.FilePath, record.FolderPath,
		record.FileType, record.Description, record.Size, record.UploadedBy,
	).Scan(&dbRow.ID, &dbRow.Name, &dbRow.Title, &dbRow.FilePath, &dbRow.FolderPath,
		&dbRow.FileType, &dbRow.Description, &dbRow.Size, &dbRow.UploadedBy, &dbRow.UploadedAt)
	if err != nil {
		return nil, err
	}
	manualDTO := dbRow.ToDTO()
	return &manualDTO, nil
}

func (r *manualRepository) DeleteManual(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", manualTable), id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *manualRepository) CountManuals(ctx context.Context) (uint64, error) {
	var total uint64
	err := r.storage.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", manualTable)).Scan(&total)
	return total, err
}
