package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rma-system/internal/dto"
	apperrors "rma-system/pkg/errors"
)

type dbAttachment struct {
	ID         uint64
	RMAID      uint64
	Name       string
	StorageKey string
	FileType   string
	UploadedBy sql.NullInt64
	UploadedAt time.Time
}

func (db *dbAttachment) ToDTO() dto.AttachmentDTO {
	out := dto.AttachmentDTO{
		ID:         db.ID,
		RMAID:      db.RMAID,
		Name:       db.Name,
		StorageKey: db.StorageKey,
		FileType:   db.FileType,
		UploadedAt: db.UploadedAt.Local().Format("2006-01-02 15:04:05"),
	}
	if db.UploadedBy.Valid {
		out.UploadedBy = uint64(db.UploadedBy.Int64)
	}
	return out
}

const attachmentFields = "id, rma_id, name, storage_key, file_type, uploaded_by, uploaded_at"

type AttachmentRepositoryInterface interface {
	Create(ctx context.Context, rmaID uint64, name, storageKey, fileType string, uploadedBy uint64) (*dto.AttachmentDTO, error)
	FindAllByRMAID(ctx context.Context, rmaID uint64) ([]dto.AttachmentDTO, error)
	FindAttachment(ctx context.Context, rmaID, attachmentID uint64) (*dto.AttachmentDTO, error)
}

type attachmentRepository struct{ storage *pgxpool.Pool }

func NewAttachmentRepository(storage *pgxpool.Pool) AttachmentRepositoryInterface {
	return &attachmentRepository{storage: storage}
}

// Create inserts one metadata row per uploaded object. Deliberately not
// transactional with the parent RMA mutation: a failed upload leaves the
// already-written RMA row in place.
func (r *attachmentRepository) Create(ctx context.Context, rmaID uint64, name, storageKey, fileType string, uploadedBy uint64) (*dto.AttachmentDTO, error) {
	query := `
		INSERT INTO attachments (rma_id, name, storage_key, file_type, uploaded_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + attachmentFields
	var dbRow dbAttachment
	err := r.storage.QueryRow(ctx, query, rmaID, name, storageKey, fileType, uploadedBy).Scan(
		&dbRow.ID, &dbRow.RMAID, &dbRow.Name, &dbRow.StorageKey, &dbRow.FileType, &dbRow.UploadedBy, &dbRow.UploadedAt,
	)
	if err != nil {
		return nil, err
	}
	attachmentDTO := dbRow.ToDTO()
	return &attachmentDTO, nil
}

func (r *attachmentRepository) FindAllByRMAID(ctx context.Context, rmaID uint64) ([]dto.AttachmentDTO, error) {
	query := `
		SELECT ` + attachmentFields + `
		FROM attachments
		WHERE rma_id = $1
		ORDER BY uploaded_at DESC`
	rows, err := r.storage.Query(ctx, query, rmaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attachments := make([]dto.AttachmentDTO, 0)
	for rows.Next() {
		var dbRow dbAttachment
		if err := rows.Scan(&dbRow.ID, &dbRow.RMAID, &dbRow.Name, &dbRow.StorageKey, &dbRow.FileType, &dbRow.UploadedBy, &dbRow.UploadedAt); err != nil {
			return nil, err
		}
		attachments = append(attachments, dbRow.ToDTO())
	}
	return attachments, rows.Err()
}

func (r *attachmentRepository) FindAttachment(ctx context.Context, rmaID, attachmentID uint64) (*dto.AttachmentDTO, error) {
	query := `
		SELECT ` + attachmentFields + `
		FROM attachments
		WHERE id = $1 AND rma_id = $2`
	var dbRow dbAttachment
	err := r.storage.QueryRow(ctx, query, attachmentID, rmaID).Scan(
		&dbRow.ID, &dbRow.RMAID, &dbRow.Name, &dbRow.StorageKey, &dbRow.FileType, &dbRow.UploadedBy, &dbRow.UploadedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	attachmentDTO := dbRow.ToDTO()
	return &attachmentDTO, nil
}
