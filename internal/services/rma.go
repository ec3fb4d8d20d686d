package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"rma-system/internal/dto"
	"rma-system/internal/repositories"
	"rma-system/pkg/constants"
	apperrors "rma-system/pkg/errors"
	"rma-system/pkg/objectstorage"
	"rma-system/pkg/types"
)

type RMAServiceInterface interface {
	GetRMAs(ctx context.Context, filter types.Filter) ([]dto.RMADTO, uint64, error)
	FindRMA(ctx context.Context, id uint64) (*dto.RMADTO, error)
	CreateRMA(ctx context.Context, userID uint64, payload dto.CreateRMADTO, files []*multipart.FileHeader) (*dto.RMADTO, error)
	UpdateRMA(ctx context.Context, userID uint64, id uint64, payload dto.UpdateRMADTO, files []*multipart.FileHeader) (*dto.RMADTO, error)
	ToggleStatus(ctx context.Context, id uint64) (*dto.RMADTO, error)
	DeleteRMA(ctx context.Context, id uint64) error
	DownloadAttachment(ctx context.Context, rmaID, attachmentID uint64) (io.ReadCloser, *dto.AttachmentDTO, error)
}

type RMAService struct {
	rmaRepo    repositories.RMARepositoryInterface
	attachRepo repositories.AttachmentRepositoryInterface
	storage    objectstorage.ObjectStorage
	bucket     string
	logger     *zap.Logger
}

func NewRMAService(
	rmaRepo repositories.RMARepositoryInterface,
	attachRepo repositories.AttachmentRepositoryInterface,
	storage objectstorage.ObjectStorage,
	bucket string,
	logger *zap.Logger,
) RMAServiceInterface {
	return &RMAService{
		rmaRepo:    rmaRepo,
		attachRepo: attachRepo,
		storage:    storage,
		bucket:     bucket,
		logger:     logger,
	}
}

func (s *RMAService) GetRMAs(ctx context.Context, filter types.Filter) ([]dto.RMADTO, uint64, error) {
	// "all" and the empty string mean no constraint; anything else must be a
	// real status, not a silent empty result
	if status, ok := filter.Filter["status"].(string); ok && status != "" && status != "all" {
		if !constants.IsValidRMAStatus(status) {
			return nil, 0, apperrors.NewHttpError(http.StatusBadRequest,
				fmt.Sprintf("unknown status %q", status), nil, nil)
		}
	}
	return s.rmaRepo.GetRMAs(ctx, filter)
}

func (s *RMAService) FindRMA(ctx context.Context, id uint64) (*dto.RMADTO, error) {
	rma, err := s.rmaRepo.FindRMA(ctx, id)
	if err != nil {
		return nil, err
	}
	attachments, err := s.attachRepo.FindAllByRMAID(ctx, id)
	if err != nil {
		s.logger.Error("failed to load attachments", zap.Uint64("rmaID", id), zap.Error(err))
		return nil, err
	}
	rma.Attachments = attachments
	return rma, nil
}

func (s *RMAService) CreateRMA(ctx context.Context, userID uint64, payload dto.CreateRMADTO, files []*multipart.FileHeader) (*dto.RMADTO, error) {
	rmaNumber := payload.RMANumber
	if rmaNumber == "" {
		rmaNumber = generateRMANumber()
	}

	rma, err := s.rmaRepo.CreateRMA(ctx, payload, rmaNumber, constants.RMAStatusDefault)
	if err != nil {
		s.logger.Error("failed to create RMA", zap.Error(err))
		return nil, err
	}
	s.logger.Info("RMA created", zap.Uint64("id", rma.ID), zap.String("rma_number", rma.RMANumber))

	if err := s.uploadAttachments(ctx, userID, rma.ID, files); err != nil {
		// The RMA row is already committed; uploads are not rolled back.
		return nil, err
	}

	return s.FindRMA(ctx, rma.ID)
}

func (s *RMAService) UpdateRMA(ctx context.Context, userID uint64, id uint64, payload dto.UpdateRMADTO, files []*multipart.FileHeader) (*dto.RMADTO, error) {
	rma, err := s.rmaRepo.UpdateRMA(ctx, id, payload)
	if err != nil {
		return nil, err
	}

	if err := s.uploadAttachments(ctx, userID, rma.ID, files); err != nil {
		return nil, err
	}

	return s.FindRMA(ctx, id)
}

// uploadAttachments pushes files one at a time: object first, metadata row
// second. The first failure stops the sequence; completed uploads stay.
func (s *RMAService) uploadAttachments(ctx context.Context, userID, rmaID uint64, files []*multipart.FileHeader) error {
	for _, fileHeader := range files {
		src, err := fileHeader.Open()
		if err != nil {
			return apperrors.NewHttpError(http.StatusBadRequest, "could not read uploaded file", err,
				map[string]interface{}{"file": fileHeader.Filename})
		}

		key := fmt.Sprintf("%d/%s%s", rmaID, uuid.New().String(), filepath.Ext(fileHeader.Filename))
		contentType := fileHeader.Header.Get("Content-Type")
		err = s.storage.Upload(ctx, s.bucket, key, src, fileHeader.Size, contentType)
		src.Close()
		if err != nil {
			s.logger.Error("attachment upload failed",
				zap.Uint64("rmaID", rmaID), zap.String("file", fileHeader.Filename), zap.Error(err))
			return apperrors.NewHttpError(http.StatusInternalServerError, "failed to upload attachment", err, nil)
		}

		if _, err := s.attachRepo.Create(ctx, rmaID, fileHeader.Filename, key, "document", userID); err != nil {
			s.logger.Error("attachment record insert failed",
				zap.Uint64("rmaID", rmaID), zap.String("key", key), zap.Error(err))
			return apperrors.NewHttpError(http.StatusInternalServerError, "failed to save attachment record", err, nil)
		}
	}
	return nil
}

// ToggleStatus flips an RMA between in-progress and completed. Toggling twice
// always restores the original value; other statuses are not toggleable.
func (s *RMAService) ToggleStatus(ctx context.Context, id uint64) (*dto.RMADTO, error) {
	rma, err := s.rmaRepo.FindRMA(ctx, id)
	if err != nil {
		return nil, err
	}

	var next string
	switch rma.Status {
	case constants.RMAStatusInProgress:
		next = constants.RMAStatusCompleted
	case constants.RMAStatusCompleted:
		next = constants.RMAStatusInProgress
	default:
		return nil, apperrors.NewHttpError(http.StatusConflict,
			fmt.Sprintf("status %q cannot be toggled", rma.Status), nil, nil)
	}

	return s.rmaRepo.UpdateStatus(ctx, id, next)
}

// DeleteRMA removes the record only; attachment rows and stored objects are
// intentionally left behind.
func (s *RMAService) DeleteRMA(ctx context.Context, id uint64) error {
	return s.rmaRepo.DeleteRMA(ctx, id)
}

func (s *RMAService) DownloadAttachment(ctx context.Context, rmaID, attachmentID uint64) (io.ReadCloser, *dto.AttachmentDTO, error) {
	attachment, err := s.attachRepo.FindAttachment(ctx, rmaID, attachmentID)
	if err != nil {
		return nil, nil, err
	}
	reader, err := s.storage.Download(ctx, s.bucket, attachment.StorageKey)
	if err != nil {
		s.logger.Error("attachment download failed", zap.String("key", attachment.StorageKey), zap.Error(err))
		return nil, nil, apperrors.NewHttpError(http.StatusInternalServerError, "failed to download attachment", err, nil)
	}
	return reader, attachment, nil
}

func generateRMANumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("RMA-%s-%s", time.Now().Format("20060102"), suffix)
}
