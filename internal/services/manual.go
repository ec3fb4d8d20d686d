package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"rma-system/internal/dto"
	"rma-system/internal/repositories"
	apperrors "rma-system/pkg/errors"
	"rma-system/pkg/objectstorage"
	"rma-system/pkg/types"
)

// folderPlaceholderName is the zero-byte object that marks a folder's
// existence in the flat object store.
const folderPlaceholderName = ".folder"

type ManualServiceInterface interface {
	GetManuals(ctx context.Context, folderPath string, filter types.Filter) ([]dto.ManualDTO, uint64, error)
	Upload(ctx context.Context, userID uint64, folderPath string, payload dto.UploadManualDTO, file *multipart.FileHeader) (*dto.ManualDTO, error)
	CreateFolder(ctx context.Context, folderPath, name string) (string, error)
	Download(ctx context.Context, id uint64) (io.ReadCloser, *dto.ManualDTO, error)
	Delete(ctx context.Context, id uint64) error
}

type ManualService struct {
	manualRepo repositories.ManualRepositoryInterface
	storage    objectstorage.ObjectStorage
	bucket     string
	logger     *zap.Logger
}

func NewManualService(
	manualRepo repositories.ManualRepositoryInterface,
	storage objectstorage.ObjectStorage,
	bucket string,
	logger *zap.Logger,
) ManualServiceInterface {
	return &ManualService{
		manualRepo: manualRepo,
		storage:    storage,
		bucket:     bucket,
		logger:     logger,
	}
}

func (s *ManualService) GetManuals(ctx context.Context, folderPath string, filter types.Filter) ([]dto.ManualDTO, uint64, error) {
	return s.manualRepo.GetManuals(ctx, folderPath, filter)
}

// Upload writes the object first, then the metadata row. An object without a
// row is possible when the insert fails; a row without an object is not.
func (s *ManualService) Upload(ctx context.Context, userID uint64, folderPath string, payload dto.UploadManualDTO, file *multipart.FileHeader) (*dto.ManualDTO, error) {
	src, err := file.Open()
	if err != nil {
		return nil, apperrors.NewHttpError(http.StatusBadRequest, "could not read uploaded file", err, nil)
	}
	defer src.Close()

	key := buildManualKey(folderPath, file.Filename)
	contentType := file.Header.Get("Content-Type")
	if err := s.storage.Upload(ctx, s.bucket, key, src, file.Size, contentType); err != nil {
		s.logger.Error("manual upload failed", zap.String("key", key), zap.Error(err))
		return nil, apperrors.NewHttpError(http.StatusInternalServerError, "failed to upload manual", err, nil)
	}

	manual, err := s.manualRepo.CreateManual(ctx, repositories.CreateManualRecord{
		Name:        file.Filename,
		Title:       payload.Title,
		FilePath:    key,
		FolderPath:  folderPath,
		FileType:    fileExtension(file.Filename),
		Description: payload.Description,
		Size:        file.Size,
		UploadedBy:  userID,
	})
	if err != nil {
		s.logger.Error("manual record insert failed", zap.String("key", key), zap.Error(err))
		return nil, apperrors.NewHttpError(http.StatusInternalServerError, "failed to save manual record", err, nil)
	}

	s.logger.Info("manual uploaded", zap.Uint64("id", manual.ID), zap.String("key", key))
	return manual, nil
}

// CreateFolder uploads the zero-byte placeholder object; folders have no
// metadata row of their own.
func (s *ManualService) CreateFolder(ctx context.Context, folderPath, name string) (string, error) {
	newFolderPath := name
	if folderPath != "" {
		newFolderPath = folderPath + "/" + name
	}

	key := newFolderPath + "/" + folderPlaceholderName
	if err := s.storage.Upload(ctx, s.bucket, key, bytes.NewReader(nil), 0, "application/octet-stream"); err != nil {
		s.logger.Error("folder placeholder upload failed", zap.String("key", key), zap.Error(err))
		return "", apperrors.NewHttpError(http.StatusInternalServerError, "failed to create folder", err, nil)
	}

	s.logger.Info("folder created", zap.String("path", newFolderPath))
	return newFolderPath, nil
}

func (s *ManualService) Download(ctx context.Context, id uint64) (io.ReadCloser, *dto.ManualDTO, error) {
	manual, err := s.manualRepo.FindManual(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	reader, err := s.storage.Download(ctx, s.bucket, manual.FilePath)
	if err != nil {
		s.logger.Error("manual download failed", zap.String("key", manual.FilePath), zap.Error(err))
		return nil, nil, apperrors.NewHttpError(http.StatusInternalServerError, "failed to download manual", err, nil)
	}
	return reader, manual, nil
}

// Delete removes the stored object first and the metadata row only after
// that succeeded. A failed removal keeps the row queryable.
func (s *ManualService) Delete(ctx context.Context, id uint64) error {
	manual, err := s.manualRepo.FindManual(ctx, id)
	if err != nil {
		return err
	}

	if err := s.storage.Remove(ctx, s.bucket, manual.FilePath); err != nil {
		s.logger.Error("manual object removal failed", zap.String("key", manual.FilePath), zap.Error(err))
		return apperrors.NewHttpError(http.StatusInternalServerError, "failed to delete manual file", err, nil)
	}

	if err := s.manualRepo.DeleteManual(ctx, id); err != nil {
		s.logger.Error("manual record delete failed", zap.Uint64("id", id), zap.Error(err))
		return err
	}

	s.logger.Info("manual deleted", zap.Uint64("id", id))
	return nil
}

// buildManualKey prefixes the object key with the current folder, matching the
// folder_path the metadata row will carry.
func buildManualKey(folderPath, fileName string) string {
	name := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), fileName)
	if folderPath == "" {
		return name
	}
	return folderPath + "/" + name
}

func fileExtension(fileName string) string {
	parts := strings.Split(fileName, ".")
	if len(parts) < 2 {
		return "unknown"
	}
	return strings.ToLower(parts[len(parts)-1])
}
