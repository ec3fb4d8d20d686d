package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"rma-system/internal/dto"
	"rma-system/internal/entities"
	"rma-system/internal/repositories"
	"rma-system/pkg/types"
)

// Hand-rolled fakes for the repository and storage interfaces. They keep the
// tests independent of postgres, redis and minio.

type uploadCall struct {
	Bucket      string
	Key         string
	Size        int64
	ContentType string
}

type fakeStorage struct {
	mu          sync.Mutex
	uploads     []uploadCall
	removed     []string
	uploadErr   error
	removeErr   error
	downloadErr error
}

func (f *fakeStorage) Upload(ctx context.Context, bucket, key string, reader io.Reader, size int64, contentType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.uploads = append(f.uploads, uploadCall{Bucket: bucket, Key: key, Size: size, ContentType: contentType})
	return nil
}

func (f *fakeStorage) Download(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	if f.downloadErr != nil {
		return nil, f.downloadErr
	}
	return io.NopCloser(strings.NewReader("file contents")), nil
}

func (f *fakeStorage) Remove(ctx context.Context, bucket, key string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, key)
	return nil
}

type fakeRMARepo struct {
	rmas    map[uint64]dto.RMADTO
	nextID  uint64
	deleted []uint64

	createdStatus string
	createdNumber string
}

func newFakeRMARepo() *fakeRMARepo {
	return &fakeRMARepo{rmas: make(map[uint64]dto.RMADTO), nextID: 1}
}

func (f *fakeRMARepo) GetRMAs(ctx context.Context, filter types.Filter) ([]dto.RMADTO, uint64, error) {
	out := make([]dto.RMADTO, 0, len(f.rmas))
	for _, rma := range f.rmas {
		out = append(out, rma)
	}
	return out, uint64(len(out)), nil
}

func (f *fakeRMARepo) FindRMA(ctx context.Context, id uint64) (*dto.RMADTO, error) {
	rma, ok := f.rmas[id]
	if !ok {
		return nil, errNotFoundSentinel
	}
	found := rma
	return &found, nil
}

func (f *fakeRMARepo) CreateRMA(ctx context.Context, payload dto.CreateRMADTO, rmaNumber, status string) (*dto.RMADTO, error) {
	id := f.nextID
	f.nextID++
	rma := dto.RMADTO{
		ID:           id,
		RMANumber:    rmaNumber,
		ErpCode:      payload.ErpCode,
		ProductName:  payload.ProductName,
		SerialNumber: payload.SerialNumber,
		Status:       status,
		CustomerName: payload.CustomerName,
	}
	f.rmas[id] = rma
	f.createdStatus = status
	f.createdNumber = rmaNumber
	created := rma
	return &created, nil
}

func (f *fakeRMARepo) UpdateRMA(ctx context.Context, id uint64, payload dto.UpdateRMADTO) (*dto.RMADTO, error) {
	return f.FindRMA(ctx, id)
}

func (f *fakeRMARepo) UpdateStatus(ctx context.Context, id uint64, status string) (*dto.RMADTO, error) {
	rma, ok := f.rmas[id]
	if !ok {
		return nil, errNotFoundSentinel
	}
	rma.Status = status
	f.rmas[id] = rma
	updated := rma
	return &updated, nil
}

func (f *fakeRMARepo) DeleteRMA(ctx context.Context, id uint64) error {
	if _, ok := f.rmas[id]; !ok {
		return errNotFoundSentinel
	}
	delete(f.rmas, id)
	f.deleted = append(f.deleted, id)
	return nil
}

var errNotFoundSentinel = errors.New("not found")

type fakeAttachmentRepo struct {
	attachments []dto.AttachmentDTO
	nextID      uint64
	createErr   error
}

func (f *fakeAttachmentRepo) Create(ctx context.Context, rmaID uint64, name, storageKey, fileType string, uploadedBy uint64) (*dto.AttachmentDTO, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	att := dto.AttachmentDTO{ID: f.nextID, RMAID: rmaID, Name: name, StorageKey: storageKey, FileType: fileType}
	f.attachments = append(f.attachments, att)
	created := att
	return &created, nil
}

func (f *fakeAttachmentRepo) FindAllByRMAID(ctx context.Context, rmaID uint64) ([]dto.AttachmentDTO, error) {
	var out []dto.AttachmentDTO
	for _, att := range f.attachments {
		if att.RMAID == rmaID {
			out = append(out, att)
		}
	}
	return out, nil
}

func (f *fakeAttachmentRepo) FindAttachment(ctx context.Context, rmaID, attachmentID uint64) (*dto.AttachmentDTO, error) {
	for _, att := range f.attachments {
		if att.RMAID == rmaID && att.ID == attachmentID {
			found := att
			return &found, nil
		}
	}
	return nil, errNotFoundSentinel
}

type fakeManualRepo struct {
	manuals   map[uint64]dto.ManualDTO
	nextID    uint64
	deleted   []uint64
	createErr error
	total     uint64
}

func newFakeManualRepo() *fakeManualRepo {
	return &fakeManualRepo{manuals: make(map[uint64]dto.ManualDTO)}
}

func (f *fakeManualRepo) GetManuals(ctx context.Context, folderPath string, filter types.Filter) ([]dto.ManualDTO, uint64, error) {
	var out []dto.ManualDTO
	for _, m := range f.manuals {
		if m.FolderPath == folderPath {
			out = append(out, m)
		}
	}
	return out, uint64(len(out)), nil
}

func (f *fakeManualRepo) FindManual(ctx context.Context, id uint64) (*dto.ManualDTO, error) {
	m, ok := f.manuals[id]
	if !ok {
		return nil, errNotFoundSentinel
	}
	found := m
	return &found, nil
}

func (f *fakeManualRepo) CreateManual(ctx context.Context, record repositories.CreateManualRecord) (*dto.ManualDTO, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	m := dto.ManualDTO{
		ID:          f.nextID,
		Name:        record.Name,
		Title:       record.Title,
		FilePath:    record.FilePath,
		FolderPath:  record.FolderPath,
		FileType:    record.FileType,
		Description: record.Description,
		Size:        record.Size,
		UploadedBy:  record.UploadedBy,
	}
	f.manuals[f.nextID] = m
	created := m
	return &created, nil
}

func (f *fakeManualRepo) DeleteManual(ctx context.Context, id uint64) error {
	if _, ok := f.manuals[id]; !ok {
		return errNotFoundSentinel
	}
	delete(f.manuals, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeManualRepo) CountManuals(ctx context.Context) (uint64, error) {
	if f.total != 0 {
		return f.total, nil
	}
	return uint64(len(f.manuals)), nil
}

type fakeCacheRepo struct {
	mu     sync.Mutex
	values map[string]string
	counts map[string]int64
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{values: make(map[string]string), counts: make(map[string]int64)}
}

func (f *fakeCacheRepo) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch v := value.(type) {
	case string:
		f.values[key] = v
	case uint64:
		f.values[key] = strconv.FormatUint(v, 10)
	default:
		f.values[key] = fmt.Sprint(v)
	}
	return nil
}

func (f *fakeCacheRepo) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	if !ok {
		return "", errNotFoundSentinel
	}
	return v, nil
}

func (f *fakeCacheRepo) Del(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.values, key)
		delete(f.counts, key)
	}
	return nil
}

func (f *fakeCacheRepo) Incr(ctx context.Context, key string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[key]++
	f.values[key] = strconv.FormatInt(f.counts[key], 10)
	return f.counts[key], nil
}

func (f *fakeCacheRepo) Expire(ctx context.Context, key string, expiration time.Duration) (bool, error) {
	return true, nil
}

type fakeUserRepo struct {
	users      map[uint64]entities.User
	nextID     uint64
	deleted    []uint64
	roles      map[uint64]string
	passwords  map[uint64]string
	profileErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:     make(map[uint64]entities.User),
		roles:     make(map[uint64]string),
		passwords: make(map[uint64]string),
	}
}

func (f *fakeUserRepo) GetUsers(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error) {
	out := make([]entities.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, uint64(len(out)), nil
}

func (f *fakeUserRepo) FindUser(ctx context.Context, id uint64) (*entities.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, errNotFoundSentinel
	}
	found := u
	return &found, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			found := u
			return &found, nil
		}
	}
	return nil, errNotFoundSentinel
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, tx pgx.Tx, email, passwordHash string) (uint64, error) {
	f.nextID++
	f.users[f.nextID] = entities.User{ID: f.nextID, Email: email, Password: passwordHash, CreatedAt: time.Now()}
	return f.nextID, nil
}

func (f *fakeUserRepo) CreateProfile(ctx context.Context, tx pgx.Tx, userID uint64, fullName, role string) error {
	if f.profileErr != nil {
		return f.profileErr
	}
	u := f.users[userID]
	u.FullName.String, u.FullName.Valid = fullName, true
	u.Role.String, u.Role.Valid = role, true
	u.IsActive.Bool, u.IsActive.Valid = true, true
	f.users[userID] = u
	return nil
}

func (f *fakeUserRepo) UpdateRole(ctx context.Context, userID uint64, role string) error {
	u, ok := f.users[userID]
	if !ok {
		return errNotFoundSentinel
	}
	u.Role.String, u.Role.Valid = role, true
	f.users[userID] = u
	f.roles[userID] = role
	return nil
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, userID uint64, passwordHash string) error {
	u, ok := f.users[userID]
	if !ok {
		return errNotFoundSentinel
	}
	u.Password = passwordHash
	f.users[userID] = u
	f.passwords[userID] = passwordHash
	return nil
}

func (f *fakeUserRepo) DeleteUser(ctx context.Context, id uint64) error {
	if _, ok := f.users[id]; !ok {
		return errNotFoundSentinel
	}
	delete(f.users, id)
	f.deleted = append(f.deleted, id)
	return nil
}

// fakeTxManager runs the body directly; there is no real transaction to
// commit or roll back.
type fakeTxManager struct{}

func (f *fakeTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

type fakeDashboardRepo struct {
	counts []repositories.StatusCount
	recent []dto.RMADTO
}

func (f *fakeDashboardRepo) GetCountByStatus(ctx context.Context) ([]repositories.StatusCount, error) {
	return f.counts, nil
}

func (f *fakeDashboardRepo) GetRecentRMAs(ctx context.Context, limit uint64) ([]dto.RMADTO, error) {
	if uint64(len(f.recent)) > limit {
		return f.recent[:limit], nil
	}
	return f.recent, nil
}

