package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"cosecdesk/config"
	"cosecdesk/internal/domain"
	"cosecdesk/internal/repository"
	"cosecdesk/internal/storage"
	"cosecdesk/pkg/metrics"
)

// Uploader stores one image and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, token, specialistID string, file domain.ImageFile) (string, error)
	Discard(ctx context.Context, url string) error
}

type RemoteUploader struct {
	repo repository.MediaRepository
}

func NewRemoteUploader(repo repository.MediaRepository) *RemoteUploader {
	return &RemoteUploader{repo: repo}
}

func (u *RemoteUploader) Upload(ctx context.Context, token, specialistID string, file domain.ImageFile) (string, error) {
	return u.repo.Upload(ctx, token, domain.UploadRequest{
		File:         file,
		SpecialistID: specialistID,
		DisplayOrder: file.Slot.DisplayOrder(),
		MediaType:    domain.MediaTypeProfile,
	})
}

// Discard is a no-op: the media endpoint has no delete operation.
func (u *RemoteUploader) Discard(context.Context, string) error {
	return nil
}

type StorageUploader struct {
	storage storage.ImageStorage
}

func NewStorageUploader(s storage.ImageStorage) *StorageUploader {
	return &StorageUploader{storage: s}
}

func (u *StorageUploader) Upload(ctx context.Context, token, specialistID string, file domain.ImageFile) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", domain.ErrUnauthenticated
	}
	url, err := u.storage.PutImage(ctx, specialistID, file)
	if err != nil {
		return "", &domain.RemoteError{Err: err}
	}
	return url, nil
}

func (u *StorageUploader) Discard(ctx context.Context, url string) error {
	return u.storage.DeleteImage(ctx, url)
}

type MediaServiceImpl struct {
	uploader Uploader
	cfg      config.MediaConfig
	metrics  *metrics.DashboardMetrics
	logger   *zap.Logger
}

func NewMediaService(uploader Uploader, cfg config.MediaConfig, m *metrics.DashboardMetrics, logger *zap.Logger) *MediaServiceImpl {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = domain.MaxImageBytes
	}
	if len(cfg.AllowedMimeTypes) == 0 {
		cfg.AllowedMimeTypes = []string{"image/jpeg", "image/png", "image/webp"}
	}
	return &MediaServiceImpl{
		uploader: uploader,
		cfg:      cfg,
		metrics:  m,
		logger:   logger,
	}
}

// Check is the advisory gate run before any upload starts. The returned file
// carries the sniffed MIME type when none was declared.
func (s *MediaServiceImpl) Check(file domain.ImageFile) (domain.ImageFile, error) {
	if file.Size() == 0 {
		return file, &domain.UploadRejection{Reason: "File is empty!"}
	}

	if file.Size() >= s.cfg.MaxUploadBytes {
		s.logger.Warn("файл превышает допустимый размер",
			zap.String("slot", string(file.Slot)),
			zap.Int("size", file.Size()))
		return file, &domain.UploadRejection{
			Reason: fmt.Sprintf("Image must be smaller than %dMB!", s.cfg.MaxUploadBytes/(1024*1024)),
		}
	}

	detected := mimetype.Detect(file.Data)
	declared := strings.ToLower(strings.TrimSpace(file.MimeType))
	if declared == "" {
		declared = detected.String()
	}

	if !s.allowed(declared) || !s.detectedAllowed(detected) {
		s.logger.Warn("недопустимый тип файла",
			zap.String("slot", string(file.Slot)),
			zap.String("declared", declared),
			zap.String("detected", detected.String()))
		return file, &domain.UploadRejection{Reason: "You can only upload JPG/PNG/WEBP files!"}
	}

	file.MimeType = declared
	return file, nil
}

func (s *MediaServiceImpl) allowed(mime string) bool {
	for _, allowed := range s.cfg.AllowedMimeTypes {
		if strings.EqualFold(allowed, mime) {
			return true
		}
	}
	return false
}

func (s *MediaServiceImpl) detectedAllowed(detected *mimetype.MIME) bool {
	for _, allowed := range s.cfg.AllowedMimeTypes {
		if detected.Is(allowed) {
			return true
		}
	}
	return false
}

func (s *MediaServiceImpl) Upload(ctx context.Context, identity domain.Identity, specialistID string, file domain.ImageFile) (string, error) {
	if err := identity.Ready(); err != nil {
		return "", err
	}

	url, err := s.uploader.Upload(ctx, identity.Token, specialistID, file)
	s.metrics.ObserveUpload(string(file.Slot), err)
	if err != nil {
		s.logger.Error("ошибка загрузки изображения",
			zap.String("specialistID", specialistID),
			zap.String("slot", string(file.Slot)),
			zap.Error(err))
		return "", domain.WithFallback(err, "Upload failed")
	}
	return url, nil
}

// Discard removes an uploaded image that was superseded before use.
func (s *MediaServiceImpl) Discard(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.uploader.Discard(ctx, url); err != nil {
		s.logger.Warn("не удалось удалить неиспользованное изображение", zap.String("url", url), zap.Error(err))
	}
}
