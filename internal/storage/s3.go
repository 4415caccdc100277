package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"cosecdesk/config"
	"cosecdesk/internal/domain"
)

const objectPrefix = "specialists"

type S3Storage struct {
	client *minio.Client
	cfg    config.S3Config
	logger *zap.Logger
}

func NewS3Storage(cfg config.S3Config, logger *zap.Logger) (*S3Storage, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("не задан S3_ENDPOINT")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации клиента S3: %w", err)
	}

	return &S3Storage{
		client: client,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// EnsureBucket creates the configured bucket on first start.
func (s *S3Storage) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.cfg.Bucket)
	if err != nil {
		return fmt.Errorf("ошибка проверки существования бакета: %w", err)
	}
	if exists {
		return nil
	}

	if err := s.client.MakeBucket(ctx, s.cfg.Bucket, minio.MakeBucketOptions{Region: s.cfg.Region}); err != nil {
		return fmt.Errorf("ошибка создания бакета: %w", err)
	}
	s.logger.Info("Создан бакет для изображений", zap.String("bucket", s.cfg.Bucket))
	return nil
}

func (s *S3Storage) PutImage(ctx context.Context, specialistID string, file domain.ImageFile) (string, error) {
	if file.Size() == 0 {
		return "", errors.New("пустые данные файла")
	}

	contentType := file.MimeType
	if contentType == "" {
		contentType = mimetype.Detect(file.Data).String()
	}

	objectName := s.objectName(specialistID, file)
	_, err := s.client.PutObject(ctx, s.cfg.Bucket, objectName, bytes.NewReader(file.Data), int64(file.Size()), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		s.logger.Error("Ошибка загрузки изображения в S3",
			zap.String("object", objectName),
			zap.Error(err))
		return "", fmt.Errorf("ошибка загрузки файла в S3: %w", err)
	}

	return s.publicURL(objectName), nil
}

func (s *S3Storage) DeleteImage(ctx context.Context, fileURL string) error {
	if fileURL == "" {
		return nil
	}

	objectName, err := s.objectFromURL(fileURL)
	if err != nil {
		return err
	}

	if err := s.client.RemoveObject(ctx, s.cfg.Bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("ошибка удаления файла из S3: %w", err)
	}
	return nil
}

func (s *S3Storage) objectName(specialistID string, file domain.ImageFile) string {
	owner := specialistID
	if owner == "" {
		owner = "new"
	}

	ext := strings.ToLower(path.Ext(file.FileName))
	if ext == "" {
		if mt := mimetype.Lookup(file.MimeType); mt != nil {
			ext = mt.Extension()
		}
	}
	if ext == "" {
		ext = ".bin"
	}

	return fmt.Sprintf("%s/%s/%s-%s%s", objectPrefix, owner, file.Slot, uuid.New().String(), ext)
}

func (s *S3Storage) baseURL() string {
	if s.cfg.PublicBaseURL != "" {
		return strings.TrimRight(s.cfg.PublicBaseURL, "/")
	}
	scheme := "http"
	if s.cfg.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s", scheme, s.cfg.Endpoint, s.cfg.Bucket)
}

func (s *S3Storage) publicURL(objectName string) string {
	return s.baseURL() + "/" + objectName
}

func (s *S3Storage) objectFromURL(fileURL string) (string, error) {
	prefix := s.baseURL() + "/"
	if !strings.HasPrefix(fileURL, prefix) {
		return "", fmt.Errorf("некорректный URL файла: %s", fileURL)
	}
	objectName := strings.TrimPrefix(fileURL, prefix)
	if !strings.HasPrefix(objectName, objectPrefix+"/") {
		return "", fmt.Errorf("некорректный URL файла: %s", fileURL)
	}
	return objectName, nil
}
