package storage

import (
	"context"

	"cosecdesk/internal/domain"
)

// ImageStorage keeps specialist images outside the remote API and hands back
// their public URLs.
type ImageStorage interface {
	PutImage(ctx context.Context, specialistID string, file domain.ImageFile) (string, error)

	DeleteImage(ctx context.Context, fileURL string) error
}
