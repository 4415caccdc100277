package repository

import (
	"context"

	"github.com/go-resty/resty/v2"

	"cosecdesk/config"
	"cosecdesk/internal/domain"
	"cosecdesk/pkg/metrics"
)

// Repositories are thin gateways over the remote REST API. Every call carries
// the caller's bearer token and fails locally when the token is missing.
type Repositories struct {
	Specialist SpecialistRepository
	Secretary  SecretaryRepository
	Media      MediaRepository
}

func NewRepositories(client *resty.Client, m *metrics.DashboardMetrics) *Repositories {
	base := remote{client: client, metrics: m}
	return &Repositories{
		Specialist: NewSpecialistRepository(base),
		Secretary:  NewSecretaryRepository(base),
		Media:      NewMediaRepository(base),
	}
}

func NewClient(cfg config.BackendConfig) *resty.Client {
	return resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetDebug(cfg.Debug).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "cosecdesk/1.0")
}

type SpecialistRepository interface {
	ListAdmin(ctx context.Context, token string) ([]domain.Specialist, error)
	Create(ctx context.Context, token string, payload domain.CreateSpecialistPayload) (*domain.Specialist, error)
	Update(ctx context.Context, token, id string, payload domain.SpecialistPayload) (*domain.Specialist, error)
	Publish(ctx context.Context, token, id string) (*domain.Specialist, error)
	Unpublish(ctx context.Context, token, id string) (*domain.Specialist, error)
	SetVerificationStatus(ctx context.Context, token, id string, status domain.VerificationStatus) (*domain.Specialist, error)
}

type SecretaryRepository interface {
	List(ctx context.Context, token string) ([]domain.Secretary, error)
	Create(ctx context.Context, token string, req domain.CreateSecretaryRequest) (*domain.Secretary, error)
}

type MediaRepository interface {
	Upload(ctx context.Context, token string, req domain.UploadRequest) (string, error)
}
