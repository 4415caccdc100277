package service

import (
	"context"

	"go.uber.org/zap"

	"cosecdesk/config"
	"cosecdesk/internal/domain"
	"cosecdesk/internal/repository"
	"cosecdesk/internal/storage"
	"cosecdesk/pkg/metrics"
)

type Deps struct {
	Repos        *repository.Repositories
	ImageStorage storage.ImageStorage
	Notifier     domain.Notifier
	Metrics      *metrics.DashboardMetrics
	Logger       *zap.Logger
	Config       *config.Config
}

type Services struct {
	Specialists SpecialistCollection
	Secretaries SecretaryService
	Media       MediaService
	Status      StatusService
	Editor      EditorService
}

func NewServices(deps Deps) *Services {
	notifier := deps.Notifier
	if notifier == nil {
		notifier = domain.NopNotifier{}
	}

	collection := NewSpecialistCollection(deps.Repos.Specialist, deps.Logger)
	secretaries := NewSecretaryService(deps.Repos.Secretary, notifier, deps.Logger)
	media := NewMediaService(newUploader(deps), deps.Config.Media, deps.Metrics, deps.Logger)

	return &Services{
		Specialists: collection,
		Secretaries: secretaries,
		Media:       media,
		Status:      NewStatusService(deps.Repos.Specialist, collection, notifier, deps.Metrics, deps.Logger),
		Editor:      NewEditorService(deps.Repos.Specialist, collection, secretaries, media, notifier, deps.Metrics, deps.Logger),
	}
}

func newUploader(deps Deps) Uploader {
	if deps.Config.Media.Backend == config.MediaBackendS3 && deps.ImageStorage != nil {
		return NewStorageUploader(deps.ImageStorage)
	}
	return NewRemoteUploader(deps.Repos.Media)
}

// SpecialistCollection is the in-memory admin list, kept separately for each
// caller. It is only mutated by explicit patches after completed remote calls.
type SpecialistCollection interface {
	Load(ctx context.Context, identity domain.Identity) error
	List(ctx context.Context, identity domain.Identity, filter domain.SpecialistFilter, refresh bool) (*domain.SpecialistPage, error)
	Get(ctx context.Context, identity domain.Identity, id string) (domain.Specialist, error)
	Merge(identity domain.Identity, id string, payload domain.SpecialistPayload) (domain.Specialist, bool)
	Patch(identity domain.Identity, id string, patch func(*domain.Specialist)) (domain.Specialist, bool)
	Append(identity domain.Identity, specialist domain.Specialist)
}

type SecretaryService interface {
	List(ctx context.Context, identity domain.Identity, filter domain.SecretaryFilter, refresh bool) (*domain.SecretaryDirectory, error)
	Create(ctx context.Context, identity domain.Identity, req domain.CreateSecretaryRequest) (*domain.Secretary, error)
	Options(ctx context.Context, identity domain.Identity) ([]domain.SecretaryOption, error)
	Lookup(ctx context.Context, identity domain.Identity, id string) (domain.Secretary, error)
}

type MediaService interface {
	Check(file domain.ImageFile) (domain.ImageFile, error)
	Upload(ctx context.Context, identity domain.Identity, specialistID string, file domain.ImageFile) (string, error)
	Discard(ctx context.Context, url string)
}

type StatusService interface {
	Publish(ctx context.Context, identity domain.Identity, id string) (*domain.Specialist, error)
	Unpublish(ctx context.Context, identity domain.Identity, id string) (*domain.Specialist, error)
	SetVerification(ctx context.Context, identity domain.Identity, id string, status domain.VerificationStatus) (*domain.Specialist, error)
	Controls(ctx context.Context, identity domain.Identity, id string) (*ControlsView, error)
}

type EditorService interface {
	Open(ctx context.Context, identity domain.Identity, specialistID string) (*SessionView, error)
	Get(identity domain.Identity, sessionID string) (*SessionView, error)
	SetDetails(identity domain.Identity, sessionID string, input domain.DetailsDraft) (*SessionView, error)
	SetOfferings(identity domain.Identity, sessionID string, offerings []string) (*SessionView, error)
	SetSecretary(ctx context.Context, identity domain.Identity, sessionID string, secretaryID *string) (*SessionView, error)
	Next(identity domain.Identity, sessionID string) (*SessionView, error)
	Back(identity domain.Identity, sessionID string) (*SessionView, error)
	UploadImage(ctx context.Context, identity domain.Identity, sessionID string, file domain.ImageFile) (*SessionView, error)
	RemoveImage(identity domain.Identity, sessionID string, slot domain.Slot) (*SessionView, error)
	Review(ctx context.Context, identity domain.Identity, sessionID string) (*ReviewView, error)
	Submit(ctx context.Context, identity domain.Identity, sessionID string, req domain.SubmitRequest) (*domain.Specialist, error)
	Close(identity domain.Identity, sessionID string) error
}
