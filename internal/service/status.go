package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cosecdesk/internal/domain"
	"cosecdesk/internal/repository"
	"cosecdesk/pkg/metrics"
)

type StatusAction string

const (
	ActionPublish   StatusAction = "publish"
	ActionUnpublish StatusAction = "unpublish"
	ActionVerify    StatusAction = "verify"
	ActionUnverify  StatusAction = "unverify"
)

type StatusControl struct {
	Action  StatusAction `json:"action"`
	Label   string       `json:"label"`
	Enabled bool         `json:"enabled"`
}

type ControlsView struct {
	SpecialistID       string                    `json:"specialist_id"`
	PublishState       domain.PublishState       `json:"publish_state"`
	VerificationStatus domain.VerificationStatus `json:"verification_status"`
	InFlight           bool                      `json:"in_flight"`
	Actions            []StatusControl           `json:"actions"`
}

type StatusServiceImpl struct {
	repo       repository.SpecialistRepository
	collection SpecialistCollection
	notifier   domain.Notifier
	metrics    *metrics.DashboardMetrics
	logger     *zap.Logger

	mu       sync.Mutex
	inFlight map[string]StatusAction
}

func NewStatusService(
	repo repository.SpecialistRepository,
	collection SpecialistCollection,
	notifier domain.Notifier,
	m *metrics.DashboardMetrics,
	logger *zap.Logger,
) *StatusServiceImpl {
	return &StatusServiceImpl{
		repo:       repo,
		collection: collection,
		notifier:   notifier,
		metrics:    m,
		logger:     logger,
		inFlight:   make(map[string]StatusAction),
	}
}

func (s *StatusServiceImpl) Publish(ctx context.Context, identity domain.Identity, id string) (*domain.Specialist, error) {
	return s.transition(ctx, identity, id, ActionPublish)
}

func (s *StatusServiceImpl) Unpublish(ctx context.Context, identity domain.Identity, id string) (*domain.Specialist, error) {
	return s.transition(ctx, identity, id, ActionUnpublish)
}

func (s *StatusServiceImpl) SetVerification(ctx context.Context, identity domain.Identity, id string, status domain.VerificationStatus) (*domain.Specialist, error) {
	if !status.IsValid() {
		return nil, &domain.ValidationError{Fields: []string{"status"}}
	}
	if status == domain.VerificationVerified {
		return s.transition(ctx, identity, id, ActionVerify)
	}
	return s.transition(ctx, identity, id, ActionUnverify)
}

func (s *StatusServiceImpl) Controls(ctx context.Context, identity domain.Identity, id string) (*ControlsView, error) {
	specialist, err := s.collection.Get(ctx, identity, id)
	if err != nil {
		return nil, err
	}
	return s.controls(specialist), nil
}

func (s *StatusServiceImpl) controls(specialist domain.Specialist) *ControlsView {
	s.mu.Lock()
	_, busy := s.inFlight[specialist.ID]
	s.mu.Unlock()

	view := &ControlsView{
		SpecialistID:       specialist.ID,
		PublishState:       specialist.PublishState(),
		VerificationStatus: specialist.VerificationStatus,
		InFlight:           busy,
	}
	for _, action := range []StatusAction{ActionPublish, ActionUnpublish, ActionVerify, ActionUnverify} {
		view.Actions = append(view.Actions, StatusControl{
			Action:  action,
			Label:   actionLabel(action),
			Enabled: !busy && allowed(specialist, action),
		})
	}
	return view
}

func (s *StatusServiceImpl) transition(ctx context.Context, identity domain.Identity, id string, action StatusAction) (*domain.Specialist, error) {
	if err := identity.Ready(); err != nil {
		return nil, err
	}

	current, err := s.collection.Get(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	if !allowed(current, action) {
		s.logger.Warn("переход статуса недоступен",
			zap.String("id", id),
			zap.String("action", string(action)),
			zap.Bool("isDraft", current.IsDraft),
			zap.String("verification", string(current.VerificationStatus)))
		return nil, domain.ErrTransitionNotAllowed
	}

	if !s.acquire(id, action) {
		return nil, domain.ErrTransitionInFlight
	}
	defer s.release(id)

	_, err = s.call(ctx, identity.Token, id, action)
	s.metrics.ObserveTransition(string(action), err)
	if err != nil {
		err = domain.WithFallback(err, failureMessage(action))
		s.logger.Error("ошибка смены статуса специалиста",
			zap.String("id", id),
			zap.String("action", string(action)),
			zap.Error(err))
		s.notify(ctx, identity, domain.NotificationError, err.Error(), id)
		return nil, err
	}

	updated, ok := s.collection.Patch(identity, id, func(sp *domain.Specialist) {
		applyTransition(sp, action)
	})
	if !ok {
		applyTransition(&current, action)
		updated = current
	}

	s.notify(ctx, identity, domain.NotificationSuccess, successMessage(action), id)
	return &updated, nil
}

func (s *StatusServiceImpl) call(ctx context.Context, token, id string, action StatusAction) (*domain.Specialist, error) {
	switch action {
	case ActionPublish:
		return s.repo.Publish(ctx, token, id)
	case ActionUnpublish:
		return s.repo.Unpublish(ctx, token, id)
	case ActionVerify:
		return s.repo.SetVerificationStatus(ctx, token, id, domain.VerificationVerified)
	default:
		return s.repo.SetVerificationStatus(ctx, token, id, domain.VerificationInReview)
	}
}

func (s *StatusServiceImpl) acquire(id string, action StatusAction) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if running, ok := s.inFlight[id]; ok {
		s.logger.Warn("смена статуса уже выполняется",
			zap.String("id", id),
			zap.String("running", string(running)),
			zap.String("requested", string(action)))
		return false
	}
	s.inFlight[id] = action
	return true
}

func (s *StatusServiceImpl) release(id string) {
	s.mu.Lock()
	delete(s.inFlight, id)
	s.mu.Unlock()
}

func (s *StatusServiceImpl) notify(ctx context.Context, identity domain.Identity, level domain.NotificationLevel, message, entity string) {
	s.notifier.Notify(ctx, domain.Notification{
		ID:        uuid.NewString(),
		Subject:   identity.Key(),
		Level:     level,
		Message:   message,
		Entity:    entity,
		CreatedAt: time.Now(),
	})
}

func allowed(s domain.Specialist, action StatusAction) bool {
	switch action {
	case ActionPublish:
		return s.PublishState() == domain.PublishStateDraft
	case ActionUnpublish:
		return s.PublishState() == domain.PublishStatePublished
	case ActionVerify:
		return s.VerificationStatus != domain.VerificationVerified
	case ActionUnverify:
		return s.VerificationStatus == domain.VerificationVerified
	}
	return false
}

func applyTransition(s *domain.Specialist, action StatusAction) {
	switch action {
	case ActionPublish:
		s.IsDraft = false
	case ActionUnpublish:
		s.IsDraft = true
	case ActionVerify:
		s.VerificationStatus = domain.VerificationVerified
		s.IsVerified = true
	case ActionUnverify:
		s.VerificationStatus = domain.VerificationInReview
		s.IsVerified = false
	}
}

func actionLabel(action StatusAction) string {
	switch action {
	case ActionPublish:
		return "Publish"
	case ActionUnpublish:
		return "Unpublish"
	case ActionVerify:
		return "Verify"
	}
	return "Unverify"
}

func successMessage(action StatusAction) string {
	switch action {
	case ActionPublish:
		return "Specialist published successfully"
	case ActionUnpublish:
		return "Specialist unpublished successfully"
	case ActionVerify:
		return "Specialist verified successfully"
	}
	return "Specialist unverified successfully"
}

func failureMessage(action StatusAction) string {
	switch action {
	case ActionPublish:
		return "Failed to publish specialist"
	case ActionUnpublish:
		return "Failed to unpublish specialist"
	}
	return "Failed to update verification status"
}
