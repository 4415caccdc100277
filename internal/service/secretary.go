package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"cosecdesk/internal/domain"
	"cosecdesk/internal/repository"
	"cosecdesk/pkg/validator"
)

// MaxSecretaryImageBytes bounds the avatar and banner files.
const MaxSecretaryImageBytes = 5 * 1024 * 1024

type secretaryScope struct {
	secretaries []domain.Secretary
	loaded      bool
	touchedAt   time.Time
}

type SecretaryServiceImpl struct {
	repo     repository.SecretaryRepository
	notifier domain.Notifier
	logger   *zap.Logger
	now      func() time.Time

	mu     sync.RWMutex
	scopes map[string]*secretaryScope
}

func NewSecretaryService(repo repository.SecretaryRepository, notifier domain.Notifier, logger *zap.Logger) *SecretaryServiceImpl {
	if notifier == nil {
		notifier = domain.NopNotifier{}
	}
	return &SecretaryServiceImpl{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
		scopes:   make(map[string]*secretaryScope),
	}
}

func (s *SecretaryServiceImpl) cached(key string) ([]domain.Secretary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sc, ok := s.scopes[key]
	if !ok || !sc.loaded {
		return nil, false
	}
	return sc.secretaries, true
}

// store replaces the caller's directory and drops idle ones.
func (s *SecretaryServiceImpl) store(key string, secretaries []domain.Secretary) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, sc := range s.scopes {
		if k != key && now.Sub(sc.touchedAt) > scopeTTL {
			delete(s.scopes, k)
		}
	}
	s.scopes[key] = &secretaryScope{secretaries: secretaries, loaded: true, touchedAt: now}
}

func (s *SecretaryServiceImpl) load(ctx context.Context, identity domain.Identity, refresh bool) ([]domain.Secretary, error) {
	if err := identity.Ready(); err != nil {
		return nil, err
	}

	key := identity.Key()
	if !refresh {
		if cached, ok := s.cached(key); ok {
			return cached, nil
		}
	}

	secretaries, err := s.repo.List(ctx, identity.Token)
	if err != nil {
		s.logger.Error("ошибка загрузки списка секретарей", zap.Error(err))
		return nil, domain.WithFallback(err, "Failed to load secretaries")
	}

	s.store(key, secretaries)
	return secretaries, nil
}

func (s *SecretaryServiceImpl) List(ctx context.Context, identity domain.Identity, filter domain.SecretaryFilter, refresh bool) (*domain.SecretaryDirectory, error) {
	secretaries, err := s.load(ctx, identity, refresh)
	if err != nil {
		return nil, err
	}

	directory := &domain.SecretaryDirectory{Items: make([]domain.Secretary, 0, len(secretaries))}
	for _, sec := range secretaries {
		directory.Stats.Total++
		if sec.Status == domain.SecretaryStatusActive {
			directory.Stats.Active++
		}
		if sec.IsVerified {
			directory.Stats.Verified++
		}
		if sec.SecretaryType == domain.SecretaryTypeIndividual {
			directory.Stats.Individual++
		}
		if filter.Matches(sec) {
			directory.Items = append(directory.Items, sec)
		}
	}
	return directory, nil
}

// Options lists the picker entries, "No Secretary" first.
func (s *SecretaryServiceImpl) Options(ctx context.Context, identity domain.Identity) ([]domain.SecretaryOption, error) {
	secretaries, err := s.load(ctx, identity, false)
	if err != nil {
		return nil, err
	}

	options := make([]domain.SecretaryOption, 0, len(secretaries)+1)
	options = append(options, domain.SecretaryOption{Value: "", Label: domain.UnassignedSecretaryLabel})
	for _, sec := range secretaries {
		options = append(options, domain.SecretaryOption{
			Value: sec.ID,
			Label: sec.OptionLabel(),
			Email: sec.Email(),
		})
	}
	return options, nil
}

func (s *SecretaryServiceImpl) Lookup(ctx context.Context, identity domain.Identity, id string) (domain.Secretary, error) {
	secretaries, err := s.load(ctx, identity, false)
	if err != nil {
		return domain.Secretary{}, err
	}

	for _, sec := range secretaries {
		if sec.ID == id {
			return sec, nil
		}
	}
	return domain.Secretary{}, domain.ErrUnknownSecretary
}

// Create registers a secretary account. The created record is appended to the
// caller's directory only after the backend accepted it.
func (s *SecretaryServiceImpl) Create(ctx context.Context, identity domain.Identity, req domain.CreateSecretaryRequest) (*domain.Secretary, error) {
	if err := identity.Ready(); err != nil {
		return nil, err
	}

	req = sanitizeSecretary(req)
	if err := validator.Instance().Struct(req); err != nil {
		return nil, &domain.ValidationError{Fields: validator.FieldErrors(err)}
	}

	for _, img := range []*domain.ImageFile{req.Avatar, req.Banner} {
		if err := checkSecretaryImage(img); err != nil {
			return nil, err
		}
	}

	created, err := s.repo.Create(ctx, identity.Token, req)
	if err != nil {
		s.logger.Error("ошибка создания секретаря", zap.String("email", req.Email), zap.Error(err))
		err = domain.WithFallback(err, "Failed to create secretary")
		s.notify(ctx, identity, domain.NotificationError, err.Error(), "")
		return nil, err
	}

	s.mu.Lock()
	if sc, ok := s.scopes[identity.Key()]; ok && sc.loaded {
		sc.secretaries = append(append([]domain.Secretary(nil), sc.secretaries...), *created)
	}
	s.mu.Unlock()

	s.logger.Info("секретарь создан", zap.String("id", created.ID))
	s.notify(ctx, identity, domain.NotificationSuccess, "Secretary created successfully! 🎉", created.ID)
	return created, nil
}

func (s *SecretaryServiceImpl) notify(ctx context.Context, identity domain.Identity, level domain.NotificationLevel, message, entity string) {
	s.notifier.Notify(ctx, domain.Notification{
		ID:        uuid.NewString(),
		Subject:   identity.Key(),
		Level:     level,
		Message:   message,
		Entity:    entity,
		CreatedAt: time.Now(),
	})
}

// sanitizeSecretary strips markup from free-text fields. Email and password
// are passed through untouched.
func sanitizeSecretary(req domain.CreateSecretaryRequest) domain.CreateSecretaryRequest {
	clean := func(v string) string {
		return strings.TrimSpace(validator.SanitizeString(v))
	}
	req.Email = strings.TrimSpace(req.Email)
	req.FullName = clean(req.FullName)
	req.RegistrationNumber = clean(req.RegistrationNumber)
	req.Qualification = clean(req.Qualification)
	req.Experience = clean(req.Experience)
	req.ContactInformation.OfficePhone = clean(req.ContactInformation.OfficePhone)
	req.ContactInformation.MobilePhone = clean(req.ContactInformation.MobilePhone)
	req.ContactInformation.OfficeAddress = clean(req.ContactInformation.OfficeAddress)
	return req
}

func checkSecretaryImage(img *domain.ImageFile) error {
	if img == nil {
		return nil
	}
	detected := mimetype.Detect(img.Data).String()
	if !strings.HasPrefix(detected, "image/") {
		return &domain.UploadRejection{Reason: "You can only upload image files!"}
	}
	if img.Size() >= MaxSecretaryImageBytes {
		return &domain.UploadRejection{
			Reason: fmt.Sprintf("Image must be smaller than %dMB!", MaxSecretaryImageBytes/(1024*1024)),
		}
	}
	if img.MimeType == "" {
		img.MimeType = detected
	}
	return nil
}
