package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"cosecdesk/internal/domain"
	"cosecdesk/internal/repository"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// scopeTTL drops the cached list of a caller that has been idle this long.
const scopeTTL = 12 * time.Hour

// specialistScope is the list as one caller sees it. Every scope is loaded
// with its own caller's token, so the backend decides what each caller reads.
type specialistScope struct {
	mu        sync.RWMutex
	items     []domain.Specialist
	loaded    bool
	touchedAt time.Time
}

type SpecialistCollectionImpl struct {
	repo   repository.SpecialistRepository
	logger *zap.Logger
	now    func() time.Time

	mu     sync.Mutex
	scopes map[string]*specialistScope
}

func NewSpecialistCollection(repo repository.SpecialistRepository, logger *zap.Logger) *SpecialistCollectionImpl {
	return &SpecialistCollectionImpl{
		repo:   repo,
		logger: logger,
		now:    time.Now,
		scopes: make(map[string]*specialistScope),
	}
}

func (c *SpecialistCollectionImpl) scope(identity domain.Identity) *specialistScope {
	key := identity.Key()
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	for k, sc := range c.scopes {
		if k != key && now.Sub(sc.touchedAt) > scopeTTL {
			delete(c.scopes, k)
		}
	}

	sc, ok := c.scopes[key]
	if !ok {
		sc = &specialistScope{}
		c.scopes[key] = sc
	}
	sc.touchedAt = now
	return sc
}

func (c *SpecialistCollectionImpl) Load(ctx context.Context, identity domain.Identity) error {
	if err := identity.Ready(); err != nil {
		return err
	}

	specialists, err := c.repo.ListAdmin(ctx, identity.Token)
	if err != nil {
		c.logger.Error("ошибка загрузки списка специалистов", zap.Error(err))
		return domain.WithFallback(err, "Failed to load specialists")
	}

	items := make([]domain.Specialist, 0, len(specialists))
	for _, s := range specialists {
		items = append(items, s.Clone())
	}

	sc := c.scope(identity)
	sc.mu.Lock()
	sc.items = items
	sc.loaded = true
	sc.mu.Unlock()

	c.logger.Debug("список специалистов загружен", zap.Int("count", len(items)))
	return nil
}

func (c *SpecialistCollectionImpl) ensureLoaded(ctx context.Context, identity domain.Identity, refresh bool) (*specialistScope, error) {
	if err := identity.Ready(); err != nil {
		return nil, err
	}

	sc := c.scope(identity)
	sc.mu.RLock()
	loaded := sc.loaded
	sc.mu.RUnlock()

	if loaded && !refresh {
		return sc, nil
	}
	if err := c.Load(ctx, identity); err != nil {
		return nil, err
	}
	return sc, nil
}

func (c *SpecialistCollectionImpl) List(ctx context.Context, identity domain.Identity, filter domain.SpecialistFilter, refresh bool) (*domain.SpecialistPage, error) {
	sc, err := c.ensureLoaded(ctx, identity, refresh)
	if err != nil {
		return nil, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	sc.mu.RLock()
	defer sc.mu.RUnlock()

	result := &domain.SpecialistPage{Page: page, PageSize: pageSize, Items: []domain.Specialist{}}
	searchOnly := domain.SpecialistFilter{Search: filter.Search}

	matched := make([]domain.Specialist, 0, len(sc.items))
	for _, s := range sc.items {
		if searchOnly.Matches(s) {
			result.Counts.All++
			if s.IsDraft {
				result.Counts.Drafts++
			} else {
				result.Counts.Published++
			}
		}
		if filter.Matches(s) {
			matched = append(matched, s)
		}
	}

	result.Total = len(matched)
	start := (page - 1) * pageSize
	if start >= len(matched) {
		return result, nil
	}
	end := min(start+pageSize, len(matched))
	for _, s := range matched[start:end] {
		result.Items = append(result.Items, s.Clone())
	}
	return result, nil
}

func (c *SpecialistCollectionImpl) Get(ctx context.Context, identity domain.Identity, id string) (domain.Specialist, error) {
	sc, err := c.ensureLoaded(ctx, identity, false)
	if err != nil {
		return domain.Specialist{}, err
	}

	sc.mu.RLock()
	defer sc.mu.RUnlock()

	if i := sc.indexOf(id); i >= 0 {
		return sc.items[i].Clone(), nil
	}
	return domain.Specialist{}, domain.ErrSpecialistNotFound
}

// Merge shallow-merges a submitted payload over the record with the given id.
func (c *SpecialistCollectionImpl) Merge(identity domain.Identity, id string, payload domain.SpecialistPayload) (domain.Specialist, bool) {
	return c.Patch(identity, id, func(s *domain.Specialist) {
		*s = s.Apply(payload)
	})
}

// Patch replaces only the matching record of the caller's list; every other
// record is untouched.
func (c *SpecialistCollectionImpl) Patch(identity domain.Identity, id string, patch func(*domain.Specialist)) (domain.Specialist, bool) {
	sc := c.scope(identity)
	sc.mu.Lock()
	defer sc.mu.Unlock()

	i := sc.indexOf(id)
	if i < 0 {
		c.logger.Warn("специалист для обновления не найден в списке", zap.String("id", id))
		return domain.Specialist{}, false
	}

	updated := sc.items[i].Clone()
	patch(&updated)
	sc.items[i] = updated
	return updated.Clone(), true
}

func (c *SpecialistCollectionImpl) Append(identity domain.Identity, specialist domain.Specialist) {
	sc := c.scope(identity)
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if i := sc.indexOf(specialist.ID); i >= 0 {
		sc.items[i] = specialist.Clone()
		return
	}
	sc.items = append(sc.items, specialist.Clone())
}

func (sc *specialistScope) indexOf(id string) int {
	for i := range sc.items {
		if sc.items[i].ID == id {
			return i
		}
	}
	return -1
}
