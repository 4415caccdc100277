package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cosecdesk/internal/domain"
	"cosecdesk/internal/repository"
	"cosecdesk/internal/wizard"
	"cosecdesk/pkg/metrics"
	"cosecdesk/pkg/validator"
)

type Step struct {
	Key   string `json:"key"`
	Title string `json:"title"`
}

const (
	stepDetails = iota
	stepMedia
	stepOfferings
	stepSecretary
	stepReview
)

var editorSteps = []Step{
	{Key: "details", Title: "Service Details"},
	{Key: "media", Title: "Media"},
	{Key: "offerings", Title: "Offerings"},
	{Key: "secretary", Title: "Secretary"},
	{Key: "review", Title: "Review"},
}

const sessionTTL = 12 * time.Hour

type DetailsView struct {
	Title        string `json:"title"`
	BasePrice    string `json:"base_price"`
	PlatformFee  string `json:"platform_fee,omitempty"`
	FinalPrice   string `json:"final_price,omitempty"`
	DurationDays int    `json:"duration_days"`
	Description  string `json:"description"`
}

type SlotView struct {
	Slot        domain.Slot `json:"slot"`
	URL         string      `json:"url"`
	PendingFile string      `json:"pending_file,omitempty"`
	Uploading   bool        `json:"uploading"`
}

type SessionView struct {
	ID           string             `json:"id"`
	Mode         domain.EditMode    `json:"mode"`
	SpecialistID string             `json:"specialist_id,omitempty"`
	Wizard       wizard.Frame[Step] `json:"wizard"`
	CanBack      bool               `json:"can_back"`
	CanNext      bool               `json:"can_next"`
	CanSubmit    bool               `json:"can_submit"`
	Submitting   bool               `json:"submitting"`
	Details      DetailsView        `json:"details"`
	Offerings    []string           `json:"offerings"`
	SecretaryID  *string            `json:"secretary_id"`
	Slots        []SlotView         `json:"slots"`
}

type ReviewSecretary struct {
	ID   *string `json:"id"`
	Name string  `json:"name"`
}

type ReviewView struct {
	DetailsView
	DurationLabel string            `json:"duration_label"`
	Slug          string            `json:"slug,omitempty"`
	Offerings     []domain.Offering `json:"offerings"`
	Secretary     ReviewSecretary   `json:"secretary"`
	Images        []SlotView        `json:"images"`
}

// slotState holds at most one effective value: a fresh upload, the URL the
// session was opened with, or nothing. Pending files exist only in create mode.
type slotState struct {
	existing    bool
	existingURL string
	uploadedURL string
	pending     *domain.ImageFile
	generation  uint64
	uploading   bool
}

func (s slotState) resolve() string {
	if s.uploadedURL != "" {
		return s.uploadedURL
	}
	if s.existing {
		return s.existingURL
	}
	return ""
}

type editSession struct {
	mu sync.Mutex

	id        string
	owner     string
	mode      domain.EditMode
	original  *domain.Specialist
	createdAt time.Time
	touchedAt time.Time

	details        domain.DetailsDraft
	offeringsField []string
	offerings      []string
	secretaryID    *string
	slots          [3]slotState

	step       int
	stepper    *wizard.Stepper[Step]
	submitting bool
	closed     bool
}

type detailsValues struct {
	Title        string `json:"title" validate:"required"`
	BasePrice    string `json:"base_price" validate:"required,price"`
	PlatformFee  string `json:"platform_fee" validate:"omitempty,percent"`
	DurationDays int    `json:"duration_days" validate:"min=1,max=365"`
	Description  string `json:"description" validate:"required"`
}

// effectiveDetails takes each draft value when set, else the original's.
func (s *editSession) effectiveDetails() detailsValues {
	var v detailsValues
	if s.original != nil {
		v = detailsValues{
			Title:        s.original.Title,
			BasePrice:    s.original.BasePrice,
			PlatformFee:  s.original.PlatformFee,
			DurationDays: s.original.DurationDays,
			Description:  s.original.Description,
		}
	}
	if s.details.Title != nil {
		v.Title = *s.details.Title
	}
	if s.details.BasePrice != nil {
		v.BasePrice = *s.details.BasePrice
	}
	if s.details.PlatformFee != nil {
		v.PlatformFee = *s.details.PlatformFee
	}
	if s.details.DurationDays != nil {
		v.DurationDays = *s.details.DurationDays
	}
	if s.details.Description != nil {
		v.Description = *s.details.Description
	}
	return v
}

func (s *editSession) validateDetails() error {
	v := s.effectiveDetails()
	v.Title = strings.TrimSpace(v.Title)
	v.Description = strings.TrimSpace(v.Description)
	if s.mode == domain.EditModeEdit {
		v.PlatformFee = ""
	}

	if err := validator.Instance().Struct(v); err != nil {
		return &domain.ValidationError{Fields: validator.FieldErrors(err)}
	}
	return nil
}

// validateStep gates "Next". Only Service Details declares required fields.
func (s *editSession) validateStep() error {
	if s.step == stepDetails {
		return s.validateDetails()
	}
	return nil
}

// snapshotOfferings copies the offerings field into session state when the
// Offerings step is left, so navigation never loses a selection.
func (s *editSession) snapshotOfferings() {
	if s.step == stepOfferings {
		s.offerings = append([]string{}, s.offeringsField...)
	}
}

func (s *editSession) updatePayload() domain.SpecialistPayload {
	v := s.effectiveDetails()
	return domain.SpecialistPayload{
		Title:               v.Title,
		BasePrice:           v.BasePrice,
		Description:         v.Description,
		DurationDays:        v.DurationDays,
		AdditionalOfferings: append([]string{}, s.offerings...),
		AssignedSecretaryID: cloneID(s.secretaryID),
		Image1:              s.slots[domain.SlotMain.Index()].resolve(),
		Image2:              s.slots[domain.SlotSecondary.Index()].resolve(),
		Image3:              s.slots[domain.SlotTertiary.Index()].resolve(),
		Slug:                s.original.Slug,
	}
}

func (s *editSession) createPayload(publish bool) domain.CreateSpecialistPayload {
	v := s.effectiveDetails()
	payload := domain.CreateSpecialistPayload{
		Title:               strings.TrimSpace(v.Title),
		BasePrice:           v.BasePrice,
		PlatformFee:         v.PlatformFee,
		Description:         strings.TrimSpace(v.Description),
		DurationDays:        v.DurationDays,
		AdditionalOfferings: append([]string{}, s.offerings...),
		AssignedSecretaryID: cloneID(s.secretaryID),
		IsDraft:             !publish,
	}
	for _, slot := range domain.Slots {
		if pending := s.slots[slot.Index()].pending; pending != nil {
			payload.Images = append(payload.Images, *pending)
		}
	}
	return payload
}

func (s *editSession) slotViews() []SlotView {
	views := make([]SlotView, 0, len(domain.Slots))
	for _, slot := range domain.Slots {
		st := s.slots[slot.Index()]
		view := SlotView{Slot: slot, URL: st.resolve(), Uploading: st.uploading}
		if st.pending != nil {
			view.PendingFile = st.pending.FileName
		}
		views = append(views, view)
	}
	return views
}

func (s *editSession) detailsView() DetailsView {
	v := s.effectiveDetails()
	view := DetailsView{
		Title:        v.Title,
		BasePrice:    v.BasePrice,
		DurationDays: v.DurationDays,
		Description:  v.Description,
	}
	if s.mode == domain.EditModeCreate {
		view.PlatformFee = v.PlatformFee
		view.FinalPrice = strconv.FormatFloat(domain.FinalPrice(v.BasePrice, v.PlatformFee), 'f', 2, 64)
	}
	return view
}

func (s *editSession) view() *SessionView {
	last := s.stepper.Len() - 1
	view := &SessionView{
		ID:          s.id,
		Mode:        s.mode,
		Wizard:      s.stepper.Render(s.step),
		CanBack:     !s.submitting && s.step > 0,
		CanNext:     !s.submitting && s.step < last,
		CanSubmit:   !s.submitting && s.step == last,
		Submitting:  s.submitting,
		Details:     s.detailsView(),
		Offerings:   append([]string{}, s.offeringsField...),
		SecretaryID: cloneID(s.secretaryID),
		Slots:       s.slotViews(),
	}
	if s.original != nil {
		view.SpecialistID = s.original.ID
	}
	return view
}

type EditorServiceImpl struct {
	repo        repository.SpecialistRepository
	collection  SpecialistCollection
	secretaries SecretaryService
	media       MediaService
	notifier    domain.Notifier
	metrics     *metrics.DashboardMetrics
	logger      *zap.Logger
	now         func() time.Time

	mu       sync.Mutex
	sessions map[string]*editSession
}

func NewEditorService(
	repo repository.SpecialistRepository,
	collection SpecialistCollection,
	secretaries SecretaryService,
	media MediaService,
	notifier domain.Notifier,
	m *metrics.DashboardMetrics,
	logger *zap.Logger,
) *EditorServiceImpl {
	return &EditorServiceImpl{
		repo:        repo,
		collection:  collection,
		secretaries: secretaries,
		media:       media,
		notifier:    notifier,
		metrics:     m,
		logger:      logger,
		now:         time.Now,
		sessions:    make(map[string]*editSession),
	}
}

// Open starts a session. An empty specialistID opens the create flow.
func (e *EditorServiceImpl) Open(ctx context.Context, identity domain.Identity, specialistID string) (*SessionView, error) {
	if err := identity.Ready(); err != nil {
		return nil, err
	}

	now := e.now()
	sess := &editSession{
		id:        uuid.NewString(),
		owner:     identity.Key(),
		mode:      domain.EditModeCreate,
		createdAt: now,
		touchedAt: now,
		stepper:   wizard.New(editorSteps...),
	}

	if specialistID != "" {
		original, err := e.collection.Get(ctx, identity, specialistID)
		if err != nil {
			e.logger.Warn("не удалось открыть специалиста для редактирования",
				zap.String("specialistID", specialistID),
				zap.Error(err))
			return nil, err
		}

		sess.mode = domain.EditModeEdit
		sess.original = &original
		sess.offeringsField = append([]string{}, original.AdditionalOfferings...)
		sess.offerings = append([]string{}, original.AdditionalOfferings...)
		sess.secretaryID = cloneID(original.AssignedSecretaryID)
		for _, slot := range domain.Slots {
			if url := original.ImageURL(slot); url != "" {
				sess.slots[slot.Index()] = slotState{existing: true, existingURL: url}
			}
		}
	}

	e.mu.Lock()
	e.pruneLocked(now)
	e.sessions[sess.id] = sess
	e.mu.Unlock()
	e.metrics.SessionOpened()

	e.logger.Info("открыта сессия редактирования",
		zap.String("sessionID", sess.id),
		zap.String("mode", string(sess.mode)),
		zap.String("specialistID", specialistID))

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.view(), nil
}

func (e *EditorServiceImpl) pruneLocked(now time.Time) {
	for id, sess := range e.sessions {
		sess.mu.Lock()
		expired := !sess.submitting && now.Sub(sess.touchedAt) > sessionTTL
		if expired {
			sess.closed = true
		}
		sess.mu.Unlock()

		if expired {
			delete(e.sessions, id)
			e.metrics.SessionClosed()
			e.logger.Info("сессия редактирования истекла", zap.String("sessionID", id))
		}
	}
}

func (e *EditorServiceImpl) session(identity domain.Identity, sessionID string) (*editSession, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sess, ok := e.sessions[sessionID]
	if !ok || (sess.owner != "" && sess.owner != identity.Key()) {
		return nil, domain.ErrNoSession
	}
	return sess, nil
}

// edit runs fn under the session lock unless a submission is in flight.
func (e *EditorServiceImpl) edit(identity domain.Identity, sessionID string, fn func(*editSession) error) (*SessionView, error) {
	sess, err := e.session(identity, sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.submitting {
		return nil, domain.ErrSessionBusy
	}
	sess.touchedAt = e.now()

	if fn != nil {
		if err := fn(sess); err != nil {
			return nil, err
		}
	}
	return sess.view(), nil
}

func (e *EditorServiceImpl) Get(identity domain.Identity, sessionID string) (*SessionView, error) {
	sess, err := e.session(identity, sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.view(), nil
}

func (e *EditorServiceImpl) SetDetails(identity domain.Identity, sessionID string, input domain.DetailsDraft) (*SessionView, error) {
	return e.edit(identity, sessionID, func(sess *editSession) error {
		if sess.step != stepDetails {
			return domain.ErrWrongStep
		}
		if sess.mode == domain.EditModeEdit {
			input.PlatformFee = nil
		}
		input.Title = sanitized(input.Title)
		input.Description = sanitized(input.Description)
		sess.details = sess.details.Merge(input)
		return nil
	})
}

// sanitized strips markup characters from free text typed by the admin.
func sanitized(v *string) *string {
	if v == nil {
		return nil
	}
	clean := validator.SanitizeString(*v)
	return &clean
}

func (e *EditorServiceImpl) SetOfferings(identity domain.Identity, sessionID string, offerings []string) (*SessionView, error) {
	normalized, err := domain.NormalizeOfferings(offerings)
	if err != nil {
		return nil, err
	}

	return e.edit(identity, sessionID, func(sess *editSession) error {
		if sess.step != stepOfferings {
			return domain.ErrWrongStep
		}
		sess.offeringsField = normalized
		sess.offerings = append([]string{}, normalized...)
		return nil
	})
}

// SetSecretary assigns a secretary; nil explicitly unassigns.
func (e *EditorServiceImpl) SetSecretary(ctx context.Context, identity domain.Identity, sessionID string, secretaryID *string) (*SessionView, error) {
	if secretaryID != nil && *secretaryID == "" {
		secretaryID = nil
	}
	if secretaryID != nil {
		if _, err := e.secretaries.Lookup(ctx, identity, *secretaryID); err != nil {
			return nil, err
		}
	}

	return e.edit(identity, sessionID, func(sess *editSession) error {
		if sess.step != stepSecretary {
			return domain.ErrWrongStep
		}
		sess.secretaryID = cloneID(secretaryID)
		return nil
	})
}

func (e *EditorServiceImpl) Next(identity domain.Identity, sessionID string) (*SessionView, error) {
	return e.edit(identity, sessionID, func(sess *editSession) error {
		if sess.step >= sess.stepper.Len()-1 {
			return domain.ErrWrongStep
		}
		if err := sess.validateStep(); err != nil {
			e.logger.Debug("шаг не прошел проверку",
				zap.String("sessionID", sess.id),
				zap.Int("step", sess.step),
				zap.Error(err))
			return err
		}
		sess.snapshotOfferings()
		sess.step++
		return nil
	})
}

func (e *EditorServiceImpl) Back(identity domain.Identity, sessionID string) (*SessionView, error) {
	return e.edit(identity, sessionID, func(sess *editSession) error {
		if sess.step == 0 {
			return domain.ErrWrongStep
		}
		sess.snapshotOfferings()
		sess.step--
		return nil
	})
}

func (e *EditorServiceImpl) UploadImage(ctx context.Context, identity domain.Identity, sessionID string, file domain.ImageFile) (*SessionView, error) {
	if err := identity.Ready(); err != nil {
		return nil, err
	}
	if _, err := domain.ParseSlot(string(file.Slot)); err != nil {
		return nil, err
	}

	if _, err := e.edit(identity, sessionID, func(sess *editSession) error {
		if sess.step != stepMedia {
			return domain.ErrWrongStep
		}
		return nil
	}); err != nil {
		return nil, err
	}

	checked, err := e.media.Check(file)
	if err != nil {
		e.notify(ctx, identity, domain.NotificationError, err.Error(), sessionID)
		return nil, err
	}

	sess, err := e.session(identity, sessionID)
	if err != nil {
		return nil, err
	}

	idx := checked.Slot.Index()
	sess.mu.Lock()
	if sess.submitting {
		sess.mu.Unlock()
		return nil, domain.ErrSessionBusy
	}

	slot := &sess.slots[idx]
	slot.generation++

	if sess.mode == domain.EditModeCreate {
		pending := checked
		pending.Data = append([]byte(nil), checked.Data...)
		slot.pending = &pending
		slot.uploadedURL = ""
		view := sess.view()
		sess.mu.Unlock()
		return view, nil
	}

	generation := slot.generation
	slot.uploading = true
	specialistID := sess.original.ID
	sess.mu.Unlock()

	url, uploadErr := e.media.Upload(ctx, identity, specialistID, checked)

	sess.mu.Lock()
	slot = &sess.slots[idx]
	closed := sess.closed
	stale := closed || slot.generation != generation
	if !stale {
		slot.uploading = false
		if uploadErr == nil {
			slot.uploadedURL = url
			slot.pending = nil
		}
	}
	view := sess.view()
	sess.mu.Unlock()

	if stale {
		e.logger.Info("результат загрузки устарел",
			zap.String("sessionID", sessionID),
			zap.String("slot", string(checked.Slot)))
		if uploadErr == nil {
			e.media.Discard(context.WithoutCancel(ctx), url)
		}
		if closed {
			return nil, domain.ErrNoSession
		}
		return view, nil
	}

	if uploadErr != nil {
		e.notify(ctx, identity, domain.NotificationError, uploadErr.Error(), sessionID)
		return nil, uploadErr
	}

	e.notify(ctx, identity, domain.NotificationSuccess, fmt.Sprintf("%s uploaded successfully", checked.Slot), sessionID)
	return view, nil
}

// RemoveImage clears the slot entirely and invalidates any in-flight upload.
func (e *EditorServiceImpl) RemoveImage(identity domain.Identity, sessionID string, slot domain.Slot) (*SessionView, error) {
	if _, err := domain.ParseSlot(string(slot)); err != nil {
		return nil, err
	}

	return e.edit(identity, sessionID, func(sess *editSession) error {
		if sess.step != stepMedia {
			return domain.ErrWrongStep
		}
		st := &sess.slots[slot.Index()]
		*st = slotState{generation: st.generation + 1}
		return nil
	})
}

func (e *EditorServiceImpl) Review(ctx context.Context, identity domain.Identity, sessionID string) (*ReviewView, error) {
	sess, err := e.session(identity, sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	details := sess.detailsView()
	offerings := append([]string{}, sess.offerings...)
	secretaryID := cloneID(sess.secretaryID)
	images := sess.slotViews()
	var slug string
	var assigned *domain.AssignedSecretary
	if sess.original != nil {
		slug = sess.original.Slug
		assigned = sess.original.AssignedSecretary
	}
	sess.mu.Unlock()

	review := &ReviewView{
		DetailsView:   details,
		DurationLabel: durationLabel(details.DurationDays),
		Slug:          slug,
		Offerings:     make([]domain.Offering, 0, len(offerings)),
		Secretary:     ReviewSecretary{ID: secretaryID, Name: domain.UnassignedSecretaryLabel},
		Images:        images,
	}
	for _, code := range offerings {
		review.Offerings = append(review.Offerings, domain.Offering{Value: code, Label: domain.OfferingLabel(code)})
	}

	if secretaryID != nil {
		review.Secretary.Name = "Unknown"
		if sec, err := e.secretaries.Lookup(ctx, identity, *secretaryID); err == nil {
			review.Secretary.Name = sec.FullName()
		} else if assigned != nil && assigned.ID == *secretaryID && assigned.FullName != "" {
			review.Secretary.Name = assigned.FullName
		}
	}
	return review, nil
}

func (e *EditorServiceImpl) Submit(ctx context.Context, identity domain.Identity, sessionID string, req domain.SubmitRequest) (*domain.Specialist, error) {
	if err := identity.Ready(); err != nil {
		return nil, err
	}

	sess, err := e.session(identity, sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	if sess.submitting {
		sess.mu.Unlock()
		return nil, domain.ErrSessionBusy
	}
	if sess.step != sess.stepper.Len()-1 {
		sess.mu.Unlock()
		return nil, domain.ErrWrongStep
	}
	if err := sess.validateDetails(); err != nil {
		sess.mu.Unlock()
		return nil, err
	}

	mode := sess.mode
	var (
		update   domain.SpecialistPayload
		create   domain.CreateSpecialistPayload
		original domain.Specialist
		targetID string
	)
	if mode == domain.EditModeEdit {
		update = sess.updatePayload()
		original = sess.original.Clone()
		targetID = original.ID
	} else {
		create = sess.createPayload(req.Publish)
	}
	sess.submitting = true
	sess.mu.Unlock()

	defer func() {
		sess.mu.Lock()
		sess.submitting = false
		sess.mu.Unlock()
	}()

	// Closing the session must not abort a submission already on the wire.
	callCtx := context.WithoutCancel(ctx)

	var result *domain.Specialist
	if mode == domain.EditModeEdit {
		result, err = e.submitUpdate(callCtx, identity, original, update)
	} else {
		result, err = e.submitCreate(callCtx, identity, create)
	}
	e.metrics.ObserveSubmission(string(mode), err)
	if err != nil {
		e.logger.Error("ошибка сохранения специалиста",
			zap.String("sessionID", sessionID),
			zap.String("mode", string(mode)),
			zap.String("specialistID", targetID),
			zap.Error(err))
		e.notify(ctx, identity, domain.NotificationError, err.Error(), targetID)
		return nil, err
	}

	e.discard(sessionID)
	return result, nil
}

func (e *EditorServiceImpl) submitUpdate(ctx context.Context, identity domain.Identity, original domain.Specialist, payload domain.SpecialistPayload) (*domain.Specialist, error) {
	if _, err := e.repo.Update(ctx, identity.Token, original.ID, payload); err != nil {
		return nil, domain.WithFallback(err, "Failed to update service.")
	}

	merged, ok := e.collection.Merge(identity, original.ID, payload)
	if !ok {
		merged = original.Apply(payload)
	}

	e.notify(ctx, identity, domain.NotificationSuccess, "Service updated successfully", original.ID)
	return &merged, nil
}

func (e *EditorServiceImpl) submitCreate(ctx context.Context, identity domain.Identity, payload domain.CreateSpecialistPayload) (*domain.Specialist, error) {
	if err := validator.Instance().Struct(payload); err != nil {
		return nil, &domain.ValidationError{Fields: validator.FieldErrors(err)}
	}

	created, err := e.repo.Create(ctx, identity.Token, payload)
	if err != nil {
		return nil, domain.WithFallback(err, "Failed to create specialist")
	}

	if created != nil && created.ID != "" {
		e.collection.Append(identity, *created)
	} else if err := e.collection.Load(ctx, identity); err != nil {
		e.logger.Warn("не удалось обновить список после создания", zap.Error(err))
	}

	message := "Specialist saved as draft successfully!"
	if !payload.IsDraft {
		message = "Specialist published successfully!"
	}
	var entity string
	if created != nil {
		entity = created.ID
	}
	e.notify(ctx, identity, domain.NotificationSuccess, message, entity)
	return created, nil
}

// Close discards the session unconditionally.
func (e *EditorServiceImpl) Close(identity domain.Identity, sessionID string) error {
	if _, err := e.session(identity, sessionID); err != nil {
		return err
	}
	e.discard(sessionID)
	return nil
}

func (e *EditorServiceImpl) discard(sessionID string) {
	e.mu.Lock()
	sess, ok := e.sessions[sessionID]
	if ok {
		delete(e.sessions, sessionID)
	}
	e.mu.Unlock()

	if !ok {
		return
	}

	sess.mu.Lock()
	sess.closed = true
	sess.mu.Unlock()

	e.metrics.SessionClosed()
	e.logger.Info("сессия редактирования закрыта", zap.String("sessionID", sessionID))
}

func (e *EditorServiceImpl) notify(ctx context.Context, identity domain.Identity, level domain.NotificationLevel, message, entity string) {
	e.notifier.Notify(ctx, domain.Notification{
		ID:        uuid.NewString(),
		Subject:   identity.Key(),
		Level:     level,
		Message:   message,
		Entity:    entity,
		CreatedAt: e.now(),
	})
}

func durationLabel(days int) string {
	if days == 1 {
		return "1 Day"
	}
	return fmt.Sprintf("%d Days", days)
}

func cloneID(id *string) *string {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
