package service

import (
	"context"
	"sync"
	"testing"

	"go.uber.org/zap"

	"cosecdesk/config"
	"cosecdesk/internal/domain"
)

var testIdentity = domain.Identity{Token: "tok", Subject: "admin-1", Verified: true}

var pngData = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 64)...)

type fakeSpecialistRepo struct {
	mu sync.Mutex

	list       []domain.Specialist
	listErr    error
	listCalls  int
	listTokens []string

	updates   []domain.SpecialistPayload
	updateErr error

	creates   []domain.CreateSpecialistPayload
	created   *domain.Specialist
	createErr error

	transitions   []string
	transitionErr error

	// gates block calls for a given specialist id until closed.
	gates   map[string]chan struct{}
	entered chan string
	ctxErrs []error
}

func (r *fakeSpecialistRepo) wait(ctx context.Context, id string) {
	r.mu.Lock()
	gate := r.gates[id]
	entered := r.entered
	r.mu.Unlock()

	if entered != nil {
		entered <- id
	}
	if gate != nil {
		<-gate
	}

	r.mu.Lock()
	r.ctxErrs = append(r.ctxErrs, ctx.Err())
	r.mu.Unlock()
}

func (r *fakeSpecialistRepo) ListAdmin(ctx context.Context, token string) ([]domain.Specialist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	r.listTokens = append(r.listTokens, token)
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]domain.Specialist, 0, len(r.list))
	for _, s := range r.list {
		out = append(out, s.Clone())
	}
	return out, nil
}

func (r *fakeSpecialistRepo) Create(ctx context.Context, token string, payload domain.CreateSpecialistPayload) (*domain.Specialist, error) {
	r.wait(ctx, "new")
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates = append(r.creates, payload)
	if r.createErr != nil {
		return nil, r.createErr
	}
	if r.created != nil {
		r.list = append(r.list, r.created.Clone())
	}
	return r.created, nil
}

func (r *fakeSpecialistRepo) Update(ctx context.Context, token, id string, payload domain.SpecialistPayload) (*domain.Specialist, error) {
	r.wait(ctx, id)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, payload)
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	return &domain.Specialist{ID: id, Title: payload.Title}, nil
}

func (r *fakeSpecialistRepo) transition(ctx context.Context, id, action string) (*domain.Specialist, error) {
	r.wait(ctx, id)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitions = append(r.transitions, action+":"+id)
	if r.transitionErr != nil {
		return nil, r.transitionErr
	}
	return &domain.Specialist{ID: id}, nil
}

func (r *fakeSpecialistRepo) Publish(ctx context.Context, token, id string) (*domain.Specialist, error) {
	return r.transition(ctx, id, "publish")
}

func (r *fakeSpecialistRepo) Unpublish(ctx context.Context, token, id string) (*domain.Specialist, error) {
	return r.transition(ctx, id, "unpublish")
}

func (r *fakeSpecialistRepo) SetVerificationStatus(ctx context.Context, token, id string, status domain.VerificationStatus) (*domain.Specialist, error) {
	return r.transition(ctx, id, "verify_"+string(status))
}

func (r *fakeSpecialistRepo) lastUpdate(t *testing.T) domain.SpecialistPayload {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.updates) == 0 {
		t.Fatal("update was not sent")
	}
	return r.updates[len(r.updates)-1]
}

type fakeSecretaryRepo struct {
	secretaries []domain.Secretary
	err         error
	calls       int
	tokens      []string

	creates   []domain.CreateSecretaryRequest
	createErr error
}

func (r *fakeSecretaryRepo) List(ctx context.Context, token string) ([]domain.Secretary, error) {
	r.calls++
	r.tokens = append(r.tokens, token)
	if r.err != nil {
		return nil, r.err
	}
	return r.secretaries, nil
}

func (r *fakeSecretaryRepo) Create(ctx context.Context, token string, req domain.CreateSecretaryRequest) (*domain.Secretary, error) {
	r.creates = append(r.creates, req)
	if r.createErr != nil {
		return nil, r.createErr
	}
	return &domain.Secretary{
		ID:                 "sec-new",
		RegistrationNumber: req.RegistrationNumber,
		SecretaryType:      req.SecretaryType,
		Status:             req.Status,
		User:               &domain.User{FullName: req.FullName, Email: req.Email},
	}, nil
}

type fakeUploader struct {
	mu sync.Mutex

	urls      map[domain.Slot]string
	err       error
	calls     []domain.ImageFile
	discarded []string

	gate    chan struct{}
	entered chan struct{}
}

func (u *fakeUploader) Upload(ctx context.Context, token, specialistID string, file domain.ImageFile) (string, error) {
	u.mu.Lock()
	gate, entered := u.gate, u.entered
	u.calls = append(u.calls, file)
	u.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if gate != nil {
		<-gate
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	if u.err != nil {
		return "", u.err
	}
	return u.urls[file.Slot], nil
}

func (u *fakeUploader) Discard(ctx context.Context, url string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.discarded = append(u.discarded, url)
	return nil
}

func (u *fakeUploader) callCount() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.calls)
}

type recordingNotifier struct {
	mu            sync.Mutex
	notifications []domain.Notification
}

func (n *recordingNotifier) Notify(ctx context.Context, notification domain.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notifications = append(n.notifications, notification)
}

func (n *recordingNotifier) last() domain.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.notifications) == 0 {
		return domain.Notification{}
	}
	return n.notifications[len(n.notifications)-1]
}

type editorFixture struct {
	repo       *fakeSpecialistRepo
	secRepo    *fakeSecretaryRepo
	uploader   *fakeUploader
	notifier   *recordingNotifier
	collection *SpecialistCollectionImpl
	editor     *EditorServiceImpl
	status     *StatusServiceImpl
}

func newEditorFixture(specialists ...domain.Specialist) *editorFixture {
	logger := zap.NewNop()
	f := &editorFixture{
		repo: &fakeSpecialistRepo{list: specialists},
		secRepo: &fakeSecretaryRepo{secretaries: []domain.Secretary{
			{ID: "sec1", User: &domain.User{FullName: "Ann Lee", Email: "ann@example.com"}},
			{ID: "sec2", User: &domain.User{FullName: "Bo Tan", Email: "bo@example.com"}},
		}},
		uploader: &fakeUploader{urls: map[domain.Slot]string{
			domain.SlotMain:      "https://cdn.example.com/new-1.png",
			domain.SlotSecondary: "https://cdn.example.com/new-2.png",
			domain.SlotTertiary:  "https://cdn.example.com/new-3.png",
		}},
		notifier: &recordingNotifier{},
	}

	f.collection = NewSpecialistCollection(f.repo, logger)
	secretaries := NewSecretaryService(f.secRepo, f.notifier, logger)
	media := NewMediaService(f.uploader, config.MediaConfig{
		MaxUploadBytes:   domain.MaxImageBytes,
		AllowedMimeTypes: []string{"image/jpeg", "image/png", "image/webp"},
	}, nil, logger)

	f.editor = NewEditorService(f.repo, f.collection, secretaries, media, f.notifier, nil, logger)
	f.status = NewStatusService(f.repo, f.collection, f.notifier, nil, logger)
	return f
}

func strPtr(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}

func sampleSpecialist() domain.Specialist {
	return domain.Specialist{
		ID:                  "s1",
		Slug:                "sdn-bhd-incorporation",
		Title:               "Old",
		BasePrice:           "50",
		Description:         "Private limited company incorporation",
		DurationDays:        7,
		AdditionalOfferings: []string{"chat_support"},
		Image1:              "urlA",
		IsDraft:             true,
		VerificationStatus:  domain.VerificationInReview,
	}
}
