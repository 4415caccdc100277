package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cosecdesk/internal/domain"
)

func TestSecretaryDirectory(t *testing.T) {
	repo := &fakeSecretaryRepo{secretaries: []domain.Secretary{
		{ID: "sec1", CompanyName: "Lee & Co", User: &domain.User{FullName: "Ann Lee", Email: "ann@example.com"}},
		{ID: "sec2"},
	}}
	svc := NewSecretaryService(repo, nil, zap.NewNop())

	options, err := svc.Options(context.Background(), testIdentity)
	require.NoError(t, err)
	assert.Equal(t, []domain.SecretaryOption{
		{Value: "", Label: "No Secretary (Unassigned)"},
		{Value: "sec1", Label: "Ann Lee (ann@example.com)", Email: "ann@example.com"},
		{Value: "sec2", Label: "Unknown (No email)", Email: "No email"},
	}, options)

	found, err := svc.List(context.Background(), testIdentity, domain.SecretaryFilter{Search: "lee & co"}, false)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "sec1", found.Items[0].ID)

	_, err = svc.Lookup(context.Background(), testIdentity, "nobody")
	assert.ErrorIs(t, err, domain.ErrUnknownSecretary)
	assert.Equal(t, 1, repo.calls)

	_, err = svc.List(context.Background(), testIdentity, domain.SecretaryFilter{}, true)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)
}

func TestSecretaryDirectoryFiltersAndStats(t *testing.T) {
	repo := &fakeSecretaryRepo{secretaries: []domain.Secretary{
		{ID: "a", Status: domain.SecretaryStatusActive, IsVerified: true, SecretaryType: domain.SecretaryTypeIndividual},
		{ID: "b", Status: domain.SecretaryStatusActive, SecretaryType: domain.SecretaryTypeCompany},
		{ID: "c", Status: domain.SecretaryStatusInactive, IsVerified: true, SecretaryType: domain.SecretaryTypeIndividual},
	}}
	svc := NewSecretaryService(repo, nil, zap.NewNop())

	tests := []struct {
		name   string
		filter domain.SecretaryFilter
		want   []string
	}{
		{name: "all", filter: domain.SecretaryFilter{}, want: []string{"a", "b", "c"}},
		{name: "active", filter: domain.SecretaryFilter{Status: domain.SecretaryStatusActive}, want: []string{"a", "b"}},
		{name: "verified", filter: domain.SecretaryFilter{Verification: domain.SecretaryVerified}, want: []string{"a", "c"}},
		{name: "pending", filter: domain.SecretaryFilter{Verification: domain.SecretaryPending}, want: []string{"b"}},
		{name: "inactive verified", filter: domain.SecretaryFilter{Status: domain.SecretaryStatusInactive, Verification: domain.SecretaryVerified}, want: []string{"c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			directory, err := svc.List(context.Background(), testIdentity, tt.filter, false)
			require.NoError(t, err)

			var ids []string
			for _, s := range directory.Items {
				ids = append(ids, s.ID)
			}
			assert.Equal(t, tt.want, ids)
			assert.Equal(t, domain.SecretaryStats{Total: 3, Active: 2, Verified: 2, Individual: 2}, directory.Stats)
		})
	}
}

func TestSecretaryDirectoryRequiresIdentity(t *testing.T) {
	repo := &fakeSecretaryRepo{}
	svc := NewSecretaryService(repo, nil, zap.NewNop())

	_, err := svc.List(context.Background(), domain.Identity{}, domain.SecretaryFilter{}, false)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.Equal(t, 0, repo.calls)
}

func TestSecretaryDirectoryIsLoadedPerCaller(t *testing.T) {
	repo := &fakeSecretaryRepo{secretaries: []domain.Secretary{{ID: "sec1"}}}
	svc := NewSecretaryService(repo, nil, zap.NewNop())

	_, err := svc.Options(context.Background(), testIdentity)
	require.NoError(t, err)

	_, err = svc.Lookup(context.Background(), domain.Identity{Token: "other-token"}, "sec1")
	require.NoError(t, err)

	assert.Equal(t, 2, repo.calls)
	assert.Equal(t, []string{"tok", "other-token"}, repo.tokens)
}

func validSecretaryRequest() domain.CreateSecretaryRequest {
	return domain.CreateSecretaryRequest{
		Email:              "ann@example.com",
		Password:           "secret-123",
		FullName:           "Ann Lee",
		RegistrationNumber: "LS0012345",
		SecretaryType:      domain.SecretaryTypeIndividual,
		Status:             domain.SecretaryStatusActive,
		RegistrationDate:   "2026-01-01",
		ExpiryDate:         "2027-01-01",
		Qualification:      "MAICSA",
		YearsOfExperience:  7,
		Experience:         "Company secretarial work for SMEs",
		HourlyRate:         120,
		MonthlyRate:        1500,
		ContactInformation: domain.ContactInformation{
			OfficePhone:   "+60 3-1234 5678",
			MobilePhone:   "+60 12-345 6789",
			OfficeAddress: "Level 5, Menara KL",
		},
		IsAcceptingNewCompanies: true,
	}
}

func TestCreateSecretary(t *testing.T) {
	repo := &fakeSecretaryRepo{secretaries: []domain.Secretary{{ID: "sec1"}}}
	notifier := &recordingNotifier{}
	svc := NewSecretaryService(repo, notifier, zap.NewNop())

	_, err := svc.List(context.Background(), testIdentity, domain.SecretaryFilter{}, false)
	require.NoError(t, err)

	req := validSecretaryRequest()
	req.FullName = "<b>Ann Lee</b>"
	req.Avatar = &domain.ImageFile{FileName: "ann.png", Data: pngData}

	created, err := svc.Create(context.Background(), testIdentity, req)
	require.NoError(t, err)
	assert.Equal(t, "sec-new", created.ID)

	require.Len(t, repo.creates, 1)
	assert.Equal(t, "bAnn Lee/b", repo.creates[0].FullName)
	assert.Equal(t, "image/png", repo.creates[0].Avatar.MimeType)

	directory, err := svc.List(context.Background(), testIdentity, domain.SecretaryFilter{}, false)
	require.NoError(t, err)
	assert.Len(t, directory.Items, 2)
	assert.Equal(t, 1, repo.calls)

	last := notifier.last()
	assert.Equal(t, domain.NotificationSuccess, last.Level)
	assert.Equal(t, "Secretary created successfully! 🎉", last.Message)
	assert.Equal(t, testIdentity.Key(), last.Subject)
}

func TestCreateSecretaryRejectsBeforeBackend(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*domain.CreateSecretaryRequest)
		check  func(t *testing.T, err error)
	}{
		{
			name:   "short password",
			modify: func(r *domain.CreateSecretaryRequest) { r.Password = "short" },
			check: func(t *testing.T, err error) {
				var verr *domain.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, []string{"password"}, verr.Fields)
			},
		},
		{
			name: "missing contact and bad date",
			modify: func(r *domain.CreateSecretaryRequest) {
				r.ContactInformation.OfficeAddress = "  "
				r.ExpiryDate = "01/01/2027"
			},
			check: func(t *testing.T, err error) {
				var verr *domain.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.ElementsMatch(t, []string{"expiry_date", "office_address"}, verr.Fields)
			},
		},
		{
			name:   "experience out of range",
			modify: func(r *domain.CreateSecretaryRequest) { r.YearsOfExperience = 51 },
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, domain.ErrValidation)
			},
		},
		{
			name: "banner is not an image",
			modify: func(r *domain.CreateSecretaryRequest) {
				r.Banner = &domain.ImageFile{FileName: "cv.txt", Data: []byte("plain text")}
			},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, domain.ErrUploadRejected)
				assert.Equal(t, "You can only upload image files!", err.Error())
			},
		},
		{
			name: "avatar too large",
			modify: func(r *domain.CreateSecretaryRequest) {
				data := append(bytes.Clone(pngData), make([]byte, MaxSecretaryImageBytes)...)
				r.Avatar = &domain.ImageFile{FileName: "big.png", Data: data}
			},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, domain.ErrUploadRejected)
				assert.Equal(t, "Image must be smaller than 5MB!", err.Error())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeSecretaryRepo{}
			svc := NewSecretaryService(repo, nil, zap.NewNop())

			req := validSecretaryRequest()
			tt.modify(&req)

			_, err := svc.Create(context.Background(), testIdentity, req)
			tt.check(t, err)
			assert.Empty(t, repo.creates)
		})
	}
}

func TestCreateSecretaryRemoteFailure(t *testing.T) {
	repo := &fakeSecretaryRepo{createErr: &domain.RemoteError{StatusCode: 500}}
	notifier := &recordingNotifier{}
	svc := NewSecretaryService(repo, notifier, zap.NewNop())

	_, err := svc.Create(context.Background(), testIdentity, validSecretaryRequest())
	require.Error(t, err)
	assert.Equal(t, "Failed to create secretary", err.Error())
	assert.Equal(t, domain.NotificationError, notifier.last().Level)
	assert.Equal(t, "Failed to create secretary", notifier.last().Message)
}
