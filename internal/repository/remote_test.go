package repository

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cosecdesk/config"
	"cosecdesk/internal/domain"
)

func newTestRepositories(t *testing.T, handler http.HandlerFunc) *Repositories {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClient(config.BackendConfig{BaseURL: srv.URL, Timeout: 5 * time.Second})
	return NewRepositories(client, nil)
}

func TestRequestWithoutTokenNeverCallsServer(t *testing.T) {
	var calls int32
	repos := newTestRepositories(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})

	_, err := repos.Specialist.ListAdmin(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = repos.Media.Upload(context.Background(), "  ", domain.UploadRequest{})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestListAdminSendsBearerAndDecodesEnvelope(t *testing.T) {
	repos := newTestRepositories(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/specialists/admin", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"data":[{"id":"s1","title":"Incorporation","base_price":"100","is_draft":true}],"total":1}`))
	})

	list, err := repos.Specialist.ListAdmin(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "s1", list[0].ID)
	assert.True(t, list[0].IsDraft)
}

func TestListSecretariesBareArray(t *testing.T) {
	repos := newTestRepositories(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/secretaries", r.URL.Path)
		_, _ = w.Write([]byte(`[{"id":"sec1","user":{"full_name":"Ann Lee","email":"ann@example.com"}}]`))
	})

	list, err := repos.Secretary.List(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Ann Lee (ann@example.com)", list[0].OptionLabel())
}

func TestCreateSecretarySendsMultipartForm(t *testing.T) {
	repos := newTestRepositories(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/secretaries", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "secretary", r.FormValue("role"))
		assert.Equal(t, "ann@example.com", r.FormValue("email"))
		assert.Equal(t, "individual", r.FormValue("secretary_type"))
		assert.Equal(t, "2026-01-01", r.FormValue("registration_date"))
		assert.Equal(t, "7", r.FormValue("years_of_experience"))
		assert.Equal(t, "12.5", r.FormValue("hourly_rate"))
		assert.Equal(t, "+60 3-1234 5678", r.FormValue("contact_information[office_phone]"))
		assert.Equal(t, "Level 5, Menara KL", r.FormValue("contact_information[office_address]"))
		assert.Equal(t, "true", r.FormValue("is_accepting_new_companies"))

		avatar, header, err := r.FormFile("avatar")
		require.NoError(t, err)
		defer avatar.Close()
		data, err := io.ReadAll(avatar)
		require.NoError(t, err)
		assert.Equal(t, "ann.png", header.Filename)
		assert.Equal(t, []byte("png-bytes"), data)

		_, _, err = r.FormFile("banner")
		assert.ErrorIs(t, err, http.ErrMissingFile)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"sec9","status":"active","user":{"full_name":"Ann Lee","email":"ann@example.com"}}}`))
	})

	created, err := repos.Secretary.Create(context.Background(), "tok", domain.CreateSecretaryRequest{
		Email:             "ann@example.com",
		Password:          "secret-123",
		FullName:          "Ann Lee",
		SecretaryType:     domain.SecretaryTypeIndividual,
		Status:            domain.SecretaryStatusActive,
		RegistrationDate:  "2026-01-01",
		ExpiryDate:        "2027-01-01",
		YearsOfExperience: 7,
		HourlyRate:        12.5,
		ContactInformation: domain.ContactInformation{
			OfficePhone:   "+60 3-1234 5678",
			MobilePhone:   "+60 12-345 6789",
			OfficeAddress: "Level 5, Menara KL",
		},
		IsAcceptingNewCompanies: true,
		Avatar:                  &domain.ImageFile{FileName: "ann.png", MimeType: "image/png", Data: []byte("png-bytes")},
	})
	require.NoError(t, err)
	assert.Equal(t, "sec9", created.ID)
	assert.Equal(t, domain.SecretaryStatusActive, created.Status)
}

func TestRemoteErrorCarriesServerMessage(t *testing.T) {
	repos := newTestRepositories(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Slug already taken"}`))
	})

	_, err := repos.Specialist.Publish(context.Background(), "tok", "s1")
	require.Error(t, err)

	var remote *domain.RemoteError
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, http.StatusBadRequest, remote.StatusCode)
	assert.Equal(t, "Slug already taken", err.Error())
}

func TestRemoteErrorWithoutMessageUsesFallback(t *testing.T) {
	repos := newTestRepositories(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := repos.Specialist.Unpublish(context.Background(), "tok", "s1")
	require.Error(t, err)
	assert.Equal(t, "Failed to unpublish", domain.WithFallback(err, "Failed to unpublish").Error())
}

func TestUpdateSendsFullPayload(t *testing.T) {
	repos := newTestRepositories(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/specialists/s1", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "New title", body["title"])
		assert.Equal(t, []interface{}{}, body["additional_offerings"])
		assert.Nil(t, body["assigned_secretary_id"])
		assert.Equal(t, "incorporation", body["slug"])

		_, _ = w.Write([]byte(`{"data":{"id":"s1","title":"New title"}}`))
	})

	updated, err := repos.Specialist.Update(context.Background(), "tok", "s1", domain.SpecialistPayload{
		Title:        "New title",
		BasePrice:    "100",
		Description:  "d",
		DurationDays: 3,
		Slug:         "incorporation",
	})
	require.NoError(t, err)
	assert.Equal(t, "New title", updated.Title)
}

func TestSetVerificationStatusBody(t *testing.T) {
	repos := newTestRepositories(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/specialists/s1/verify", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"status":"verified"}`, string(raw))
		w.WriteHeader(http.StatusNoContent)
	})

	updated, err := repos.Specialist.SetVerificationStatus(context.Background(), "tok", "s1", domain.VerificationVerified)
	require.NoError(t, err)
	assert.Nil(t, updated)
}

func TestCreateSendsMultipart(t *testing.T) {
	repos := newTestRepositories(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/specialists/", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "Incorporation", r.FormValue("title"))
		assert.Equal(t, "7", r.FormValue("duration_days"))
		assert.Equal(t, `["company_secretary"]`, r.FormValue("additional_offerings"))
		assert.Equal(t, "true", r.FormValue("is_draft"))
		assert.Equal(t, "10", r.FormValue("platform_fee"))

		file, header, err := r.FormFile("image_1")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "a.png", header.Filename)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"new","title":"Incorporation","is_draft":true}`))
	})

	created, err := repos.Specialist.Create(context.Background(), "tok", domain.CreateSpecialistPayload{
		Title:               "Incorporation",
		BasePrice:           "100",
		PlatformFee:         "10",
		Description:         "d",
		DurationDays:        7,
		AdditionalOfferings: []string{"company_secretary"},
		IsDraft:             true,
		Images: []domain.ImageFile{
			{Slot: domain.SlotMain, FileName: "a.png", MimeType: "image/png", Data: []byte("png")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "new", created.ID)
}

func TestMediaUploadFields(t *testing.T) {
	repos := newTestRepositories(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/media", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "2", r.FormValue("display_order"))
		assert.Equal(t, "profile", r.FormValue("media_type"))
		assert.Equal(t, "s1", r.FormValue("specialist_id"))
		assert.Equal(t, "4", r.FormValue("file_size"))
		assert.Equal(t, "image/jpeg", r.FormValue("mime_type"))

		_, _, err := r.FormFile("image_2")
		require.NoError(t, err)

		_, _ = w.Write([]byte(`{"url":"https://cdn.example.com/b.jpg"}`))
	})

	url, err := repos.Media.Upload(context.Background(), "tok", domain.UploadRequest{
		File:         domain.ImageFile{Slot: domain.SlotSecondary, FileName: "b.jpg", MimeType: "image/jpeg", Data: []byte("jpeg")},
		SpecialistID: "s1",
		DisplayOrder: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/b.jpg", url)
}

func TestMediaUploadEmptyURLIsError(t *testing.T) {
	repos := newTestRepositories(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := repos.Media.Upload(context.Background(), "tok", domain.UploadRequest{
		File:         domain.ImageFile{Slot: domain.SlotMain, FileName: "a.png", MimeType: "image/png", Data: []byte("x")},
		DisplayOrder: 1,
	})
	assert.True(t, domain.IsRemote(err))
}
