package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-resty/resty/v2"

	"cosecdesk/internal/domain"
)

type SpecialistRepo struct {
	remote
}

func NewSpecialistRepository(base remote) *SpecialistRepo {
	return &SpecialistRepo{remote: base}
}

func (r *SpecialistRepo) ListAdmin(ctx context.Context, token string) ([]domain.Specialist, error) {
	req, err := r.request(ctx, token)
	if err != nil {
		return nil, err
	}

	resp, err := r.execute("list_specialists", req, http.MethodGet, "/specialists/admin")
	if err != nil {
		return nil, err
	}

	specialists, err := decodeList[domain.Specialist](resp.Body())
	if err != nil {
		return nil, fmt.Errorf("ошибка разбора списка специалистов: %w", err)
	}
	return specialists, nil
}

func (r *SpecialistRepo) Create(ctx context.Context, token string, payload domain.CreateSpecialistPayload) (*domain.Specialist, error) {
	req, err := r.request(ctx, token)
	if err != nil {
		return nil, err
	}

	offerings, err := json.Marshal(nonNil(payload.AdditionalOfferings))
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации дополнительных услуг: %w", err)
	}

	form := map[string]string{
		"title":                payload.Title,
		"description":          payload.Description,
		"base_price":           payload.BasePrice,
		"duration_days":        strconv.Itoa(payload.DurationDays),
		"additional_offerings": string(offerings),
		"is_draft":             strconv.FormatBool(payload.IsDraft),
	}
	if payload.PlatformFee != "" {
		form["platform_fee"] = payload.PlatformFee
	}
	if payload.AssignedSecretaryID != nil {
		form["assigned_secretary_id"] = *payload.AssignedSecretaryID
	}

	req.SetMultipartFormData(form)
	for _, img := range payload.Images {
		req.SetMultipartField(string(img.Slot), img.FileName, img.MimeType, bytesReader(img.Data))
	}

	resp, err := r.execute("create_specialist", req, http.MethodPost, "/specialists/")
	if err != nil {
		return nil, err
	}
	return r.decode(resp)
}

func (r *SpecialistRepo) Update(ctx context.Context, token, id string, payload domain.SpecialistPayload) (*domain.Specialist, error) {
	req, err := r.request(ctx, token)
	if err != nil {
		return nil, err
	}

	payload.AdditionalOfferings = nonNil(payload.AdditionalOfferings)
	req.SetHeader("Content-Type", "application/json").SetBody(payload)

	resp, err := r.execute("update_specialist", req, http.MethodPut, "/specialists/"+id)
	if err != nil {
		return nil, err
	}
	return r.decode(resp)
}

func (r *SpecialistRepo) Publish(ctx context.Context, token, id string) (*domain.Specialist, error) {
	return r.patch(ctx, token, "publish_specialist", "/specialists/"+id+"/publish", nil)
}

func (r *SpecialistRepo) Unpublish(ctx context.Context, token, id string) (*domain.Specialist, error) {
	return r.patch(ctx, token, "unpublish_specialist", "/specialists/"+id+"/unpublish", nil)
}

func (r *SpecialistRepo) SetVerificationStatus(ctx context.Context, token, id string, status domain.VerificationStatus) (*domain.Specialist, error) {
	body := map[string]domain.VerificationStatus{"status": status}
	return r.patch(ctx, token, "verify_specialist", "/specialists/"+id+"/verify", body)
}

func (r *SpecialistRepo) patch(ctx context.Context, token, operation, url string, body interface{}) (*domain.Specialist, error) {
	req, err := r.request(ctx, token)
	if err != nil {
		return nil, err
	}

	req.SetHeader("Content-Type", "application/json")
	if body != nil {
		req.SetBody(body)
	}

	resp, err := r.execute(operation, req, http.MethodPatch, url)
	if err != nil {
		return nil, err
	}
	return r.decode(resp)
}

// decode tolerates empty bodies: some endpoints answer 204.
func (r *SpecialistRepo) decode(resp *resty.Response) (*domain.Specialist, error) {
	if len(resp.Body()) == 0 {
		return nil, nil
	}
	specialist, err := decodeSpecialist(resp.Body())
	if err != nil {
		return nil, fmt.Errorf("ошибка разбора ответа специалиста: %w", err)
	}
	return specialist, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
