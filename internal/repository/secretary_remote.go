package repository

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"cosecdesk/internal/domain"
)

type SecretaryRepo struct {
	remote
}

func NewSecretaryRepository(base remote) *SecretaryRepo {
	return &SecretaryRepo{remote: base}
}

func (r *SecretaryRepo) List(ctx context.Context, token string) ([]domain.Secretary, error) {
	req, err := r.request(ctx, token)
	if err != nil {
		return nil, err
	}

	resp, err := r.execute("list_secretaries", req, http.MethodGet, "/secretaries")
	if err != nil {
		return nil, err
	}

	secretaries, err := decodeList[domain.Secretary](resp.Body())
	if err != nil {
		return nil, fmt.Errorf("ошибка разбора списка секретарей: %w", err)
	}
	return secretaries, nil
}

// Create posts the secretary form as multipart. Contact details go as
// contact_information[...] fields, images as the avatar and banner files.
func (r *SecretaryRepo) Create(ctx context.Context, token string, req domain.CreateSecretaryRequest) (*domain.Secretary, error) {
	request, err := r.request(ctx, token)
	if err != nil {
		return nil, err
	}

	request.SetMultipartFormData(map[string]string{
		"email":                               req.Email,
		"password":                            req.Password,
		"full_name":                           req.FullName,
		"role":                                domain.SecretaryRole,
		"registration_number":                 req.RegistrationNumber,
		"secretary_type":                      string(req.SecretaryType),
		"status":                              string(req.Status),
		"registration_date":                   req.RegistrationDate,
		"expiry_date":                         req.ExpiryDate,
		"qualification":                       req.Qualification,
		"years_of_experience":                 strconv.Itoa(req.YearsOfExperience),
		"experience":                          req.Experience,
		"hourly_rate":                         strconv.FormatFloat(req.HourlyRate, 'f', -1, 64),
		"monthly_rate":                        strconv.FormatFloat(req.MonthlyRate, 'f', -1, 64),
		"contact_information[office_phone]":   req.ContactInformation.OfficePhone,
		"contact_information[mobile_phone]":   req.ContactInformation.MobilePhone,
		"contact_information[office_address]": req.ContactInformation.OfficeAddress,
		"is_accepting_new_companies":          strconv.FormatBool(req.IsAcceptingNewCompanies),
	})
	if req.Avatar != nil {
		request.SetMultipartField("avatar", req.Avatar.FileName, req.Avatar.MimeType, bytesReader(req.Avatar.Data))
	}
	if req.Banner != nil {
		request.SetMultipartField("banner", req.Banner.FileName, req.Banner.MimeType, bytesReader(req.Banner.Data))
	}

	resp, err := r.execute("create_secretary", request, http.MethodPost, "/secretaries")
	if err != nil {
		return nil, err
	}

	secretary, err := decodeRecord[domain.Secretary](resp.Body())
	if err != nil {
		return nil, fmt.Errorf("ошибка разбора секретаря: %w", err)
	}
	return secretary, nil
}
