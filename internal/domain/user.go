package domain

import (
	"fmt"
	"strings"
)

type User struct {
	ID           string `json:"id"`
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	PhoneNumber  string `json:"phone_number,omitempty"`
	ProfileImage string `json:"profile_image,omitempty"`
	Role         string `json:"role,omitempty"`
}

type SecretaryStatus string

const (
	SecretaryStatusActive   SecretaryStatus = "active"
	SecretaryStatusOnLeave  SecretaryStatus = "on_leave"
	SecretaryStatusInactive SecretaryStatus = "inactive"
)

type SecretaryType string

const (
	SecretaryTypeIndividual SecretaryType = "individual"
	SecretaryTypeCompany    SecretaryType = "company"
)

type Secretary struct {
	ID                 string          `json:"id"`
	RegistrationNumber string          `json:"registration_number,omitempty"`
	SecretaryType      SecretaryType   `json:"secretary_type,omitempty"`
	Status             SecretaryStatus `json:"status,omitempty"`
	IsVerified         bool            `json:"is_verified"`
	CompanyName        string          `json:"companyName,omitempty"`
	User               *User           `json:"user"`
}

func (s Secretary) FullName() string {
	if s.User == nil || s.User.FullName == "" {
		return "Unknown"
	}
	return s.User.FullName
}

func (s Secretary) Email() string {
	if s.User == nil || s.User.Email == "" {
		return "No email"
	}
	return s.User.Email
}

// OptionLabel is the "<name> (<email>)" label shown in the secretary picker.
func (s Secretary) OptionLabel() string {
	return fmt.Sprintf("%s (%s)", s.FullName(), s.Email())
}

func (s Secretary) Matches(search string) bool {
	if search == "" {
		return true
	}
	search = strings.ToLower(search)
	fields := []string{s.RegistrationNumber, s.CompanyName}
	if s.User != nil {
		fields = append(fields, s.User.FullName, s.User.Email)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), search) {
			return true
		}
	}
	return false
}

type SecretaryOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Email string `json:"email,omitempty"`
}

const UnassignedSecretaryLabel = "No Secretary (Unassigned)"

// SecretaryVerification filters the directory by the is_verified flag.
type SecretaryVerification string

const (
	SecretaryVerified SecretaryVerification = "verified"
	SecretaryPending  SecretaryVerification = "pending"
)

type SecretaryFilter struct {
	Search       string
	Status       SecretaryStatus
	Verification SecretaryVerification
}

func (f SecretaryFilter) Matches(s Secretary) bool {
	if !s.Matches(f.Search) {
		return false
	}
	if f.Status != "" && s.Status != f.Status {
		return false
	}
	switch f.Verification {
	case SecretaryVerified:
		return s.IsVerified
	case SecretaryPending:
		return !s.IsVerified
	}
	return true
}

// SecretaryStats are counted over the whole directory, not the filtered page.
type SecretaryStats struct {
	Total      int `json:"total"`
	Active     int `json:"active"`
	Verified   int `json:"verified"`
	Individual int `json:"individual"`
}

type SecretaryDirectory struct {
	Items []Secretary    `json:"items"`
	Stats SecretaryStats `json:"stats"`
}

const SecretaryRole = "secretary"

type ContactInformation struct {
	OfficePhone   string `json:"office_phone" validate:"required"`
	MobilePhone   string `json:"mobile_phone" validate:"required"`
	OfficeAddress string `json:"office_address" validate:"required"`
}

// CreateSecretaryRequest is one POST /secretaries form. Avatar and Banner are
// optional images sent as multipart files.
type CreateSecretaryRequest struct {
	Email                   string             `json:"email" validate:"required,email"`
	Password                string             `json:"password" validate:"required,min=8"`
	FullName                string             `json:"full_name" validate:"required"`
	RegistrationNumber      string             `json:"registration_number" validate:"required"`
	SecretaryType           SecretaryType      `json:"secretary_type" validate:"required,oneof=individual company"`
	Status                  SecretaryStatus    `json:"status" validate:"required,oneof=active inactive"`
	RegistrationDate        string             `json:"registration_date" validate:"required,datetime=2006-01-02"`
	ExpiryDate              string             `json:"expiry_date" validate:"required,datetime=2006-01-02"`
	Qualification           string             `json:"qualification" validate:"required"`
	YearsOfExperience       int                `json:"years_of_experience" validate:"min=0,max=50"`
	Experience              string             `json:"experience" validate:"required"`
	HourlyRate              float64            `json:"hourly_rate" validate:"min=0"`
	MonthlyRate             float64            `json:"monthly_rate" validate:"min=0"`
	ContactInformation      ContactInformation `json:"contact_information"`
	IsAcceptingNewCompanies bool               `json:"is_accepting_new_companies"`

	Avatar *ImageFile `json:"-"`
	Banner *ImageFile `json:"-"`
}
