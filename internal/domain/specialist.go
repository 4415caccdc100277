package domain

import (
	"strconv"
	"strings"
	"time"
)

type VerificationStatus string

const (
	VerificationInReview VerificationStatus = "in_review"
	VerificationVerified VerificationStatus = "verified"
)

func (s VerificationStatus) IsValid() bool {
	return s == VerificationInReview || s == VerificationVerified
}

const (
	MinDurationDays = 1
	MaxDurationDays = 365
)

type Specialist struct {
	ID                     string             `json:"id"`
	Slug                   string             `json:"slug"`
	Title                  string             `json:"title"`
	BasePrice              string             `json:"base_price"`
	Description            string             `json:"description,omitempty"`
	DurationDays           int                `json:"duration_days,omitempty"`
	AdditionalOfferings    []string           `json:"additional_offerings"`
	Image1                 string             `json:"image_1"`
	Image2                 string             `json:"image_2"`
	Image3                 string             `json:"image_3"`
	Media                  []Media            `json:"media,omitempty"`
	AssignedSecretaryID    *string            `json:"assigned_secretary_id"`
	AssignedSecretary      *AssignedSecretary `json:"assigned_secretary,omitempty"`
	IsDraft                bool               `json:"is_draft"`
	VerificationStatus     VerificationStatus `json:"verification_status"`
	SpecialistStatus       string             `json:"specialist_status,omitempty"`
	AverageRating          string             `json:"average_rating,omitempty"`
	FinalPrice             string             `json:"final_price,omitempty"`
	PlatformFee            string             `json:"platform_fee,omitempty"`
	TotalProjectsCompleted int                `json:"total_projects_completed,omitempty"`
	IsVerified             bool               `json:"is_verified"`
	CreatedAt              *time.Time         `json:"created_at,omitempty"`
}

type AssignedSecretary struct {
	ID                 string `json:"id"`
	FullName           string `json:"full_name"`
	ProfileImage       string `json:"profile_image,omitempty"`
	CompanyName        string `json:"companyName,omitempty"`
	RegistrationNumber string `json:"registration_number,omitempty"`
}

type Media struct {
	ID            string `json:"id,omitempty"`
	DisplayOrder  int    `json:"display_order"`
	CloudinaryURL string `json:"cloudinary_url"`
	MediaType     string `json:"media_type,omitempty"`
	MimeType      string `json:"mime_type,omitempty"`
}

// ImageURL returns the stored URL for a slot: the image_N field first, then
// the media entry with the matching display order.
func (s Specialist) ImageURL(slot Slot) string {
	var direct string
	switch slot {
	case SlotMain:
		direct = s.Image1
	case SlotSecondary:
		direct = s.Image2
	case SlotTertiary:
		direct = s.Image3
	}
	if direct != "" {
		return direct
	}

	for _, m := range s.Media {
		if m.DisplayOrder == slot.DisplayOrder() {
			return m.CloudinaryURL
		}
	}
	return ""
}

// PublishState is the publish state machine view of IsDraft.
func (s Specialist) PublishState() PublishState {
	if s.IsDraft {
		return PublishStateDraft
	}
	return PublishStatePublished
}

// Apply shallow-merges an update payload over the record.
func (s Specialist) Apply(p SpecialistPayload) Specialist {
	s.Title = p.Title
	s.BasePrice = p.BasePrice
	s.Description = p.Description
	s.DurationDays = p.DurationDays
	s.AdditionalOfferings = append([]string(nil), p.AdditionalOfferings...)
	s.AssignedSecretaryID = cloneStringPtr(p.AssignedSecretaryID)
	if s.AssignedSecretaryID == nil {
		s.AssignedSecretary = nil
	}
	s.Image1 = p.Image1
	s.Image2 = p.Image2
	s.Image3 = p.Image3
	s.Slug = p.Slug
	return s
}

// Clone returns a deep copy so collection snapshots never share slices.
func (s Specialist) Clone() Specialist {
	s.AdditionalOfferings = append([]string(nil), s.AdditionalOfferings...)
	s.Media = append([]Media(nil), s.Media...)
	s.AssignedSecretaryID = cloneStringPtr(s.AssignedSecretaryID)
	if s.AssignedSecretary != nil {
		sec := *s.AssignedSecretary
		s.AssignedSecretary = &sec
	}
	if s.CreatedAt != nil {
		t := *s.CreatedAt
		s.CreatedAt = &t
	}
	return s
}

type PublishState string

const (
	PublishStateDraft     PublishState = "draft"
	PublishStatePublished PublishState = "published"
)

// SpecialistPayload is the full body of PUT /specialists/{id}.
type SpecialistPayload struct {
	Title               string   `json:"title" validate:"required"`
	BasePrice           string   `json:"base_price" validate:"required,price"`
	Description         string   `json:"description" validate:"required"`
	DurationDays        int      `json:"duration_days" validate:"min=1,max=365"`
	AdditionalOfferings []string `json:"additional_offerings"`
	AssignedSecretaryID *string  `json:"assigned_secretary_id"`
	Image1              string   `json:"image_1"`
	Image2              string   `json:"image_2"`
	Image3              string   `json:"image_3"`
	Slug                string   `json:"slug"`
}

// CreateSpecialistPayload is the multipart body of POST /specialists.
type CreateSpecialistPayload struct {
	Title               string `validate:"required"`
	BasePrice           string `validate:"required,price"`
	PlatformFee         string `validate:"omitempty,percent"`
	Description         string `validate:"required"`
	DurationDays        int    `validate:"min=1,max=365"`
	AdditionalOfferings []string
	AssignedSecretaryID *string
	IsDraft             bool
	Images              []ImageFile
}

type VerifyRequest struct {
	Status VerificationStatus `json:"status" binding:"required,oneof=in_review verified"`
}

type SpecialistTab string

const (
	SpecialistTabAll       SpecialistTab = "All"
	SpecialistTabDrafts    SpecialistTab = "Drafts"
	SpecialistTabPublished SpecialistTab = "Published"
)

type SpecialistFilter struct {
	Search   string
	Tab      SpecialistTab
	Page     int
	PageSize int
}

func (f SpecialistFilter) Matches(s Specialist) bool {
	if f.Search != "" && !strings.Contains(strings.ToLower(s.Title), strings.ToLower(f.Search)) {
		return false
	}
	switch f.Tab {
	case SpecialistTabDrafts:
		return s.IsDraft
	case SpecialistTabPublished:
		return !s.IsDraft
	}
	return true
}

// FinalPrice computes base + base*fee/100. Unparsable inputs count as zero.
func FinalPrice(basePrice, platformFee string) float64 {
	base, _ := strconv.ParseFloat(strings.TrimSpace(basePrice), 64)
	fee, _ := strconv.ParseFloat(strings.TrimSpace(platformFee), 64)
	return base + base*fee/100
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
