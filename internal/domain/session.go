package domain

type EditMode string

const (
	EditModeEdit   EditMode = "edit"
	EditModeCreate EditMode = "create"
)

// DetailsDraft holds the Service Details step. A nil field was never touched
// and falls back to the original record on submit.
type DetailsDraft struct {
	Title        *string `json:"title,omitempty"`
	BasePrice    *string `json:"base_price,omitempty"`
	PlatformFee  *string `json:"platform_fee,omitempty"`
	DurationDays *int    `json:"duration_days,omitempty"`
	Description  *string `json:"description,omitempty"`
}

// Merge overlays the non-nil fields of other.
func (d DetailsDraft) Merge(other DetailsDraft) DetailsDraft {
	if other.Title != nil {
		d.Title = cloneStringPtr(other.Title)
	}
	if other.BasePrice != nil {
		d.BasePrice = cloneStringPtr(other.BasePrice)
	}
	if other.PlatformFee != nil {
		d.PlatformFee = cloneStringPtr(other.PlatformFee)
	}
	if other.DurationDays != nil {
		v := *other.DurationDays
		d.DurationDays = &v
	}
	if other.Description != nil {
		d.Description = cloneStringPtr(other.Description)
	}
	return d
}

type OfferingsInput struct {
	Offerings []string `json:"offerings"`
}

// SecretaryInput selects an assignee; a null id means "No Secretary".
type SecretaryInput struct {
	SecretaryID *string `json:"secretary_id"`
}

type OpenSessionRequest struct {
	SpecialistID string `json:"specialist_id"`
}

type SubmitRequest struct {
	Publish bool `json:"publish"`
}

type TabCounts struct {
	All       int `json:"all"`
	Drafts    int `json:"drafts"`
	Published int `json:"published"`
}

type SpecialistPage struct {
	Items    []Specialist `json:"items"`
	Total    int          `json:"total"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
	Counts   TabCounts    `json:"counts"`
}
