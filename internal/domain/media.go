package domain

import "fmt"

// Slot is one of the three fixed media positions of a specialist.
type Slot string

const (
	SlotMain      Slot = "image_1"
	SlotSecondary Slot = "image_2"
	SlotTertiary  Slot = "image_3"
)

var Slots = []Slot{SlotMain, SlotSecondary, SlotTertiary}

func ParseSlot(s string) (Slot, error) {
	for _, slot := range Slots {
		if string(slot) == s {
			return slot, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidSlot, s)
}

// DisplayOrder is the 1-based position sent to the media endpoint.
func (s Slot) DisplayOrder() int {
	switch s {
	case SlotMain:
		return 1
	case SlotSecondary:
		return 2
	case SlotTertiary:
		return 3
	}
	return 0
}

func (s Slot) Index() int {
	return s.DisplayOrder() - 1
}

const (
	MaxImageBytes    = 4 * 1024 * 1024
	MediaTypeProfile = "profile"
)

// ImageFile is a local file selected for a slot.
type ImageFile struct {
	Slot     Slot   `json:"slot"`
	FileName string `json:"file_name"`
	MimeType string `json:"mime_type"`
	Data     []byte `json:"-"`
}

func (f ImageFile) Size() int {
	return len(f.Data)
}

// UploadRequest describes one POST /media call.
type UploadRequest struct {
	File         ImageFile
	SpecialistID string
	DisplayOrder int
	MediaType    string
}

type UploadResult struct {
	URL string `json:"url"`
}
