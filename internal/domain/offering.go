package domain

import "fmt"

type Offering struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var OfferingCatalog = []Offering{
	{Value: "cosecs_sub", Label: "Company Secretary Subscription (1 month free)"},
	{Value: "bank_opening", Label: "Complimentary Corporate Bank Account Opening"},
	{Value: "ssm_access", Label: "Access Company Records and SSM Forms"},
	{Value: "secure_access", Label: "24/7 Secure Access to Statutory Company Records"},
	{Value: "priority_filing", Label: "Priority Filing (Within 24 hours)"},
	{Value: "reg_address", Label: "Registered Office Address Use"},
	{Value: "compliance_cal", Label: "Compliance Calendar Setup"},
	{Value: "share_cert", Label: "First Share Certificate Issued Free"},
	{Value: "ctc_delivery", Label: "CTC Delivery & Courier Handling"},
	{Value: "chat_support", Label: "Always-On Chat Support"},
}

type DurationOption struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// DurationSuggestions are the picker values; they do not bound the accepted range.
func DurationSuggestions() []DurationOption {
	options := make([]DurationOption, 0, 14)
	for i := 1; i <= 14; i++ {
		label := fmt.Sprintf("%d Day", i)
		if i > 1 {
			label += "s"
		}
		options = append(options, DurationOption{Value: i, Label: label})
	}
	return options
}

func IsKnownOffering(value string) bool {
	for _, o := range OfferingCatalog {
		if o.Value == value {
			return true
		}
	}
	return false
}

// OfferingLabel falls back to the raw code for values outside the catalog.
func OfferingLabel(value string) string {
	for _, o := range OfferingCatalog {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

// NormalizeOfferings validates codes and drops duplicates, keeping first-seen order.
func NormalizeOfferings(values []string) ([]string, error) {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		if !IsKnownOffering(v) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownOffering, v)
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result, nil
}
