package validator

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	priceRegex = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

	once     sync.Once
	instance *validator.Validate
)

// Instance returns the shared validator with the domain rules registered.
func Instance() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})

		_ = v.RegisterValidation("price", func(fl validator.FieldLevel) bool {
			return ValidatePrice(fl.Field().String())
		})
		_ = v.RegisterValidation("percent", func(fl validator.FieldLevel) bool {
			return ValidatePercent(fl.Field().String())
		})

		instance = v
	})
	return instance
}

// ValidatePrice accepts non-negative decimals such as "50" or "99.90".
func ValidatePrice(price string) bool {
	return priceRegex.MatchString(strings.TrimSpace(price))
}

func ValidatePercent(percent string) bool {
	percent = strings.TrimSpace(percent)
	if !priceRegex.MatchString(percent) {
		return false
	}
	value, err := strconv.ParseFloat(percent, 64)
	return err == nil && value <= 100
}

// FieldErrors lists the fields that failed validation, in declaration order.
func FieldErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}

	fields := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		fields = append(fields, fe.Field())
	}
	return fields
}

func SanitizeString(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '<' || r == '>' || r == '&' || r == '"' || r == '\'' || r == '`' || r == ';' {
			return -1
		}
		return r
	}, s)
}
