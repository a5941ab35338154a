package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/yigit/openlab/internal/pkg/apperrors"
)

// Validation rule patterns
var (
	// Phone numbers: digits with optional dashes or spaces, 9 to 13 digits in total
	PhonePattern = `^[0-9][0-9\- ]{7,15}[0-9]$`
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Phone *regexp.Regexp
}{
	Phone: regexp.MustCompile(PhonePattern),
}

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator returns the shared validator with the custom "phone" rule registered.
func Validator() *validator.Validate {
	once.Do(func() {
		instance = validator.New(validator.WithRequiredStructEnabled())
		_ = instance.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return CompiledPatterns.Phone.MatchString(fl.Field().String())
		})
	})
	return instance
}

// ValidPhone reports whether s looks like a phone number
func ValidPhone(s string) bool {
	return CompiledPatterns.Phone.MatchString(s)
}

// Struct validates v with the shared validator. Failures are returned as an
// apperrors validation error whose details map each field to the failed rule.
func Struct(v interface{}) error {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", apperrors.ErrValidationFailed, err)
	}

	details := make(map[string]interface{}, len(fieldErrs))
	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[fe.Field()] = fe.Tag()
		fields = append(fields, fe.Field())
	}
	return apperrors.NewCustomError(apperrors.ErrValidationFailed, "invalid "+strings.Join(fields, ", ")).
		WithCode("INVALID_FIELDS").
		WithDetails(details)
}
