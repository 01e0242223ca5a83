package validator

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var seatLabelRgx = regexp.MustCompile(`^[A-Z][0-9]{1,3}$`)

func NewValidator() *validator.Validate {
	validator := validator.New(validator.WithRequiredStructEnabled())

	validator.RegisterValidation("seat_label", validateSeatLabel)

	return validator
}

// Seat labels are a row letter followed by a seat number, e.g. "A1" or "C12".
func validateSeatLabel(fl validator.FieldLevel) bool {
	return seatLabelRgx.MatchString(fl.Field().String())
}

// ValidationMessage converts validator errors into readable messages
func ValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must contain at least %s items", err.Param())
	case "max":
		return fmt.Sprintf("must contain at most %s items", err.Param())
	case "unique":
		return "must not contain duplicates"
	case "seat_label":
		return "must be a row letter followed by a seat number, e.g. A1"
	default:
		return "is invalid"
	}
}
