package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Phone numbers must carry a country code, e.g. 6281234567890.
var waPhonePattern = regexp.MustCompile(`^[1-9][0-9]{7,14}$`)

// RegisterCustomValidators installs domain validation rules into gin's
// binding engine. Must be called once before routes are registered.
func RegisterCustomValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("waphone", validateWAPhone)
}

func validateWAPhone(fl validator.FieldLevel) bool {
	return waPhonePattern.MatchString(fl.Field().String())
}
