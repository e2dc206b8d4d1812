package validator

import (
	"github.com/go-playground/validator/v10"
)

// Validator wraps the go-playground validate instance so callers share one
// configured instance instead of constructing their own.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate checks all validate:"..." tags on s.
func (v *Validator) Validate(s interface{}) error {
	return v.validate.Struct(s)
}
