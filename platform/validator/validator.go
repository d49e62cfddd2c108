// Package validator provides validation infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package validator

import (
	"raf_pnp_backend/platform/phone"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the go-playground validator for structured validation.
type Validator struct {
	v *validator.Validate
}

// New creates a Validator with the shared custom tags registered:
//
//	sa_id     13-digit South African identity number with a valid check digit
//	za_phone  phone number that parses for the ZA region (or carries a +country code)
func New() *Validator {
	v := validator.New()
	_ = v.RegisterValidation("sa_id", func(fl validator.FieldLevel) bool {
		return ValidSAID(fl.Field().String())
	})
	_ = v.RegisterValidation("za_phone", func(fl validator.FieldLevel) bool {
		return phone.IsValid(fl.Field().String())
	})
	return &Validator{v: v}
}

// Struct validates a struct based on validation tags.
func (val *Validator) Struct(s interface{}) error {
	return val.v.Struct(s)
}

// Var validates a single variable against a tag.
func (val *Validator) Var(field interface{}, tag string) error {
	return val.v.Var(field, tag)
}

// RegisterValidation registers a custom validation function.
func (val *Validator) RegisterValidation(tag string, fn validator.Func) error {
	return val.v.RegisterValidation(tag, fn)
}

// ValidSAID checks length, digits and the Luhn check digit of a South
// African identity number.
func ValidSAID(id string) bool {
	if len(id) != 13 {
		return false
	}
	sum := 0
	for i := 0; i < 13; i++ {
		c := id[12-i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if i%2 == 1 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
	}
	return sum%10 == 0
}
