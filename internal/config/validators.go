package config

import (
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
)

// registerArmored adds a validator ensuring compression is only requested
// together with a binary safe output format.
func registerArmored(validate *validator.Validate) error {
	if err := validate.RegisterValidation("armored", validateArmored); err != nil {
		return fmt.Errorf("registering armored validation: %w", err)
	}

	return nil
}

// validateArmored fails when the bool field is set and the named format
// field is neither pem nor ascii85.
func validateArmored(fl validator.FieldLevel) bool {
	field := fl.Field()
	format := fl.Parent().FieldByName(fl.Param())

	if field.Kind() != reflect.Bool || !format.IsValid() || !field.Bool() {
		return true
	}

	switch format.String() {
	case FormatPEM, FormatASCII85:
		return true
	}

	return false
}
