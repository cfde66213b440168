package validation

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// bindingTags are exposed as struct tags on gin's request binding
var bindingTags = map[string]Validator{
	"gstin":   ValidateGSTIN,
	"pan":     ValidatePAN,
	"ifsc":    ValidateIFSC,
	"pincode": ValidatePostalCode,
	"mobile":  ValidateContactNumber,
}

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterBindings installs the field validators as go-playground/validator
// tags on gin's default binding engine. Safe to call more than once.
func RegisterBindings() error {
	registerOnce.Do(func() {
		v, isValidator := binding.Validator.Engine().(*validator.Validate)
		if !isValidator {
			registerErr = fmt.Errorf("unexpected binding engine %T", binding.Validator.Engine())
			return
		}
		registerErr = RegisterTags(v)
	})
	return registerErr
}

// RegisterTags installs the field validators on a validator instance
func RegisterTags(v *validator.Validate) error {
	for tag, fn := range bindingTags {
		fn := fn
		err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return fn(fl.Field().String()).Valid
		})
		if err != nil {
			return fmt.Errorf("failed to register %s validation: %w", tag, err)
		}
	}
	return nil
}
