// Package validator adapts go-playground/validator to echo's Validator
// interface.
package validator

import (
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	domainerrors "tradelink/internal/domain/errors"
)

// Validator wraps a validator instance for echo.
type Validator struct {
	validate *validator.Validate
}

// New builds the request validator.
func New() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate checks struct tags and maps failures onto the application error
// taxonomy so the error middleware renders them as 400s.
func (v *Validator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return errors.WithStack(domainerrors.ErrValidationFailed.WithDetails(err.Error()))
	}

	return nil
}
